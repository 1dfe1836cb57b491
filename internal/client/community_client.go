package client

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/quokka-community/migration-backend/internal/domain"
)

// ActivityCreate is the payload for creating a community activity post
type ActivityCreate struct {
	Component     string  `json:"component"`
	PrimaryItemID int64   `json:"primary_item_id"`
	Type          string  `json:"type"`
	Content       string  `json:"content"`
	BPMediaIDs    []int64 `json:"bp_media_ids"`
}

// CommunityClient talks to the community platform REST API using a
// service-account bearer token.
type CommunityClient struct {
	http    *resty.Client
	baseURL string
}

// NewCommunityClient creates a community platform client
func NewCommunityClient(baseURL, token string, timeout int) *CommunityClient {
	c := resty.New().
		SetAuthToken(token)
	if timeout > 0 {
		c.SetTimeout(time.Duration(timeout) * time.Second)
	}
	return &CommunityClient{
		http:    c,
		baseURL: baseURL,
	}
}

// ListGroups returns the groups that content can be migrated into
func (c *CommunityClient) ListGroups(ctx context.Context) ([]domain.Group, error) {
	var groups []domain.Group
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&groups).
		Get(c.baseURL + "/groups")
	if err != nil {
		return nil, fmt.Errorf("list groups failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list groups failed: status %d", resp.StatusCode())
	}
	return groups, nil
}

// UploadMedia uploads one media binary and returns its upload id
func (c *CommunityClient) UploadMedia(ctx context.Context, filename string, data []byte) (*domain.MediaUpload, error) {
	upload := &domain.MediaUpload{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(data)).
		SetResult(upload).
		Post(c.baseURL + "/media/upload")
	if err != nil {
		return nil, fmt.Errorf("media upload failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("media upload failed: status %d", resp.StatusCode())
	}
	return upload, nil
}

// SetMediaPrivacy patches one media item's privacy level
func (c *CommunityClient) SetMediaPrivacy(ctx context.Context, mediaID int64, privacy string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"privacy": privacy}).
		Patch(fmt.Sprintf("%s/media/%d", c.baseURL, mediaID))
	if err != nil {
		return fmt.Errorf("media privacy patch failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("media privacy patch failed: status %d", resp.StatusCode())
	}
	return nil
}

// CreateActivity creates a community activity post and returns it
func (c *CommunityClient) CreateActivity(ctx context.Context, create *ActivityCreate) (*domain.Activity, error) {
	activity := &domain.Activity{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(create).
		SetResult(activity).
		Post(c.baseURL + "/activity")
	if err != nil {
		return nil, fmt.Errorf("create activity failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("create activity failed: status %d", resp.StatusCode())
	}
	return activity, nil
}

// SetActivityAuthor patches the author of an activity and returns the
// updated activity (with its attached media ids).
func (c *CommunityClient) SetActivityAuthor(ctx context.Context, activityID, userID int64) (*domain.Activity, error) {
	activity := &domain.Activity{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]int64{"user_id": userID}).
		SetResult(activity).
		Patch(fmt.Sprintf("%s/activity/%d", c.baseURL, activityID))
	if err != nil {
		return nil, fmt.Errorf("activity author patch failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("activity author patch failed: status %d", resp.StatusCode())
	}
	return activity, nil
}
