package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/quokka-community/migration-backend/internal/domain"
)

// feedFields is the field projection requested from the feed source
const feedFields = "message,from,created_time,updated_time,type,id,name,full_picture,reactions,comments,attachments,permalink_url"

// FeedClient talks to the external social feed source (Graph-shaped API)
type FeedClient struct {
	http    *resty.Client
	baseURL string
	pageID  string
}

// NewFeedClient creates a feed client. timeout is in seconds; zero means
// the transport default.
func NewFeedClient(baseURL, pageID string, timeout int) *FeedClient {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(time.Duration(timeout) * time.Second)
	}
	return &FeedClient{
		http:    c,
		baseURL: baseURL,
		pageID:  pageID,
	}
}

// FetchPage retrieves one page of the feed. An empty cursor means the
// first page; otherwise cursor is the full next-page URL returned by the
// feed's paging object.
func (f *FeedClient) FetchPage(ctx context.Context, cursor, accessToken string) (*domain.FeedPage, error) {
	page := &domain.FeedPage{}

	req := f.http.R().
		SetContext(ctx).
		SetResult(page)

	var (
		resp *resty.Response
		err  error
	)
	if cursor == "" {
		resp, err = req.
			SetQueryParam("fields", feedFields).
			SetQueryParam("access_token", accessToken).
			Get(fmt.Sprintf("%s/%s/feed", f.baseURL, f.pageID))
	} else {
		// Next-page URLs already carry fields and token
		resp, err = req.Get(cursor)
	}
	if err != nil {
		return nil, fmt.Errorf("feed fetch failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("feed fetch failed: status %d", resp.StatusCode())
	}

	return page, nil
}
