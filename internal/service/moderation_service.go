package service

import (
	"context"
	"fmt"

	"github.com/quokka-community/migration-backend/internal/client"
	"github.com/quokka-community/migration-backend/internal/common"
	"github.com/quokka-community/migration-backend/internal/domain"
	"github.com/quokka-community/migration-backend/internal/repository"
	"github.com/quokka-community/migration-backend/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// CommunityGateway is the community platform surface used by approvals
type CommunityGateway interface {
	ListGroups(ctx context.Context) ([]domain.Group, error)
	UploadMedia(ctx context.Context, filename string, data []byte) (*domain.MediaUpload, error)
	SetMediaPrivacy(ctx context.Context, mediaID int64, privacy string) error
	CreateActivity(ctx context.Context, create *client.ActivityCreate) (*domain.Activity, error)
	SetActivityAuthor(ctx context.Context, activityID, userID int64) (*domain.Activity, error)
}

// MediaFetcher downloads media binaries from their original links
type MediaFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ModerationRequest is one queue entry with its advisory progress flag
type ModerationRequest struct {
	*domain.RequestResponse
	InProgress bool `json:"is_migrating"`
}

// ModerationQueue splits the requests into pending and archived
type ModerationQueue struct {
	Pending  []ModerationRequest `json:"pending"`
	Archived []ModerationRequest `json:"archived"`
}

// ModerationService reviews migration requests: listing the queue,
// approving into a community group, or declining with a reason.
type ModerationService interface {
	Queue(ctx context.Context) (*ModerationQueue, error)
	Groups(ctx context.Context) ([]domain.Group, error)
	Approve(ctx context.Context, postID string, groupID int64) error
	Decline(ctx context.Context, postID, reason string) error
}

type moderationService struct {
	repo      repository.RequestRepository
	community CommunityGateway
	media     MediaFetcher
	store     *StateStore
}

// NewModerationService creates a new ModerationService
func NewModerationService(
	repo repository.RequestRepository,
	community CommunityGateway,
	media MediaFetcher,
	store *StateStore,
) ModerationService {
	return &moderationService{
		repo:      repo,
		community: community,
		media:     media,
		store:     store,
	}
}

// Queue lists all requests, split into pending review and archived
func (s *moderationService) Queue(ctx context.Context) (*ModerationQueue, error) {
	records, err := s.repo.ListAll()
	if err != nil {
		return nil, err
	}

	queue := &ModerationQueue{
		Pending:  []ModerationRequest{},
		Archived: []ModerationRequest{},
	}
	for i := range records {
		entry := ModerationRequest{RequestResponse: records[i].ToResponse()}
		if records[i].MigrationStatus == domain.StatusPendingReview {
			entry.InProgress = s.store.InProgress(ctx, records[i].PostID)
			queue.Pending = append(queue.Pending, entry)
		} else {
			queue.Archived = append(queue.Archived, entry)
		}
	}
	return queue, nil
}

// Groups returns the community groups a request can be approved into
func (s *moderationService) Groups(ctx context.Context) ([]domain.Group, error) {
	return s.community.ListGroups(ctx)
}

// Approve runs the migration pipeline for one request:
// media fetch -> media upload -> activity post -> author correction ->
// media privacy patch -> status update. The first failing step aborts
// the rest; already-applied steps are not rolled back, the request
// stays pending and its progress flag is cleared so retry is possible.
func (s *moderationService) Approve(ctx context.Context, postID string, groupID int64) error {
	record, err := s.repo.FindByPostID(postID)
	if err != nil {
		return err
	}
	if record.MigrationStatus != domain.StatusPendingReview {
		return common.ErrInvalidTransition
	}

	ok, err := s.store.MarkInProgress(ctx, postID)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrRequestInProgress
	}
	defer func() {
		if err := s.store.ClearInProgress(ctx, postID); err != nil {
			logger.Error("clearing progress flag failed for %s: %v", postID, err)
		}
	}()

	files, err := s.fetchMedia(ctx, record.FileLinks)
	if err != nil {
		return err
	}

	uploadIDs, err := s.uploadMedia(ctx, postID, files)
	if err != nil {
		return err
	}

	activity, err := s.community.CreateActivity(ctx, &client.ActivityCreate{
		Component:     domain.ActivityComponentGroups,
		PrimaryItemID: groupID,
		Type:          domain.ActivityTypeUpdate,
		Content:       record.Content,
		BPMediaIDs:    uploadIDs,
	})
	if err != nil {
		return err
	}

	updated, err := s.community.SetActivityAuthor(ctx, activity.ID, record.RequesterID)
	if err != nil {
		return err
	}

	if err := s.patchMediaPrivacy(ctx, updated.BPMediaIDs); err != nil {
		return err
	}

	return s.repo.UpdateStatus(postID, domain.StatusMigrated, domain.RejectionApproved, domain.PostStatusPublish)
}

// fetchMedia downloads every media link concurrently, preserving order
func (s *moderationService) fetchMedia(ctx context.Context, links []string) ([][]byte, error) {
	files := make([][]byte, len(links))
	g, gctx := errgroup.WithContext(ctx)
	for i, link := range links {
		i, link := i, link
		g.Go(func() error {
			data, err := s.media.Fetch(gctx, link)
			if err != nil {
				return err
			}
			files[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("media fetch step: %w", err)
	}
	return files, nil
}

// uploadMedia uploads every file concurrently, preserving order
func (s *moderationService) uploadMedia(ctx context.Context, postID string, files [][]byte) ([]int64, error) {
	ids := make([]int64, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, data := range files {
		i, data := i, data
		g.Go(func() error {
			upload, err := s.community.UploadMedia(gctx, fmt.Sprintf("%s_%d.jpg", postID, i), data)
			if err != nil {
				return err
			}
			ids[i] = upload.UploadID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("media upload step: %w", err)
	}
	return ids, nil
}

// patchMediaPrivacy restricts every uploaded media item to the group
func (s *moderationService) patchMediaPrivacy(ctx context.Context, media []domain.ActivityMedia) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, m := range media {
		m := m
		g.Go(func() error {
			return s.community.SetMediaPrivacy(gctx, m.ID, domain.MediaPrivacyGroupOnly)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("media privacy step: %w", err)
	}
	return nil
}

// Decline rejects one request with the supplied reason (may be empty)
func (s *moderationService) Decline(ctx context.Context, postID, reason string) error {
	record, err := s.repo.FindByPostID(postID)
	if err != nil {
		return err
	}
	if !record.CanTransition(domain.StatusDeclined) {
		return common.ErrInvalidTransition
	}
	return s.repo.UpdateStatus(postID, domain.StatusDeclined, reason, domain.PostStatusPending)
}
