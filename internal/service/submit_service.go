package service

import (
	"context"

	"github.com/quokka-community/migration-backend/internal/common"
	"github.com/quokka-community/migration-backend/internal/domain"
	"github.com/quokka-community/migration-backend/internal/repository"
	"github.com/quokka-community/migration-backend/pkg/logger"
)

// SubmitOutcome is the per-post result of a batch submission
type SubmitOutcome struct {
	PostID string `json:"post_id"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// SubmitResult reports a batch submission. Submissions are per-post
// independent; partial success is expected and the caller reconciles
// from the outcomes.
type SubmitResult struct {
	Outcomes  []SubmitOutcome `json:"outcomes"`
	Submitted int             `json:"submitted"`
	Failed    int             `json:"failed"`
}

// SubmitService persists migration requests for selected feed posts
type SubmitService interface {
	SubmitSelected(ctx context.Context, userID string, requesterID int64) (*SubmitResult, error)
}

type submitService struct {
	repo  repository.RequestRepository
	store *StateStore
}

// NewSubmitService creates a new SubmitService
func NewSubmitService(repo repository.RequestRepository, store *StateStore) SubmitService {
	return &submitService{repo: repo, store: store}
}

// SubmitSelected creates a pending-review migration request for every
// selected post in the user's session. Successfully submitted posts
// transition to pending review and are deselected; failed posts keep
// their previous state so the request control shows up again.
func (s *submitService) SubmitSelected(ctx context.Context, userID string, requesterID int64) (*SubmitResult, error) {
	session, err := s.store.LoadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	selected := session.Selected()
	result := &SubmitResult{Outcomes: make([]SubmitOutcome, 0, len(selected))}
	submitted := map[string]bool{}

	for _, post := range selected {
		// The session status was merged at fetch time; the stored
		// record may have been migrated through another session
		// since, and migrated is terminal.
		if existing, err := s.repo.FindByPostID(post.ID); err == nil &&
			existing.MigrationStatus == domain.StatusMigrated {
			result.Outcomes = append(result.Outcomes, SubmitOutcome{PostID: post.ID, Error: common.ErrInvalidTransition.Error()})
			result.Failed++
			continue
		}

		record := buildRequest(&post, requesterID)
		if err := s.repo.Upsert(record); err != nil {
			logger.Error("submit failed for post %s: %v", post.ID, err)
			result.Outcomes = append(result.Outcomes, SubmitOutcome{PostID: post.ID, Error: err.Error()})
			result.Failed++
			continue
		}
		result.Outcomes = append(result.Outcomes, SubmitOutcome{PostID: post.ID, OK: true})
		result.Submitted++
		submitted[post.ID] = true
	}

	session.MarkSubmitted(submitted)
	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	return result, nil
}

// buildRequest maps a feed post onto a fresh pending-review record.
// A re-request of a previously declined post overwrites the existing
// record, resetting its status and clearing the rejection reason.
func buildRequest(post *domain.SessionPost, requesterID int64) *domain.MigrationRequest {
	content := post.Content()
	return &domain.MigrationRequest{
		PostID:          post.ID,
		Title:           post.ID,
		AuthorID:        post.AuthorID(),
		AuthorName:      post.AuthorName(),
		Content:         content.Message,
		FileLinks:       content.Photos,
		Type:            post.Type,
		CreatedTime:     post.CreatedTime,
		UpdatedTime:     post.UpdatedTime,
		MigrationStatus: domain.StatusPendingReview,
		RejectionReason: "",
		PostStatus:      domain.PostStatusPending,
		RequesterID:     requesterID,
	}
}
