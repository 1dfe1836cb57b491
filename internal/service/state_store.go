package service

import (
	"context"
	"errors"

	"github.com/quokka-community/migration-backend/internal/common"
	"github.com/quokka-community/migration-backend/internal/domain"
	"github.com/quokka-community/migration-backend/pkg/cache"
)

// StateStore persists per-user feed sessions and the advisory
// approve-in-progress flags between HTTP calls.
type StateStore struct {
	cache cache.Service
}

// NewStateStore creates a StateStore on top of the cache service
func NewStateStore(c cache.Service) *StateStore {
	return &StateStore{cache: c}
}

// LoadSession returns the user's feed session, or common.ErrNoSession
func (s *StateStore) LoadSession(ctx context.Context, userID string) (*domain.FeedSession, error) {
	var session domain.FeedSession
	err := s.cache.Get(ctx, cache.PrefixFeedSession+userID, &session)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, common.ErrNoSession
		}
		return nil, err
	}
	return &session, nil
}

// SaveSession persists the user's feed session
func (s *StateStore) SaveSession(ctx context.Context, session *domain.FeedSession) error {
	return s.cache.Set(ctx, cache.PrefixFeedSession+session.UserID, session, cache.TTLSession)
}

// ResetSession discards the user's feed session
func (s *StateStore) ResetSession(ctx context.Context, userID string) error {
	return s.cache.Delete(ctx, cache.PrefixFeedSession+userID)
}

// MarkInProgress sets the advisory in-progress flag for one request.
// Returns false when the flag was already set by another approval.
func (s *StateStore) MarkInProgress(ctx context.Context, postID string) (bool, error) {
	return s.cache.SetNX(ctx, cache.PrefixInProgress+postID, true, cache.TTLInProgress)
}

// ClearInProgress removes the in-progress flag
func (s *StateStore) ClearInProgress(ctx context.Context, postID string) error {
	return s.cache.Delete(ctx, cache.PrefixInProgress+postID)
}

// InProgress reports whether a request is currently being approved
func (s *StateStore) InProgress(ctx context.Context, postID string) bool {
	exists, err := s.cache.Exists(ctx, cache.PrefixInProgress+postID)
	if err != nil {
		return false
	}
	return exists
}
