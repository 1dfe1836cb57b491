package service

import (
	"context"
	"errors"

	"github.com/quokka-community/migration-backend/internal/common"
	"github.com/quokka-community/migration-backend/internal/domain"
	"github.com/quokka-community/migration-backend/internal/repository"
	"github.com/quokka-community/migration-backend/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// FeedFetcher retrieves pages from the external feed source
type FeedFetcher interface {
	FetchPage(ctx context.Context, cursor, accessToken string) (*domain.FeedPage, error)
}

// FeedView is the filtered, sorted projection of a feed session
type FeedView struct {
	Posts         []domain.SessionPost `json:"posts"`
	Total         int                  `json:"total"`
	SelectedCount int                  `json:"selected_count"`
	LastPage      bool                 `json:"last_page"`
	Fetching      bool                 `json:"fetching"`
}

// FeedService drives the migrate view: feed fetching, status merging
// and selection handling.
type FeedService interface {
	FetchNextPage(ctx context.Context, userID, feedUserID, accessToken string) (*domain.FeedSession, error)
	Session(ctx context.Context, userID string) (*domain.FeedSession, error)
	View(ctx context.Context, userID, query string, hideRequested bool, sortOrder string) (*FeedView, error)
	ToggleSelection(ctx context.Context, userID, postID string) (*domain.FeedSession, error)
	SetAllSelection(ctx context.Context, userID string, selected bool) (*domain.FeedSession, error)
	Reset(ctx context.Context, userID string) error
}

type feedService struct {
	fetcher FeedFetcher
	repo    repository.RequestRepository
	store   *StateStore
}

// NewFeedService creates a new FeedService
func NewFeedService(fetcher FeedFetcher, repo repository.RequestRepository, store *StateStore) FeedService {
	return &feedService{
		fetcher: fetcher,
		repo:    repo,
		store:   store,
	}
}

// FetchNextPage fetches the next feed page into the user's session.
// Pages that contain none of the user's own posts are skipped
// transparently until a non-empty filtered page or feed exhaustion.
func (s *feedService) FetchNextPage(ctx context.Context, userID, feedUserID, accessToken string) (*domain.FeedSession, error) {
	session, err := s.store.LoadSession(ctx, userID)
	if errors.Is(err, common.ErrNoSession) {
		session = domain.NewFeedSession(userID, feedUserID)
	} else if err != nil {
		return nil, err
	}

	if session.LastPage {
		return session, nil
	}
	if session.Fetching {
		return nil, common.ErrFetchInFlight
	}

	// Expose the in-flight flag to concurrent view reads. Advisory only.
	session.Fetching = true
	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	defer func() {
		session.Fetching = false
		// The request context is already canceled when the caller
		// disconnected mid-fetch; the flag must still be cleared or
		// every retry would 409 until the session expires.
		if err := s.store.SaveSession(context.WithoutCancel(ctx), session); err != nil {
			logger.Error("feed session save failed: %v", err)
		}
	}()

	cursor := session.NextCursor
	for {
		page, err := s.fetcher.FetchPage(ctx, cursor, accessToken)
		if err != nil {
			// No retry: log and halt fetching, session is unchanged.
			logger.Error("feed fetch halted for user %s: %v", userID, err)
			return nil, err
		}

		if len(page.Data) == 0 {
			session.MarkExhausted()
			return session, nil
		}

		owned := filterOwned(page.Data, session.FeedUserID)
		if len(owned) == 0 {
			if page.Paging.Next == "" {
				session.MarkExhausted()
				return session, nil
			}
			// Nothing of ours on this page, skip to the next one
			cursor = page.Paging.Next
			continue
		}

		posts := s.mergeStatuses(ctx, owned)
		session.AppendPage(posts, page.Paging.Next)
		return session, nil
	}
}

// filterOwned keeps only the posts authored by the feed user
func filterOwned(posts []domain.FeedPost, feedUserID string) []domain.FeedPost {
	var out []domain.FeedPost
	for _, p := range posts {
		if p.From != nil && p.From.ID == feedUserID {
			out = append(out, p)
		}
	}
	return out
}

// mergeStatuses looks up the content store record of each post and
// copies its migration status. Lookups for one page are issued
// concurrently and joined before the page is considered complete.
// A missing record, or a failed lookup, leaves the post unrequested.
func (s *feedService) mergeStatuses(ctx context.Context, posts []domain.FeedPost) []domain.SessionPost {
	out := make([]domain.SessionPost, len(posts))

	g, _ := errgroup.WithContext(ctx)
	for i, p := range posts {
		i, p := i, p
		g.Go(func() error {
			sp := domain.SessionPost{FeedPost: p}
			record, err := s.repo.FindByPostID(p.ID)
			if err == nil {
				sp.Status = record.MigrationStatus
				if record.MigrationStatus == domain.StatusDeclined {
					sp.RejectionReason = record.RejectionReason
				}
			} else if !errors.Is(err, common.ErrRequestNotFound) {
				logger.Error("status lookup failed for post %s: %v", p.ID, err)
			}
			out[i] = sp
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// Session returns the raw session state
func (s *feedService) Session(ctx context.Context, userID string) (*domain.FeedSession, error) {
	return s.store.LoadSession(ctx, userID)
}

// View returns the session's posts filtered and sorted for display
func (s *feedService) View(ctx context.Context, userID, query string, hideRequested bool, sortOrder string) (*FeedView, error) {
	session, err := s.store.LoadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	posts := FilterPosts(SortPosts(session.Posts, sortOrder), query, hideRequested)
	return &FeedView{
		Posts:         posts,
		Total:         len(session.Posts),
		SelectedCount: session.SelectedCount(),
		LastPage:      session.LastPage,
		Fetching:      session.Fetching,
	}, nil
}

// ToggleSelection flips one post's selection; a no-op for posts that
// already carry a migration status.
func (s *feedService) ToggleSelection(ctx context.Context, userID, postID string) (*domain.FeedSession, error) {
	session, err := s.store.LoadSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	session.Toggle(postID)
	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SetAllSelection selects or deselects every selectable post
func (s *feedService) SetAllSelection(ctx context.Context, userID string, selected bool) (*domain.FeedSession, error) {
	session, err := s.store.LoadSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	session.SetAll(selected)
	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Reset discards the feed session
func (s *feedService) Reset(ctx context.Context, userID string) error {
	return s.store.ResetSession(ctx, userID)
}
