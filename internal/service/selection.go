package service

import (
	"sort"
	"strings"

	"github.com/quokka-community/migration-backend/internal/domain"
)

// Sort orders for the migrate view
const (
	SortMostRecent   = "most_recent"
	SortLeastRecent  = "least_recent"
	SortMostComments = "most_comments"
)

// SortPosts returns the posts ordered by the given sort key. The input
// is not mutated; ties keep the original collection order (stable sort).
func SortPosts(posts []domain.SessionPost, order string) []domain.SessionPost {
	out := make([]domain.SessionPost, len(posts))
	copy(out, posts)

	switch order {
	case SortLeastRecent:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].UpdatedTime < out[j].UpdatedTime
		})
	case SortMostComments:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CommentCount() > out[j].CommentCount()
		})
	default: // SortMostRecent
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].UpdatedTime > out[j].UpdatedTime
		})
	}
	return out
}

// FilterPosts returns the posts matching the search query, optionally
// dropping posts that already carry a migration status. Matching is a
// case-insensitive substring check against the post message; an empty
// query matches everything. Order is preserved.
func FilterPosts(posts []domain.SessionPost, query string, hideRequested bool) []domain.SessionPost {
	q := strings.ToLower(query)
	out := make([]domain.SessionPost, 0, len(posts))
	for _, p := range posts {
		if hideRequested && p.Status != "" {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Content().Message), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}
