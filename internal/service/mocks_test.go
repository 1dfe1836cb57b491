package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/quokka-community/migration-backend/internal/client"
	"github.com/quokka-community/migration-backend/internal/domain"
	"github.com/quokka-community/migration-backend/pkg/cache"
	"github.com/stretchr/testify/mock"
)

// MockRequestRepository is a mock implementation of RequestRepository
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) FindByPostID(postID string) (*domain.MigrationRequest, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MigrationRequest), args.Error(1)
}

func (m *MockRequestRepository) ListByPostStatus(postStatus string) ([]domain.MigrationRequest, error) {
	args := m.Called(postStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MigrationRequest), args.Error(1)
}

func (m *MockRequestRepository) ListAll() ([]domain.MigrationRequest, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MigrationRequest), args.Error(1)
}

func (m *MockRequestRepository) Upsert(req *domain.MigrationRequest) error {
	args := m.Called(req)
	return args.Error(0)
}

func (m *MockRequestRepository) UpdateStatus(postID, migrationStatus, rejectionReason, postStatus string) error {
	args := m.Called(postID, migrationStatus, rejectionReason, postStatus)
	return args.Error(0)
}

func (m *MockRequestRepository) DeleteByPostID(postID string) error {
	args := m.Called(postID)
	return args.Error(0)
}

// MockFeedFetcher is a mock implementation of FeedFetcher
type MockFeedFetcher struct {
	mock.Mock
}

func (m *MockFeedFetcher) FetchPage(ctx context.Context, cursor, accessToken string) (*domain.FeedPage, error) {
	args := m.Called(cursor, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeedPage), args.Error(1)
}

// MockCommunityGateway is a mock implementation of CommunityGateway
type MockCommunityGateway struct {
	mock.Mock
}

func (m *MockCommunityGateway) ListGroups(ctx context.Context) ([]domain.Group, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Group), args.Error(1)
}

func (m *MockCommunityGateway) UploadMedia(ctx context.Context, filename string, data []byte) (*domain.MediaUpload, error) {
	args := m.Called(filename, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MediaUpload), args.Error(1)
}

func (m *MockCommunityGateway) SetMediaPrivacy(ctx context.Context, mediaID int64, privacy string) error {
	args := m.Called(mediaID, privacy)
	return args.Error(0)
}

func (m *MockCommunityGateway) CreateActivity(ctx context.Context, create *client.ActivityCreate) (*domain.Activity, error) {
	args := m.Called(create)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Activity), args.Error(1)
}

func (m *MockCommunityGateway) SetActivityAuthor(ctx context.Context, activityID, userID int64) (*domain.Activity, error) {
	args := m.Called(activityID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Activity), args.Error(1)
}

// MockMediaFetcher is a mock implementation of MediaFetcher
type MockMediaFetcher struct {
	mock.Mock
}

func (m *MockMediaFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByUserID(userID string) (*domain.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Create(user *domain.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// memCache is an in-memory cache.Service for StateStore tests. Like
// the redis-backed service it fails once the context is done.
type memCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{m: map[string][]byte{}}
}

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.m[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = data
	return nil
}

func (c *memCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.m, k)
	}
	return nil
}

func (c *memCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.m[key]
	return ok, nil
}

func (c *memCache) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.m[key]; ok {
		return false, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	c.m[key] = data
	return true, nil
}
