package service

import (
	"context"
	"errors"
	"testing"

	"github.com/quokka-community/migration-backend/internal/client"
	"github.com/quokka-community/migration-backend/internal/common"
	"github.com/quokka-community/migration-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func pendingRecord(postID string) *domain.MigrationRequest {
	return &domain.MigrationRequest{
		ID:              1,
		PostID:          postID,
		Title:           postID,
		Content:         "moving this over",
		FileLinks:       domain.StringList{"http://cdn/a.jpg", "http://cdn/b.jpg"},
		MigrationStatus: domain.StatusPendingReview,
		PostStatus:      domain.PostStatusPending,
		RequesterID:     9001,
	}
}

func TestModerationQueue_SplitsByStatus(t *testing.T) {
	repo := new(MockRequestRepository)
	store := NewStateStore(newMemCache())

	repo.On("ListAll").Return([]domain.MigrationRequest{
		{PostID: "p1", MigrationStatus: domain.StatusPendingReview},
		{PostID: "p2", MigrationStatus: domain.StatusMigrated},
		{PostID: "p3", MigrationStatus: domain.StatusDeclined},
		{PostID: "p4", MigrationStatus: domain.StatusPendingReview},
	}, nil)

	// p4 has an approval running
	ok, err := store.MarkInProgress(context.Background(), "p4")
	assert.NoError(t, err)
	assert.True(t, ok)

	svc := NewModerationService(repo, new(MockCommunityGateway), new(MockMediaFetcher), store)
	queue, err := svc.Queue(context.Background())

	assert.NoError(t, err)
	assert.Len(t, queue.Pending, 2)
	assert.Len(t, queue.Archived, 2)
	assert.False(t, queue.Pending[0].InProgress)
	assert.True(t, queue.Pending[1].InProgress)
}

func TestApprove_FullPipeline(t *testing.T) {
	repo := new(MockRequestRepository)
	gateway := new(MockCommunityGateway)
	media := new(MockMediaFetcher)
	store := NewStateStore(newMemCache())
	record := pendingRecord("fb_1")

	repo.On("FindByPostID", "fb_1").Return(record, nil)
	media.On("Fetch", "http://cdn/a.jpg").Return([]byte("aaa"), nil)
	media.On("Fetch", "http://cdn/b.jpg").Return([]byte("bbb"), nil)
	gateway.On("UploadMedia", "fb_1_0.jpg", []byte("aaa")).Return(&domain.MediaUpload{UploadID: 100}, nil)
	gateway.On("UploadMedia", "fb_1_1.jpg", []byte("bbb")).Return(&domain.MediaUpload{UploadID: 101}, nil)
	gateway.On("CreateActivity", mock.MatchedBy(func(c *client.ActivityCreate) bool {
		return c.Component == domain.ActivityComponentGroups &&
			c.PrimaryItemID == int64(44) &&
			c.Content == "moving this over" &&
			len(c.BPMediaIDs) == 2
	})).Return(&domain.Activity{ID: 500}, nil)
	gateway.On("SetActivityAuthor", int64(500), int64(9001)).Return(&domain.Activity{
		ID:         500,
		BPMediaIDs: []domain.ActivityMedia{{ID: 100}, {ID: 101}},
	}, nil)
	gateway.On("SetMediaPrivacy", int64(100), domain.MediaPrivacyGroupOnly).Return(nil)
	gateway.On("SetMediaPrivacy", int64(101), domain.MediaPrivacyGroupOnly).Return(nil)
	repo.On("UpdateStatus", "fb_1", domain.StatusMigrated, domain.RejectionApproved, domain.PostStatusPublish).Return(nil)

	svc := NewModerationService(repo, gateway, media, store)
	err := svc.Approve(context.Background(), "fb_1", 44)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
	media.AssertExpectations(t)
	assert.False(t, store.InProgress(context.Background(), "fb_1"))
}

func TestApprove_MediaFetchFailureLeavesStatus(t *testing.T) {
	repo := new(MockRequestRepository)
	gateway := new(MockCommunityGateway)
	media := new(MockMediaFetcher)
	store := NewStateStore(newMemCache())

	repo.On("FindByPostID", "fb_1").Return(pendingRecord("fb_1"), nil)
	media.On("Fetch", mock.Anything).Return(nil, errors.New("cdn timeout"))

	svc := NewModerationService(repo, gateway, media, store)
	err := svc.Approve(context.Background(), "fb_1", 44)

	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	gateway.AssertNotCalled(t, "CreateActivity", mock.Anything)
	// Flag is cleared so a retry is possible
	assert.False(t, store.InProgress(context.Background(), "fb_1"))
}

func TestApprove_ActivityFailureSkipsStatusUpdate(t *testing.T) {
	repo := new(MockRequestRepository)
	gateway := new(MockCommunityGateway)
	media := new(MockMediaFetcher)
	store := NewStateStore(newMemCache())
	record := pendingRecord("fb_1")
	record.FileLinks = nil

	repo.On("FindByPostID", "fb_1").Return(record, nil)
	gateway.On("CreateActivity", mock.Anything).Return(nil, errors.New("503"))

	svc := NewModerationService(repo, gateway, media, store)
	err := svc.Approve(context.Background(), "fb_1", 44)

	assert.Error(t, err)
	gateway.AssertNotCalled(t, "SetActivityAuthor", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApprove_ConcurrentApprovalRejected(t *testing.T) {
	repo := new(MockRequestRepository)
	store := NewStateStore(newMemCache())

	repo.On("FindByPostID", "fb_1").Return(pendingRecord("fb_1"), nil)
	ok, err := store.MarkInProgress(context.Background(), "fb_1")
	assert.NoError(t, err)
	assert.True(t, ok)

	svc := NewModerationService(repo, new(MockCommunityGateway), new(MockMediaFetcher), store)
	err = svc.Approve(context.Background(), "fb_1", 44)
	assert.ErrorIs(t, err, common.ErrRequestInProgress)
}

func TestApprove_NonPendingRejected(t *testing.T) {
	repo := new(MockRequestRepository)
	repo.On("FindByPostID", "fb_1").Return(&domain.MigrationRequest{
		PostID:          "fb_1",
		MigrationStatus: domain.StatusMigrated,
	}, nil)

	svc := NewModerationService(repo, new(MockCommunityGateway), new(MockMediaFetcher), NewStateStore(newMemCache()))
	err := svc.Approve(context.Background(), "fb_1", 44)
	assert.ErrorIs(t, err, common.ErrInvalidTransition)
}

func TestDecline(t *testing.T) {
	repo := new(MockRequestRepository)
	repo.On("FindByPostID", "fb_1").Return(pendingRecord("fb_1"), nil)
	repo.On("UpdateStatus", "fb_1", domain.StatusDeclined, "duplicate of fb_0", domain.PostStatusPending).Return(nil)

	svc := NewModerationService(repo, new(MockCommunityGateway), new(MockMediaFetcher), NewStateStore(newMemCache()))
	err := svc.Decline(context.Background(), "fb_1", "duplicate of fb_0")
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDecline_EmptyReasonAccepted(t *testing.T) {
	repo := new(MockRequestRepository)
	repo.On("FindByPostID", "fb_1").Return(pendingRecord("fb_1"), nil)
	repo.On("UpdateStatus", "fb_1", domain.StatusDeclined, "", domain.PostStatusPending).Return(nil)

	svc := NewModerationService(repo, new(MockCommunityGateway), new(MockMediaFetcher), NewStateStore(newMemCache()))
	assert.NoError(t, svc.Decline(context.Background(), "fb_1", ""))
}

func TestDecline_MigratedRejected(t *testing.T) {
	repo := new(MockRequestRepository)
	repo.On("FindByPostID", "fb_1").Return(&domain.MigrationRequest{
		PostID:          "fb_1",
		MigrationStatus: domain.StatusMigrated,
	}, nil)

	svc := NewModerationService(repo, new(MockCommunityGateway), new(MockMediaFetcher), NewStateStore(newMemCache()))
	err := svc.Decline(context.Background(), "fb_1", "nope")
	assert.ErrorIs(t, err, common.ErrInvalidTransition)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDecline_NotFound(t *testing.T) {
	repo := new(MockRequestRepository)
	repo.On("FindByPostID", "ghost").Return(nil, common.ErrRequestNotFound)

	svc := NewModerationService(repo, new(MockCommunityGateway), new(MockMediaFetcher), NewStateStore(newMemCache()))
	err := svc.Decline(context.Background(), "ghost", "")
	assert.ErrorIs(t, err, common.ErrRequestNotFound)
}
