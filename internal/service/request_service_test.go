package service

import (
	"testing"

	"github.com/quokka-community/migration-backend/internal/common"
	"github.com/quokka-community/migration-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func validCreateInput(postID string) *CreateRequestInput {
	return &CreateRequestInput{
		Title: postID,
		Fields: domain.ACFFields{
			PostID:          postID,
			AuthorID:        "55",
			AuthorName:      "Jamie",
			PostContent:     "hello",
			FileLinks:       []string{"http://cdn/a.jpg"},
			MigrationStatus: domain.StatusPendingReview,
		},
		RequesterID: 9001,
	}
}

func TestRequestService_Create(t *testing.T) {
	repo := new(MockRequestRepository)
	repo.On("FindByPostID", "fb_1").Return(nil, common.ErrRequestNotFound)
	repo.On("Upsert", mock.MatchedBy(func(r *domain.MigrationRequest) bool {
		return r.PostID == "fb_1" &&
			r.MigrationStatus == domain.StatusPendingReview &&
			r.PostStatus == domain.PostStatusPending &&
			r.RequesterID == int64(9001)
	})).Return(nil)

	svc := NewRequestService(repo)
	resp, err := svc.Create(validCreateInput("fb_1"))

	assert.NoError(t, err)
	assert.Equal(t, "fb_1", resp.ACF.PostID)
	assert.Equal(t, domain.StatusPendingReview, resp.ACF.MigrationStatus)
	repo.AssertExpectations(t)
}

func TestRequestService_Create_MalformedFields(t *testing.T) {
	repo := new(MockRequestRepository)
	svc := NewRequestService(repo)

	input := validCreateInput("fb_1")
	input.Fields.PostID = ""
	_, err := svc.Create(input)
	assert.ErrorIs(t, err, common.ErrMalformedRecord)

	input = validCreateInput("fb_1")
	input.Fields.MigrationStatus = "shipped"
	_, err = svc.Create(input)
	assert.ErrorIs(t, err, common.ErrMalformedRecord)

	repo.AssertNotCalled(t, "Upsert", mock.Anything)
}

func TestRequestService_Create_MigratedNotReRequestable(t *testing.T) {
	repo := new(MockRequestRepository)
	repo.On("FindByPostID", "fb_1").Return(&domain.MigrationRequest{
		PostID:          "fb_1",
		MigrationStatus: domain.StatusMigrated,
	}, nil)

	svc := NewRequestService(repo)
	_, err := svc.Create(validCreateInput("fb_1"))
	assert.ErrorIs(t, err, common.ErrInvalidTransition)
	repo.AssertNotCalled(t, "Upsert", mock.Anything)
}

func TestRequestService_Create_DeclinedOverwritten(t *testing.T) {
	repo := new(MockRequestRepository)
	repo.On("FindByPostID", "fb_1").Return(&domain.MigrationRequest{
		ID:              3,
		PostID:          "fb_1",
		MigrationStatus: domain.StatusDeclined,
		RejectionReason: "off topic",
	}, nil)
	repo.On("Upsert", mock.MatchedBy(func(r *domain.MigrationRequest) bool {
		return r.PostID == "fb_1" &&
			r.MigrationStatus == domain.StatusPendingReview &&
			r.RejectionReason == ""
	})).Return(nil)

	svc := NewRequestService(repo)
	_, err := svc.Create(validCreateInput("fb_1"))
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRequestService_Update_TransitionEnforced(t *testing.T) {
	repo := new(MockRequestRepository)
	repo.On("FindByPostID", "fb_1").Return(&domain.MigrationRequest{
		PostID:          "fb_1",
		MigrationStatus: domain.StatusMigrated,
		PostStatus:      domain.PostStatusPublish,
	}, nil)

	svc := NewRequestService(repo)
	input := &UpdateRequestInput{}
	input.MetaInput.MigrationStatus = domain.StatusDeclined

	err := svc.Update("fb_1", input)
	assert.ErrorIs(t, err, common.ErrInvalidTransition)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestService_Update_Decline(t *testing.T) {
	repo := new(MockRequestRepository)
	repo.On("FindByPostID", "fb_1").Return(&domain.MigrationRequest{
		PostID:          "fb_1",
		MigrationStatus: domain.StatusPendingReview,
		PostStatus:      domain.PostStatusPending,
	}, nil)
	repo.On("UpdateStatus", "fb_1", domain.StatusDeclined, "too blurry", domain.PostStatusPending).Return(nil)

	svc := NewRequestService(repo)
	input := &UpdateRequestInput{}
	input.MetaInput.MigrationStatus = domain.StatusDeclined
	input.MetaInput.RejectionReason = "too blurry"

	assert.NoError(t, svc.Update("fb_1", input))
	repo.AssertExpectations(t)
}

func TestRequestService_Update_RedeclineRefreshesReason(t *testing.T) {
	repo := new(MockRequestRepository)
	repo.On("FindByPostID", "fb_1").Return(&domain.MigrationRequest{
		PostID:          "fb_1",
		MigrationStatus: domain.StatusDeclined,
		RejectionReason: "too blurry",
		PostStatus:      domain.PostStatusPending,
	}, nil)
	repo.On("UpdateStatus", "fb_1", domain.StatusDeclined, "wrong group entirely", domain.PostStatusPending).Return(nil)

	svc := NewRequestService(repo)
	input := &UpdateRequestInput{}
	input.MetaInput.MigrationStatus = domain.StatusDeclined
	input.MetaInput.RejectionReason = "wrong group entirely"

	assert.NoError(t, svc.Update("fb_1", input))
	repo.AssertExpectations(t)
}

func TestRequestService_Update_PostStatusOnly(t *testing.T) {
	repo := new(MockRequestRepository)
	repo.On("FindByPostID", "fb_1").Return(&domain.MigrationRequest{
		PostID:          "fb_1",
		MigrationStatus: domain.StatusPendingReview,
		RejectionReason: "",
		PostStatus:      domain.PostStatusPending,
	}, nil)
	repo.On("UpdateStatus", "fb_1", domain.StatusPendingReview, "", domain.PostStatusPublish).Return(nil)

	svc := NewRequestService(repo)
	input := &UpdateRequestInput{PostStatus: domain.PostStatusPublish}
	assert.NoError(t, svc.Update("fb_1", input))
	repo.AssertExpectations(t)
}

func TestRequestService_GetAndDelete(t *testing.T) {
	repo := new(MockRequestRepository)
	repo.On("FindByPostID", "fb_1").Return(pendingRecord("fb_1"), nil)
	repo.On("FindByPostID", "ghost").Return(nil, common.ErrRequestNotFound)
	repo.On("DeleteByPostID", "fb_1").Return(nil)

	svc := NewRequestService(repo)

	resp, err := svc.Get("fb_1")
	assert.NoError(t, err)
	assert.Equal(t, "fb_1", resp.ACF.PostID)

	_, err = svc.Get("ghost")
	assert.ErrorIs(t, err, common.ErrRequestNotFound)

	assert.NoError(t, svc.Delete("fb_1"))
	repo.AssertExpectations(t)
}

func TestRequestService_Listings(t *testing.T) {
	repo := new(MockRequestRepository)
	repo.On("ListByPostStatus", domain.PostStatusPending).Return([]domain.MigrationRequest{
		{PostID: "p1", MigrationStatus: domain.StatusPendingReview},
	}, nil)
	repo.On("ListAll").Return([]domain.MigrationRequest{
		{PostID: "p1", MigrationStatus: domain.StatusPendingReview},
		{PostID: "p2", MigrationStatus: domain.StatusMigrated},
	}, nil)

	svc := NewRequestService(repo)

	pending, err := svc.ListPending()
	assert.NoError(t, err)
	assert.Len(t, pending, 1)

	all, err := svc.ListAny()
	assert.NoError(t, err)
	assert.Len(t, all, 2)
}
