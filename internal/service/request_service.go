package service

import (
	"github.com/quokka-community/migration-backend/internal/common"
	"github.com/quokka-community/migration-backend/internal/domain"
	"github.com/quokka-community/migration-backend/internal/repository"
)

// CreateRequestInput mirrors the content store create payload: the
// record head plus its custom-fields map.
type CreateRequestInput struct {
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	Status      string           `json:"status"`
	Fields      domain.ACFFields `json:"fields"`
	RequesterID int64            `json:"-"`
}

// UpdateRequestInput is a partial update of one record
type UpdateRequestInput struct {
	PostStatus string `json:"post_status"`
	MetaInput  struct {
		MigrationStatus string `json:"migration_status"`
		RejectionReason string `json:"rejection_reason"`
	} `json:"meta_input"`
}

// RequestService is the content store API over migration requests
type RequestService interface {
	Get(postID string) (*domain.RequestResponse, error)
	Create(input *CreateRequestInput) (*domain.RequestResponse, error)
	Update(postID string, input *UpdateRequestInput) error
	Delete(postID string) error
	ListPending() ([]*domain.RequestResponse, error)
	ListAny() ([]*domain.RequestResponse, error)
}

type requestService struct {
	repo repository.RequestRepository
}

// NewRequestService creates a new RequestService
func NewRequestService(repo repository.RequestRepository) RequestService {
	return &requestService{repo: repo}
}

// Get returns one record by external post id
func (s *requestService) Get(postID string) (*domain.RequestResponse, error) {
	record, err := s.repo.FindByPostID(postID)
	if err != nil {
		return nil, err
	}
	return record.ToResponse(), nil
}

// Create validates the custom fields and upserts the record keyed by
// its external post id. Creating over an existing (declined) record
// resets it rather than duplicating it.
func (s *requestService) Create(input *CreateRequestInput) (*domain.RequestResponse, error) {
	if err := input.Fields.Validate(); err != nil {
		return nil, common.ErrMalformedRecord
	}

	// A migrated post cannot be re-requested
	if existing, err := s.repo.FindByPostID(input.Fields.PostID); err == nil {
		if existing.MigrationStatus == domain.StatusMigrated {
			return nil, common.ErrInvalidTransition
		}
	}

	postStatus := input.Status
	if postStatus == "" {
		postStatus = domain.PostStatusPending
	}

	record := &domain.MigrationRequest{
		PostID:          input.Fields.PostID,
		Title:           input.Title,
		AuthorID:        input.Fields.AuthorID,
		AuthorName:      input.Fields.AuthorName,
		Content:         input.Fields.PostContent,
		FileLinks:       input.Fields.FileLinks,
		Type:            input.Fields.Type,
		CreatedTime:     input.Fields.CreatedTime,
		UpdatedTime:     input.Fields.UpdatedTime,
		MigrationStatus: input.Fields.MigrationStatus,
		RejectionReason: input.Fields.RejectionReason,
		PostStatus:      postStatus,
		RequesterID:     input.RequesterID,
	}
	if err := s.repo.Upsert(record); err != nil {
		return nil, err
	}
	return record.ToResponse(), nil
}

// Update applies a partial update, enforcing the status lifecycle:
// pending review -> migrated | declined, declined -> pending review.
func (s *requestService) Update(postID string, input *UpdateRequestInput) error {
	record, err := s.repo.FindByPostID(postID)
	if err != nil {
		return err
	}

	status := record.MigrationStatus
	reason := record.RejectionReason
	if input.MetaInput.MigrationStatus != "" {
		if input.MetaInput.MigrationStatus != record.MigrationStatus &&
			!record.CanTransition(input.MetaInput.MigrationStatus) {
			return common.ErrInvalidTransition
		}
		// Same-status updates are allowed so a decline reason can
		// be corrected without re-running the lifecycle.
		status = input.MetaInput.MigrationStatus
		reason = input.MetaInput.RejectionReason
	}

	postStatus := record.PostStatus
	if input.PostStatus != "" {
		postStatus = input.PostStatus
	}

	return s.repo.UpdateStatus(postID, status, reason, postStatus)
}

// Delete removes one record
func (s *requestService) Delete(postID string) error {
	return s.repo.DeleteByPostID(postID)
}

// ListPending returns all records still awaiting review
func (s *requestService) ListPending() ([]*domain.RequestResponse, error) {
	records, err := s.repo.ListByPostStatus(domain.PostStatusPending)
	if err != nil {
		return nil, err
	}
	return toResponses(records), nil
}

// ListAny returns every record regardless of status
func (s *requestService) ListAny() ([]*domain.RequestResponse, error) {
	records, err := s.repo.ListAll()
	if err != nil {
		return nil, err
	}
	return toResponses(records), nil
}

func toResponses(records []domain.MigrationRequest) []*domain.RequestResponse {
	out := make([]*domain.RequestResponse, len(records))
	for i := range records {
		out[i] = records[i].ToResponse()
	}
	return out
}
