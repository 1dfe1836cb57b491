package repository

import (
	"errors"

	"github.com/quokka-community/migration-backend/internal/common"
	"github.com/quokka-community/migration-backend/internal/domain"
	"gorm.io/gorm"
)

// RequestRepository migration request data access interface
type RequestRepository interface {
	FindByPostID(postID string) (*domain.MigrationRequest, error)
	ListByPostStatus(postStatus string) ([]domain.MigrationRequest, error)
	ListAll() ([]domain.MigrationRequest, error)

	// Upsert creates the record, or replaces the existing record with
	// the same external post id (re-request of a declined post).
	Upsert(req *domain.MigrationRequest) error
	UpdateStatus(postID, migrationStatus, rejectionReason, postStatus string) error
	DeleteByPostID(postID string) error
}

type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new RequestRepository
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

// FindByPostID finds a request by external post id
func (r *requestRepository) FindByPostID(postID string) (*domain.MigrationRequest, error) {
	var req domain.MigrationRequest
	err := r.db.Where("post_id = ?", postID).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

// ListByPostStatus lists requests filtered by content store post status
func (r *requestRepository) ListByPostStatus(postStatus string) ([]domain.MigrationRequest, error) {
	var reqs []domain.MigrationRequest
	err := r.db.Where("post_status = ?", postStatus).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// ListAll lists every request regardless of status
func (r *requestRepository) ListAll() ([]domain.MigrationRequest, error) {
	var reqs []domain.MigrationRequest
	err := r.db.Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

// Upsert creates or replaces the record keyed by post_id. At most one
// record exists per external post id.
func (r *requestRepository) Upsert(req *domain.MigrationRequest) error {
	var existing domain.MigrationRequest
	err := r.db.Where("post_id = ?", req.PostID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(req).Error
	}
	if err != nil {
		return err
	}

	req.ID = existing.ID
	req.CreatedAt = existing.CreatedAt
	return r.db.Save(req).Error
}

// UpdateStatus updates the migration status fields of one request
func (r *requestRepository) UpdateStatus(postID, migrationStatus, rejectionReason, postStatus string) error {
	result := r.db.Model(&domain.MigrationRequest{}).
		Where("post_id = ?", postID).
		Updates(map[string]interface{}{
			"migration_status": migrationStatus,
			"rejection_reason": rejectionReason,
			"post_status":      postStatus,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrRequestNotFound
	}
	return nil
}

// DeleteByPostID removes a request by external post id
func (r *requestRepository) DeleteByPostID(postID string) error {
	result := r.db.Where("post_id = ?", postID).Delete(&domain.MigrationRequest{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrRequestNotFound
	}
	return nil
}
