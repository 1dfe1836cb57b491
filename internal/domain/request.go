package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Migration status lifecycle: pending review -> migrated | declined,
// declined -> pending review (re-request). Migrated is terminal.
const (
	StatusPendingReview = "pending review"
	StatusMigrated      = "migrated"
	StatusDeclined      = "declined"
)

// Post status within the content store
const (
	PostStatusPending = "pending"
	PostStatusPublish = "publish"
)

// RejectionApproved marks an approved request's rejection_reason field
const RejectionApproved = "[APPROVED]"

// StringList is a JSON-encoded list of strings stored in a single column
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

// MigrationRequest is the persisted record of a user's request to migrate
// one external post into the community. Keyed by the external post id.
type MigrationRequest struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PostID          string     `gorm:"column:post_id;uniqueIndex;size:64" json:"post_id"`
	Title           string     `gorm:"column:title;size:255" json:"title"`
	AuthorID        string     `gorm:"column:author_id;size:64" json:"author_id"`
	AuthorName      string     `gorm:"column:author_name;size:255" json:"author_name"`
	Content         string     `gorm:"column:post_content;type:text" json:"post_content"`
	FileLinks       StringList `gorm:"column:file_links;type:json" json:"file_links"`
	Type            string     `gorm:"column:type;size:32" json:"type"`
	CreatedTime     string     `gorm:"column:created_time;size:32" json:"created_time"`
	UpdatedTime     string     `gorm:"column:updated_time;size:32" json:"updated_time"`
	MigrationStatus string     `gorm:"column:migration_status;size:32;index" json:"migration_status"`
	RejectionReason string     `gorm:"column:rejection_reason;size:255" json:"rejection_reason"`
	PostStatus      string     `gorm:"column:post_status;size:32;index" json:"post_status"`
	RequesterID     int64      `gorm:"column:requester_id" json:"requester_id"`
	CreatedAt       time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

// TableName returns the table name
func (MigrationRequest) TableName() string {
	return "fbposts"
}

// CanTransition reports whether the status may move to target
func (r *MigrationRequest) CanTransition(target string) bool {
	switch r.MigrationStatus {
	case StatusPendingReview:
		return target == StatusMigrated || target == StatusDeclined
	case StatusDeclined:
		return target == StatusPendingReview
	default:
		// migrated is terminal
		return false
	}
}

// ACFFields is the custom-fields map attached to a content store record.
// Kept as an explicit schema so malformed records are rejected on ingest
// instead of propagating empty values.
type ACFFields struct {
	PostID          string   `json:"post_id"`
	AuthorID        string   `json:"author_id"`
	AuthorName      string   `json:"author_name"`
	PostContent     string   `json:"post_content"`
	FileLinks       []string `json:"file_links"`
	Type            string   `json:"type"`
	CreatedTime     string   `json:"created_time"`
	UpdatedTime     string   `json:"updated_time"`
	MigrationStatus string   `json:"migration_status"`
	RejectionReason string   `json:"rejection_reason"`
}

// Validate checks required fields and the status value
func (f *ACFFields) Validate() error {
	if f.PostID == "" {
		return fmt.Errorf("acf: post_id is required")
	}
	switch f.MigrationStatus {
	case StatusPendingReview, StatusMigrated, StatusDeclined:
		return nil
	default:
		return fmt.Errorf("acf: unknown migration_status %q", f.MigrationStatus)
	}
}

// RequestResponse is the content store REST representation: the record
// plus its custom-fields map, matching what moderation clients consume.
type RequestResponse struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	PostStatus string    `json:"post_status"`
	PostAuthor int64     `json:"post_author"`
	ACF        ACFFields `json:"acf"`
}

// ToResponse builds the REST representation of the record
func (r *MigrationRequest) ToResponse() *RequestResponse {
	return &RequestResponse{
		ID:         r.ID,
		Title:      r.Title,
		PostStatus: r.PostStatus,
		PostAuthor: r.RequesterID,
		ACF: ACFFields{
			PostID:          r.PostID,
			AuthorID:        r.AuthorID,
			AuthorName:      r.AuthorName,
			PostContent:     r.Content,
			FileLinks:       r.FileLinks,
			Type:            r.Type,
			CreatedTime:     r.CreatedTime,
			UpdatedTime:     r.UpdatedTime,
			MigrationStatus: r.MigrationStatus,
			RejectionReason: r.RejectionReason,
		},
	}
}
