package domain

// Group is a joinable community group that content can be migrated into
type Group struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// MediaUpload is the community platform's response to a media upload
type MediaUpload struct {
	UploadID int64 `json:"upload_id"`
}

// ActivityMedia is one media item attached to an activity
type ActivityMedia struct {
	ID int64 `json:"id"`
}

// Activity is a community activity post
type Activity struct {
	ID         int64           `json:"id"`
	BPMediaIDs []ActivityMedia `json:"bp_media_ids"`
}

// Media privacy levels understood by the community platform
const (
	MediaPrivacyGroupOnly = "grouponly"
)

// Activity constants for group migration posts
const (
	ActivityComponentGroups = "groups"
	ActivityTypeUpdate      = "activity_update"
)
