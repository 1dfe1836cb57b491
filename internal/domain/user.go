package domain

import "time"

// User is a local account allowed to use the migration tool. The
// password column holds the opaque hash the widget forwards verbatim,
// so comparison is exact-match rather than a hash verification.
type User struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID      string    `gorm:"column:user_login;uniqueIndex;size:64" json:"user_id"`
	Password    string    `gorm:"column:user_pass;size:255" json:"-"`
	Nickname    string    `gorm:"column:nickname;size:255" json:"nickname"`
	Level       int       `gorm:"column:level" json:"level"`
	CommunityID int64     `gorm:"column:community_id" json:"community_id"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName returns the table name
func (User) TableName() string {
	return "users"
}

// AdminLevel is the minimum level granting moderation rights
const AdminLevel = 10

// IsAdmin reports whether the user can moderate migration requests
func (u *User) IsAdmin() bool {
	return u.Level >= AdminLevel
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID       int64  `json:"id"`
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
	Level    int    `json:"level"`
	Admin    bool   `json:"admin"`
}

// ToResponse builds the public view
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:       u.ID,
		UserID:   u.UserID,
		Nickname: u.Nickname,
		Level:    u.Level,
		Admin:    u.IsAdmin(),
	}
}
