package migration

import (
	"github.com/quokka-community/migration-backend/internal/domain"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for the fbposts and users tables and seeds
// a development admin account when the users table is empty.
func Run(db *gorm.DB, seedDev bool) error {
	if err := db.AutoMigrate(&domain.MigrationRequest{}, &domain.User{}); err != nil {
		return err
	}

	if !seedDev {
		return nil
	}

	var count int64
	db.Model(&domain.User{}).Count(&count)
	if count == 0 {
		return seedUsers(db)
	}

	return nil
}

// seedUsers inserts a local admin for development setups. The password
// column holds the opaque hash the login widget forwards verbatim.
func seedUsers(db *gorm.DB) error {
	users := []domain.User{
		{UserID: "admin", Password: "$P$B.dev.admin.hash", Nickname: "Admin", Level: domain.AdminLevel, CommunityID: 1},
		{UserID: "member", Password: "$P$B.dev.member.hash", Nickname: "Member", Level: 1, CommunityID: 2},
	}
	return db.Create(&users).Error
}
