package seeders

import (
	"errors"
	"os"

	"campushub.events/configs/configslog"
	"campushub.events/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdminUser ensures one active admin account exists, using
// ADMIN_EMAIL/ADMIN_PASSWORD. Existing accounts are left untouched.
func SeedAdminUser(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		configslog.SLog.Warn("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seeder")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		configslog.SLog.Infof("admin account %s already exists, skipping", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		FullName:     "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		configslog.Log.Error("failed to seed admin account", zap.Error(err))
		return err
	}
	configslog.SLog.Infof("admin account %s created (ID %d)", email, admin.ID)
	return nil
}
