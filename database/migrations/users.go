package migrations

import (
	"campushub.events/configs/configslog"
	"campushub.events/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateUsersTable creates/updates the users table.
func MigrateUsersTable(db *gorm.DB) error {
	configslog.SLog.Info("migrating users table...")
	if err := db.AutoMigrate(&models.User{}); err != nil {
		configslog.Log.Error("failed to migrate users table", zap.Error(err))
		return err
	}
	return nil
}
