package migrations

import (
	"campushub.events/configs/configslog"
	"campushub.events/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateEventsTable creates/updates the events table. Users must exist
// first for the owner foreign key.
func MigrateEventsTable(db *gorm.DB) error {
	configslog.SLog.Info("migrating events table...")
	if err := db.AutoMigrate(&models.Event{}); err != nil {
		configslog.Log.Error("failed to migrate events table", zap.Error(err))
		return err
	}
	return nil
}
