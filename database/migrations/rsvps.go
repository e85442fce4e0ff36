package migrations

import (
	"campushub.events/configs/configslog"
	"campushub.events/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateRSVPsTable creates/updates the rsvps table. The unique index on
// (event_id, user_id) is the structural defense against duplicate-create
// races; this migration must never be run without it.
func MigrateRSVPsTable(db *gorm.DB) error {
	configslog.SLog.Info("migrating rsvps table...")
	if err := db.AutoMigrate(&models.RSVP{}); err != nil {
		configslog.Log.Error("failed to migrate rsvps table", zap.Error(err))
		return err
	}
	return nil
}
