package migrations

import (
	"campushub.events/configs/configslog"
	"campushub.events/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateOTPsTable creates/updates the otps table.
func MigrateOTPsTable(db *gorm.DB) error {
	configslog.SLog.Info("migrating otps table...")
	if err := db.AutoMigrate(&models.OTP{}); err != nil {
		configslog.Log.Error("failed to migrate otps table", zap.Error(err))
		return err
	}
	return nil
}
