package database

import (
	"campushub.events/configs/configslog"
	"campushub.events/database/migrations"
	"campushub.events/database/seeders"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Initialize runs migrations and/or seeders inside one transaction.
func Initialize(db *gorm.DB, migrate bool, seed bool) error {
	if !migrate && !seed {
		configslog.SLog.Info("neither migrate nor seed requested, nothing to do")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if migrate {
			configslog.SLog.Info("running migrations...")
			if err := RunMigrationsInOrder(tx); err != nil {
				configslog.Log.Error("migration failed", zap.Error(err))
				return err
			}
			configslog.SLog.Info("migrations complete")
		}
		if seed {
			configslog.SLog.Info("running seeders...")
			if err := seeders.SeedAdminUser(tx); err != nil {
				configslog.Log.Error("seeding failed", zap.Error(err))
				return err
			}
			configslog.SLog.Info("seeders complete")
		}
		return nil
	})
}

// RunMigrationsInOrder migrates tables respecting foreign-key dependencies:
// users first, then events, then the tables referencing both.
func RunMigrationsInOrder(db *gorm.DB) error {
	if err := migrations.MigrateUsersTable(db); err != nil {
		return err
	}
	if err := migrations.MigrateEventsTable(db); err != nil {
		return err
	}
	if err := migrations.MigrateRSVPsTable(db); err != nil {
		return err
	}
	return migrations.MigrateOTPsTable(db)
}
