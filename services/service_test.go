package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"campushub.events/models"
	"campushub.events/pkg/mailer"
	"campushub.events/pkg/queryparams"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database migrated with every model.
// cache=shared keeps the database alive across the pool's connections;
// _busy_timeout covers concurrent access in the race tests.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Event{}, &models.RSVP{}, &models.OTP{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return db
}

func testMailer() mailer.Mailer {
	return mailer.LogMailer{}
}

func createTestUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		FullName:     "Test User",
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func createTestEvent(t *testing.T, db *gorm.DB, ownerID uint, status models.EventStatus, capacity int, date time.Time) *models.Event {
	t.Helper()
	event := &models.Event{
		Title:       "Test Event",
		Description: "a test event",
		Date:        date,
		Location:    "Main Hall",
		Category:    models.CategorySocial,
		Capacity:    capacity,
		Status:      status,
		CreatedByID: ownerID,
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("create event: %v", err)
	}
	return event
}

func reloadEvent(t *testing.T, db *gorm.DB, id uint) *models.Event {
	t.Helper()
	var event models.Event
	if err := db.First(&event, id).Error; err != nil {
		t.Fatalf("reload event %d: %v", id, err)
	}
	return &event
}

// assertInvariant checks the central consistency rule: the cached counter
// equals the sum of (1 + guests) over attending RSVPs.
func assertInvariant(t *testing.T, db *gorm.DB, eventID uint) {
	t.Helper()
	event := reloadEvent(t, db, eventID)

	var actual int64
	err := db.Model(&models.RSVP{}).
		Where("event_id = ? AND status = ?", eventID, models.RSVPStatusAttending).
		Select("COALESCE(SUM(1 + number_of_guests), 0)").
		Scan(&actual).Error
	if err != nil {
		t.Fatalf("occupancy query: %v", err)
	}
	if int64(event.CurrentAttendees) != actual {
		t.Fatalf("invariant violated for event %d: cached=%d actual=%d", eventID, event.CurrentAttendees, actual)
	}
}

func ctx() context.Context {
	return context.Background()
}

func listParams() queryparams.ListParams {
	return queryparams.ListParams{Page: 1, PerPage: 20}
}
