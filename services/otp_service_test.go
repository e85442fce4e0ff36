package services

import (
	"errors"
	"testing"
	"time"

	"campushub.events/models"
)

func TestOTPIssueAndValidate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOTPServiceWithDB(db)

	userID := uint(7)
	code, err := svc.Issue(ctx(), "a@campus.edu", models.OTPPurposeRegistration, &userID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(code) != models.OTPCodeLength {
		t.Fatalf("code length = %d, want %d", len(code), models.OTPCodeLength)
	}

	got, err := svc.Validate(ctx(), "a@campus.edu", code, models.OTPPurposeRegistration)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got == nil || *got != userID {
		t.Fatalf("linked userID = %v, want %d", got, userID)
	}

	// A verified record no longer matches lookups.
	if _, err := svc.Validate(ctx(), "a@campus.edu", code, models.OTPPurposeRegistration); !errors.Is(err, ErrOTPNotFound) {
		t.Fatalf("second validate after success: got %v, want ErrOTPNotFound", err)
	}
}

func TestOTPPurposeScoping(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOTPServiceWithDB(db)

	code, err := svc.Issue(ctx(), "a@campus.edu", models.OTPPurposeRegistration, nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	// A registration code never validates against the reset purpose.
	if _, err := svc.Validate(ctx(), "a@campus.edu", code, models.OTPPurposePasswordReset); !errors.Is(err, ErrOTPNotFound) {
		t.Fatalf("cross-purpose validate: got %v, want ErrOTPNotFound", err)
	}
}

func TestOTPExpiry(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOTPServiceWithDB(db)

	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }

	code, err := svc.Issue(ctx(), "a@campus.edu", models.OTPPurposeRegistration, nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// 11 minutes later the 10-minute window has passed.
	svc.now = func() time.Time { return issuedAt.Add(11 * time.Minute) }
	if _, err := svc.Validate(ctx(), "a@campus.edu", code, models.OTPPurposeRegistration); !errors.Is(err, ErrOTPExpired) {
		t.Fatalf("validate after expiry: got %v, want ErrOTPExpired", err)
	}

	// The expiry check fires before the attempt counter is touched.
	var record models.OTP
	if err := db.Where("email = ?", "a@campus.edu").First(&record).Error; err != nil {
		t.Fatalf("load record: %v", err)
	}
	if record.Attempts != 0 {
		t.Fatalf("attempts after expired validate = %d, want 0", record.Attempts)
	}
}

func TestOTPAttemptCap(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOTPServiceWithDB(db)

	code, err := svc.Issue(ctx(), "a@campus.edu", models.OTPPurposeRegistration, nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	for i := 0; i < models.OTPMaxAttempts; i++ {
		if _, err := svc.Validate(ctx(), "a@campus.edu", wrong, models.OTPPurposeRegistration); !errors.Is(err, ErrOTPInvalidCode) {
			t.Fatalf("attempt %d: got %v, want ErrOTPInvalidCode", i+1, err)
		}
	}
	// The 6th attempt is rejected before comparison, even with the right code.
	if _, err := svc.Validate(ctx(), "a@campus.edu", code, models.OTPPurposeRegistration); !errors.Is(err, ErrOTPAttemptsExceeded) {
		t.Fatalf("capped attempt: got %v, want ErrOTPAttemptsExceeded", err)
	}
}

func TestOTPReissueInvalidatesPrior(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOTPServiceWithDB(db)

	oldCode, err := svc.Issue(ctx(), "a@campus.edu", models.OTPPurposeRegistration, nil)
	if err != nil {
		t.Fatalf("first issue: %v", err)
	}
	newCode, err := svc.Issue(ctx(), "a@campus.edu", models.OTPPurposeRegistration, nil)
	if err != nil {
		t.Fatalf("second issue: %v", err)
	}

	var count int64
	db.Model(&models.OTP{}).Where("email = ?", "a@campus.edu").Count(&count)
	if count != 1 {
		t.Fatalf("active records after reissue = %d, want 1", count)
	}

	if oldCode != newCode {
		if _, err := svc.Validate(ctx(), "a@campus.edu", oldCode, models.OTPPurposeRegistration); err == nil {
			t.Fatal("old code validated after reissue")
		}
	}
	if _, err := svc.Validate(ctx(), "a@campus.edu", newCode, models.OTPPurposeRegistration); err != nil {
		t.Fatalf("new code validate: %v", err)
	}
}

func TestOTPSweep(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOTPServiceWithDB(db)

	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }
	if _, err := svc.Issue(ctx(), "old@campus.edu", models.OTPPurposeRegistration, nil); err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = func() time.Time { return issuedAt.Add(20 * time.Minute) }
	if _, err := svc.Issue(ctx(), "fresh@campus.edu", models.OTPPurposeRegistration, nil); err != nil {
		t.Fatalf("issue: %v", err)
	}

	removed, err := svc.Sweep(ctx())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 1 {
		t.Fatalf("swept %d records, want 1", removed)
	}
	var count int64
	db.Model(&models.OTP{}).Count(&count)
	if count != 1 {
		t.Fatalf("records after sweep = %d, want 1", count)
	}
}
