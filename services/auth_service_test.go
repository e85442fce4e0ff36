package services

import (
	"errors"
	"testing"

	"campushub.events/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// storedCode pulls the active code for an email+purpose pair straight from
// the table, standing in for reading the verification email.
func storedCode(t *testing.T, db *gorm.DB, email string, purpose models.OTPPurpose) string {
	t.Helper()
	var otp models.OTP
	err := db.Where("email = ? AND purpose = ?", email, purpose).First(&otp).Error
	if err != nil {
		t.Fatalf("load otp for %s/%s: %v", email, purpose, err)
	}
	return otp.Code
}

// setPassword stores a real bcrypt hash for a fixture user.
func setPassword(t *testing.T, db *gorm.DB, userID uint, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", userID).
		Update("password_hash", string(hash)).Error; err != nil {
		t.Fatalf("store password: %v", err)
	}
}

func TestRegisterVerifyLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupTestDB(t)
	svc := NewAuthServiceWithDB(db, testMailer())

	sn := "S1234567"
	user, err := svc.Register(ctx(), RegisterInput{
		FullName:      "Alice Example",
		Email:         "Alice@Campus.EDU",
		Password:      "hunter2hunter2",
		StudentNumber: &sn,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "alice@campus.edu" {
		t.Fatalf("email = %q, want normalized lowercase", user.Email)
	}
	if user.IsActive {
		t.Fatal("account active before verification")
	}
	if user.Role != models.RoleStudent {
		t.Fatalf("role = %s, want student", user.Role)
	}

	// Unverified accounts cannot log in.
	if _, _, err := svc.Login(ctx(), "alice@campus.edu", "hunter2hunter2"); !errors.Is(err, ErrAccountInactive) {
		t.Fatalf("pre-verification login: got %v, want ErrAccountInactive", err)
	}

	code := storedCode(t, db, "alice@campus.edu", models.OTPPurposeRegistration)
	verified, err := svc.VerifyEmail(ctx(), "alice@campus.edu", code)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !verified.IsActive {
		t.Fatal("account still inactive after verification")
	}

	signed, loggedIn, err := svc.Login(ctx(), "alice@campus.edu", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if signed == "" {
		t.Fatal("empty token")
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("logged-in user = %d, want %d", loggedIn.ID, user.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthServiceWithDB(db, testMailer())

	input := RegisterInput{FullName: "Alice", Email: "alice@campus.edu", Password: "hunter2hunter2"}
	if _, err := svc.Register(ctx(), input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx(), input); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate register: got %v, want ErrEmailTaken", err)
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthServiceWithDB(db, testMailer())
	user := createTestUser(t, db, "alice@campus.edu", models.RoleStudent)
	setPassword(t, db, user.ID, "right-pass")

	if _, _, err := svc.Login(ctx(), "alice@campus.edu", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx(), "nobody@campus.edu", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestResendVerification(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthServiceWithDB(db, testMailer())

	if _, err := svc.Register(ctx(), RegisterInput{FullName: "Alice", Email: "alice@campus.edu", Password: "hunter2hunter2"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ResendVerification(ctx(), "alice@campus.edu"); err != nil {
		t.Fatalf("resend: %v", err)
	}

	// Exactly one record remains, carrying the fresh code.
	var count int64
	db.Model(&models.OTP{}).Where("email = ?", "alice@campus.edu").Count(&count)
	if count != 1 {
		t.Fatalf("otp rows = %d, want 1", count)
	}
	code := storedCode(t, db, "alice@campus.edu", models.OTPPurposeRegistration)
	if _, err := svc.VerifyEmail(ctx(), "alice@campus.edu", code); err != nil {
		t.Fatalf("verify with fresh code: %v", err)
	}

	if err := svc.ResendVerification(ctx(), "alice@campus.edu"); !errors.Is(err, ErrAlreadyVerified) {
		t.Fatalf("resend after verification: got %v, want ErrAlreadyVerified", err)
	}
	if err := svc.ResendVerification(ctx(), "nobody@campus.edu"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("resend for unknown email: got %v, want ErrUserNotFound", err)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupTestDB(t)
	svc := NewAuthServiceWithDB(db, testMailer())
	user := createTestUser(t, db, "alice@campus.edu", models.RoleStudent)
	setPassword(t, db, user.ID, "original-pass")

	if err := svc.ForgotPassword(ctx(), "alice@campus.edu"); err != nil {
		t.Fatalf("forgot: %v", err)
	}
	// Silent success for unknown emails.
	if err := svc.ForgotPassword(ctx(), "nobody@campus.edu"); err != nil {
		t.Fatalf("forgot unknown: got %v, want nil", err)
	}

	code := storedCode(t, db, "alice@campus.edu", models.OTPPurposePasswordReset)
	if err := svc.ResetPassword(ctx(), "alice@campus.edu", "000000", "new-pass-123"); err == nil {
		t.Fatal("reset with wrong code succeeded")
	}
	if err := svc.ResetPassword(ctx(), "alice@campus.edu", code, "new-pass-123"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if _, _, err := svc.Login(ctx(), "alice@campus.edu", "original-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
	if _, _, err := svc.Login(ctx(), "alice@campus.edu", "new-pass-123"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupTestDB(t)
	svc := NewAuthServiceWithDB(db, testMailer())
	user := createTestUser(t, db, "alice@campus.edu", models.RoleStudent)
	setPassword(t, db, user.ID, "current-pass")

	if err := svc.ChangePassword(ctx(), user.ID, "wrong-pass", "next-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("change with wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if err := svc.ChangePassword(ctx(), user.ID, "current-pass", "next-pass"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if _, _, err := svc.Login(ctx(), "alice@campus.edu", "next-pass"); err != nil {
		t.Fatalf("login after change: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthServiceWithDB(db, testMailer())
	user := createTestUser(t, db, "alice@campus.edu", models.RoleStudent)

	sn := "S7654321"
	updated, err := svc.UpdateProfile(ctx(), user.ID, "Alice Renamed", &sn)
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.FullName != "Alice Renamed" {
		t.Fatalf("fullName = %q, want %q", updated.FullName, "Alice Renamed")
	}
	if updated.StudentNumber == nil || *updated.StudentNumber != sn {
		t.Fatalf("studentNumber = %v, want %q", updated.StudentNumber, sn)
	}

	if _, err := svc.UpdateProfile(ctx(), 9999, "Ghost", nil); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("update missing profile: got %v, want ErrUserNotFound", err)
	}
}
