package models

import "time"

// OTPPurpose scopes a code to the flow it was issued for; codes never
// cross-validate between purposes.
type OTPPurpose string

const (
	OTPPurposeRegistration  OTPPurpose = "registration"
	OTPPurposePasswordReset OTPPurpose = "password_reset"
)

// OTPCodeLength is the number of digits in a generated code.
const OTPCodeLength = 6

// OTPMaxAttempts caps wrong-code submissions against a single record.
const OTPMaxAttempts = 5

// OTPTTL is the validity window of a code.
const OTPTTL = 10 * time.Minute

// OTP is a short-lived one-time code tied to an email address and a purpose.
// At most one active (unverified, unexpired) record exists per (email,
// purpose): issuing a new code deletes prior records for the pair. Rows are
// hard-deleted, never soft-deleted, so no BaseModel here.
type OTP struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	Email     string     `gorm:"type:varchar(150);not null;index:idx_otp_email_purpose" json:"email"`
	Purpose   OTPPurpose `gorm:"type:varchar(30);not null;index:idx_otp_email_purpose" json:"purpose"`
	Code      string     `gorm:"type:varchar(12);not null" json:"-"`
	ExpiresAt time.Time  `gorm:"not null;index" json:"expiresAt"`
	Attempts  int        `gorm:"not null;default:0" json:"attempts"`
	Verified  bool       `gorm:"not null;default:false" json:"verified"`
	UserID    *uint      `gorm:"index" json:"userId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
