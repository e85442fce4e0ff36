package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"campushub.events/configs/configsdatabase"
	"campushub.events/configs/configslog"
	"campushub.events/models"
	"campushub.events/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OTPServiceError is a typed business error of the OTP ledger.
type OTPServiceError string

func (e OTPServiceError) Error() string { return string(e) }

const (
	ErrOTPNotFound         OTPServiceError = "no active code for this email and purpose"
	ErrOTPExpired          OTPServiceError = "code has expired"
	ErrOTPInvalidCode      OTPServiceError = "code does not match"
	ErrOTPAttemptsExceeded OTPServiceError = "too many failed attempts, request a new code"
)

// IOTPService issues and validates one-time codes. One active record exists
// per (email, purpose); issuing replaces it, so stale codes stop validating
// the moment a new one goes out.
type IOTPService interface {
	Issue(ctx context.Context, email string, purpose models.OTPPurpose, userID *uint) (string, error)
	Validate(ctx context.Context, email, code string, purpose models.OTPPurpose) (*uint, error)
	Sweep(ctx context.Context) (int64, error)
}

type OTPService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOTPService() IOTPService {
	return NewOTPServiceWithDB(configsdatabase.GetDB())
}

func NewOTPServiceWithDB(db *gorm.DB) *OTPService {
	return &OTPService{db: db, now: time.Now}
}

// Issue replaces any prior codes for (email, purpose) with a fresh one and
// returns the plaintext for out-of-band delivery.
func (s *OTPService) Issue(ctx context.Context, email string, purpose models.OTPPurpose, userID *uint) (string, error) {
	code, err := generateNumericCode(models.OTPCodeLength)
	if err != nil {
		return "", fmt.Errorf("otp generation failed: %w", err)
	}

	record := &models.OTP{
		Email:     email,
		Purpose:   purpose,
		Code:      code,
		ExpiresAt: s.now().Add(models.OTPTTL),
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewOTPRepositoryTx(tx)
		if err := repo.DeleteByEmailAndPurpose(ctx, email, purpose); err != nil {
			return err
		}
		return repo.Create(ctx, record)
	})
	if txErr != nil {
		configslog.Log.Error("otp issue failed",
			zap.String("email", email), zap.String("purpose", string(purpose)), zap.Error(txErr))
		return "", txErr
	}
	return code, nil
}

// Validate checks code against the active record for (email, purpose).
// Expiry is checked before the attempt counter is touched; the counter is
// checked before incrementing, so the cap allows exactly OTPMaxAttempts
// mismatches. On success the record is marked verified and stops matching
// future lookups.
func (s *OTPService) Validate(ctx context.Context, email, code string, purpose models.OTPPurpose) (*uint, error) {
	var userID *uint

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewOTPRepositoryTx(tx)

		record, err := repo.FindActive(ctx, email, purpose)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrOTPNotFound
			}
			return err
		}
		if s.now().After(record.ExpiresAt) {
			return ErrOTPExpired
		}
		if record.Attempts >= models.OTPMaxAttempts {
			return ErrOTPAttemptsExceeded
		}

		record.Attempts++
		if record.Code != code {
			if err := repo.Save(ctx, record); err != nil {
				return err
			}
			return ErrOTPInvalidCode
		}

		record.Verified = true
		if err := repo.Save(ctx, record); err != nil {
			return err
		}
		userID = record.UserID
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return userID, nil
}

// Sweep deletes every record whose window has passed and returns the count.
func (s *OTPService) Sweep(ctx context.Context) (int64, error) {
	repo := repositories.NewOTPRepositoryTx(s.db)
	removed, err := repo.DeleteExpired(ctx, s.now())
	if err != nil {
		configslog.Log.Error("otp sweep failed", zap.Error(err))
		return 0, err
	}
	if removed > 0 {
		configslog.SLog.Infof("otp sweep removed %d expired codes", removed)
	}
	return removed, nil
}

// generateNumericCode returns n random decimal digits.
func generateNumericCode(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits), nil
}

var _ IOTPService = (*OTPService)(nil)
