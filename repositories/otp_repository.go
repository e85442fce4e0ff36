package repositories

import (
	"context"
	"errors"
	"time"

	"campushub.events/configs/configsdatabase"
	"campushub.events/models"

	"gorm.io/gorm"
)

// IOTPRepository is the OTP persistence contract.
type IOTPRepository interface {
	Create(ctx context.Context, otp *models.OTP) error
	Save(ctx context.Context, otp *models.OTP) error
	// FindActive returns the unverified record for (email, purpose), if any.
	FindActive(ctx context.Context, email string, purpose models.OTPPurpose) (*models.OTP, error)
	DeleteByEmailAndPurpose(ctx context.Context, email string, purpose models.OTPPurpose) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type OTPRepository struct {
	db *gorm.DB
}

func NewOTPRepository() IOTPRepository {
	return &OTPRepository{db: configsdatabase.GetDB()}
}

func NewOTPRepositoryTx(tx *gorm.DB) IOTPRepository {
	return &OTPRepository{db: tx}
}

func (r *OTPRepository) Create(ctx context.Context, otp *models.OTP) error {
	return r.db.WithContext(ctx).Create(otp).Error
}

func (r *OTPRepository) Save(ctx context.Context, otp *models.OTP) error {
	return r.db.WithContext(ctx).Save(otp).Error
}

func (r *OTPRepository) FindActive(ctx context.Context, email string, purpose models.OTPPurpose) (*models.OTP, error) {
	var otp models.OTP
	err := r.db.WithContext(ctx).
		Where("email = ? AND purpose = ? AND verified = ?", email, purpose, false).
		Order("created_at desc").
		First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &otp, nil
}

func (r *OTPRepository) DeleteByEmailAndPurpose(ctx context.Context, email string, purpose models.OTPPurpose) error {
	return r.db.WithContext(ctx).
		Where("email = ? AND purpose = ?", email, purpose).
		Delete(&models.OTP{}).Error
}

func (r *OTPRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.OTP{})
	return result.RowsAffected, result.Error
}

var _ IOTPRepository = (*OTPRepository)(nil)
