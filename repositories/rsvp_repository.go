package repositories

import (
	"context"
	"errors"

	"campushub.events/configs/configsdatabase"
	"campushub.events/configs/configslog"
	"campushub.events/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IRSVPRepository is the RSVP persistence contract. The occupancy queries sum
// over the authoritative row set; callers use them for every capacity
// decision instead of the cached counter on the event.
type IRSVPRepository interface {
	Create(ctx context.Context, rsvp *models.RSVP) error
	Save(ctx context.Context, rsvp *models.RSVP) error
	FindByEventAndUser(ctx context.Context, eventID, userID uint) (*models.RSVP, error)
	FindByEvent(ctx context.Context, eventID uint) ([]models.RSVP, error)
	FindByUser(ctx context.Context, userID uint) ([]models.RSVP, error)
	FindAttendingByUser(ctx context.Context, userID uint) ([]models.RSVP, error)
	AttendingOccupancy(ctx context.Context, eventID uint) (int, error)
	AttendingOccupancyExcluding(ctx context.Context, eventID, rsvpID uint) (int, error)
	DeleteByEvent(ctx context.Context, eventID uint) error
	DeleteByUser(ctx context.Context, userID uint) error
}

type RSVPRepository struct {
	db *gorm.DB
}

func NewRSVPRepository() IRSVPRepository {
	return &RSVPRepository{db: configsdatabase.GetDB()}
}

func NewRSVPRepositoryTx(tx *gorm.DB) IRSVPRepository {
	return &RSVPRepository{db: tx}
}

// Create inserts a new RSVP row. A race between two concurrent inserts for
// the same (event, user) pair trips the unique index; that surfaces as
// ErrDuplicateKey rather than a second row.
func (r *RSVPRepository) Create(ctx context.Context, rsvp *models.RSVP) error {
	err := r.db.WithContext(ctx).Create(rsvp).Error
	if isDuplicateKey(err) {
		return ErrDuplicateKey
	}
	return err
}

func (r *RSVPRepository) Save(ctx context.Context, rsvp *models.RSVP) error {
	return r.db.WithContext(ctx).Save(rsvp).Error
}

func (r *RSVPRepository) FindByEventAndUser(ctx context.Context, eventID, userID uint) (*models.RSVP, error) {
	var rsvp models.RSVP
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&rsvp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rsvp, nil
}

func (r *RSVPRepository) FindByEvent(ctx context.Context, eventID uint) ([]models.RSVP, error) {
	var rsvps []models.RSVP
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Preload("User").
		Order("created_at asc").
		Find(&rsvps).Error
	if err != nil {
		configslog.Log.Error("rsvp list by event failed", zap.Uint("eventID", eventID), zap.Error(err))
		return nil, err
	}
	return rsvps, nil
}

func (r *RSVPRepository) FindByUser(ctx context.Context, userID uint) ([]models.RSVP, error) {
	var rsvps []models.RSVP
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Event").
		Order("created_at desc").
		Find(&rsvps).Error
	if err != nil {
		configslog.Log.Error("rsvp list by user failed", zap.Uint("userID", userID), zap.Error(err))
		return nil, err
	}
	return rsvps, nil
}

func (r *RSVPRepository) FindAttendingByUser(ctx context.Context, userID uint) ([]models.RSVP, error) {
	var rsvps []models.RSVP
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.RSVPStatusAttending).
		Find(&rsvps).Error
	return rsvps, err
}

// AttendingOccupancy returns the sum of (1 + number_of_guests) over the
// event's attending RSVPs.
func (r *RSVPRepository) AttendingOccupancy(ctx context.Context, eventID uint) (int, error) {
	return r.occupancy(ctx, eventID, 0)
}

// AttendingOccupancyExcluding is AttendingOccupancy with one RSVP left out,
// used when re-sizing that RSVP's own guest count.
func (r *RSVPRepository) AttendingOccupancyExcluding(ctx context.Context, eventID, rsvpID uint) (int, error) {
	return r.occupancy(ctx, eventID, rsvpID)
}

func (r *RSVPRepository) occupancy(ctx context.Context, eventID, excludeID uint) (int, error) {
	query := r.db.WithContext(ctx).Model(&models.RSVP{}).
		Where("event_id = ? AND status = ?", eventID, models.RSVPStatusAttending)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var total int64
	err := query.Select("COALESCE(SUM(1 + number_of_guests), 0)").Scan(&total).Error
	if err != nil {
		configslog.Log.Error("occupancy query failed", zap.Uint("eventID", eventID), zap.Error(err))
		return 0, err
	}
	return int(total), nil
}

func (r *RSVPRepository) DeleteByEvent(ctx context.Context, eventID uint) error {
	return r.db.WithContext(ctx).Unscoped().
		Where("event_id = ?", eventID).
		Delete(&models.RSVP{}).Error
}

func (r *RSVPRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Unscoped().
		Where("user_id = ?", userID).
		Delete(&models.RSVP{}).Error
}

var _ IRSVPRepository = (*RSVPRepository)(nil)
