package repositories

import (
	"context"
	"errors"
	"time"

	"campushub.events/configs/configsdatabase"
	"campushub.events/configs/configslog"
	"campushub.events/models"
	"campushub.events/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IEventRepository is the event persistence contract.
type IEventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uint) (*models.Event, error)
	Save(ctx context.Context, event *models.Event) error
	Updates(ctx context.Context, id uint, fields map[string]interface{}) error
	// AdjustAttendees moves the cached occupancy counter by a signed delta.
	AdjustAttendees(ctx context.Context, id uint, delta int) error
	Delete(ctx context.Context, id uint) error
	FindUpcomingApprovedPaginated(ctx context.Context, now time.Time, params queryparams.ListParams) ([]models.Event, int64, error)
	FindByOwnerPaginated(ctx context.Context, ownerID uint, params queryparams.ListParams) ([]models.Event, int64, error)
	FindAllPaginated(ctx context.Context, status models.EventStatus, params queryparams.ListParams) ([]models.Event, int64, error)
	FindIDs(ctx context.Context) ([]uint, error)
	FindIDsByOwner(ctx context.Context, ownerID uint) ([]uint, error)
}

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository() IEventRepository {
	return &EventRepository{db: configsdatabase.GetDB()}
}

func NewEventRepositoryTx(tx *gorm.DB) IEventRepository {
	return &EventRepository{db: tx}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).Preload("CreatedBy").First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) Save(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *EventRepository) Updates(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EventRepository) AdjustAttendees(ctx context.Context, id uint, delta int) error {
	if delta == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", id).
		Update("current_attendees", gorm.Expr("current_attendees + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row permanently. The event's RSVPs are removed by the
// service in the same transaction.
func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Unscoped().Delete(&models.Event{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EventRepository) FindUpcomingApprovedPaginated(ctx context.Context, now time.Time, params queryparams.ListParams) ([]models.Event, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Event{}).
		Where("status = ? AND date > ?", models.EventStatusApproved, now)
	return r.paginate(query, params.OrderClause("date", "date", "title", "capacity"), params)
}

func (r *EventRepository) FindByOwnerPaginated(ctx context.Context, ownerID uint, params queryparams.ListParams) ([]models.Event, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Event{}).Where("created_by_id = ?", ownerID)
	return r.paginate(query, params.OrderClause("date", "date", "created_at", "status"), params)
}

// FindAllPaginated lists events for the admin surface; status filters when
// non-empty.
func (r *EventRepository) FindAllPaginated(ctx context.Context, status models.EventStatus, params queryparams.ListParams) ([]models.Event, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Event{}).Preload("CreatedBy")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return r.paginate(query, params.OrderClause("created_at", "created_at", "date", "status", "capacity"), params)
}

func (r *EventRepository) FindIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Event{}).Pluck("id", &ids).Error
	return ids, err
}

func (r *EventRepository) FindIDsByOwner(ctx context.Context, ownerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Event{}).
		Where("created_by_id = ?", ownerID).Pluck("id", &ids).Error
	return ids, err
}

func (r *EventRepository) paginate(query *gorm.DB, order string, params queryparams.ListParams) ([]models.Event, int64, error) {
	var events []models.Event
	var total int64
	if err := query.Count(&total).Error; err != nil {
		configslog.Log.Error("event count failed", zap.Error(err))
		return nil, 0, err
	}
	err := query.Order(order).Limit(params.PerPage).Offset(params.Offset()).Find(&events).Error
	if err != nil {
		configslog.Log.Error("event list failed", zap.Error(err))
		return nil, 0, err
	}
	return events, total, nil
}

var _ IEventRepository = (*EventRepository)(nil)
