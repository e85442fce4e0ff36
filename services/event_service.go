package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campushub.events/configs/configsdatabase"
	"campushub.events/configs/configslog"
	"campushub.events/models"
	"campushub.events/pkg/mailer"
	"campushub.events/pkg/queryparams"
	"campushub.events/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EventServiceError is a typed business error of the event workflow.
type EventServiceError string

func (e EventServiceError) Error() string { return string(e) }

const (
	ErrEventNotFound           EventServiceError = "event not found"
	ErrEventForbidden          EventServiceError = "not allowed to manage this event"
	ErrEventInvalidInput       EventServiceError = "invalid event data"
	ErrEventInvalidTransition  EventServiceError = "event status does not allow this transition"
	ErrRejectionReasonTooShort EventServiceError = "a rejection reason of at least 10 characters is required"
)

// minRejectionReason is the shortest acceptable human-readable reason.
const minRejectionReason = 10

// EventInput carries the owner-editable fields of an event. Status is
// deliberately absent: it only moves through the workflow methods.
type EventInput struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
	Category    models.EventCategory
	Capacity    int
}

// IEventService owns the event lifecycle: pending on creation, admin-gated
// approval/rejection, then cancellation or completion.
type IEventService interface {
	Create(ctx context.Context, ownerID uint, input EventInput) (*models.Event, error)
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	ListUpcomingApproved(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	ListForOwner(ctx context.Context, ownerID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	ListAll(ctx context.Context, status models.EventStatus, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	Update(ctx context.Context, id uint, actor *models.User, input EventInput) (*models.Event, error)
	Approve(ctx context.Context, id uint) (*models.Event, error)
	Reject(ctx context.Context, id uint, reason string) (*models.Event, error)
	Cancel(ctx context.Context, id uint, actor *models.User) error
	Complete(ctx context.Context, id uint, actor *models.User) error
	Delete(ctx context.Context, id uint, actor *models.User) error
}

type EventService struct {
	db     *gorm.DB
	events repositories.IEventRepository
	mail   mailer.Mailer
	now    func() time.Time
}

func NewEventService() IEventService {
	return NewEventServiceWithDB(configsdatabase.GetDB(), mailer.New())
}

func NewEventServiceWithDB(db *gorm.DB, mail mailer.Mailer) *EventService {
	return &EventService{
		db:     db,
		events: repositories.NewEventRepositoryTx(db),
		mail:   mail,
		now:    time.Now,
	}
}

func validateEventInput(input EventInput, now time.Time) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrEventInvalidInput)
	}
	if input.Date.IsZero() || !input.Date.After(now) {
		return fmt.Errorf("%w: date must be in the future", ErrEventInvalidInput)
	}
	if !models.ValidCategory(input.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrEventInvalidInput, input.Category)
	}
	if input.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be positive", ErrEventInvalidInput)
	}
	return nil
}

// Create stores a new event in pending state, awaiting admin review.
func (s *EventService) Create(ctx context.Context, ownerID uint, input EventInput) (*models.Event, error) {
	if err := validateEventInput(input, s.now()); err != nil {
		return nil, err
	}
	event := &models.Event{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Date:        input.Date,
		Location:    input.Location,
		Category:    input.Category,
		Capacity:    input.Capacity,
		Status:      models.EventStatusPending,
		CreatedByID: ownerID,
	}
	if err := s.events.Create(ctx, event); err != nil {
		configslog.Log.Error("event create failed", zap.Uint("ownerID", ownerID), zap.Error(err))
		return nil, err
	}
	configslog.SLog.Infof("event %d submitted for review by user %d", event.ID, ownerID)
	return event, nil
}

func (s *EventService) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *EventService) ListUpcomingApproved(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	events, total, err := s.events.FindUpcomingApprovedPaginated(ctx, s.now(), params)
	if err != nil {
		return nil, err
	}
	return paginated(events, total, params), nil
}

func (s *EventService) ListForOwner(ctx context.Context, ownerID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	events, total, err := s.events.FindByOwnerPaginated(ctx, ownerID, params)
	if err != nil {
		return nil, err
	}
	return paginated(events, total, params), nil
}

func (s *EventService) ListAll(ctx context.Context, status models.EventStatus, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	events, total, err := s.events.FindAllPaginated(ctx, status, params)
	if err != nil {
		return nil, err
	}
	return paginated(events, total, params), nil
}

// Update edits the event's owner-editable fields. Non-admins may only touch
// their own events, and nobody changes status through this path.
func (s *EventService) Update(ctx context.Context, id uint, actor *models.User, input EventInput) (*models.Event, error) {
	if err := validateEventInput(input, s.now()); err != nil {
		return nil, err
	}
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && event.CreatedByID != actor.ID {
		return nil, ErrEventForbidden
	}

	event.Title = strings.TrimSpace(input.Title)
	event.Description = input.Description
	event.Date = input.Date
	event.Location = input.Location
	event.Category = input.Category
	event.Capacity = input.Capacity
	if err := s.events.Save(ctx, event); err != nil {
		configslog.Log.Error("event update failed", zap.Uint("eventID", id), zap.Error(err))
		return nil, err
	}
	return event, nil
}

// Approve moves a pending event to approved and notifies the owner.
func (s *EventService) Approve(ctx context.Context, id uint) (*models.Event, error) {
	return s.review(ctx, id, models.EventStatusApproved, "")
}

// Reject moves a pending event to rejected with a human-readable reason.
func (s *EventService) Reject(ctx context.Context, id uint, reason string) (*models.Event, error) {
	if len(strings.TrimSpace(reason)) < minRejectionReason {
		return nil, ErrRejectionReasonTooShort
	}
	return s.review(ctx, id, models.EventStatusRejected, strings.TrimSpace(reason))
}

func (s *EventService) review(ctx context.Context, id uint, to models.EventStatus, reason string) (*models.Event, error) {
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventStatusPending {
		return nil, ErrEventInvalidTransition
	}
	event.Status = to
	event.RejectionReason = reason
	if err := s.events.Save(ctx, event); err != nil {
		configslog.Log.Error("event review failed", zap.Uint("eventID", id), zap.Error(err))
		return nil, err
	}

	if event.CreatedBy != nil {
		subject := fmt.Sprintf("Your event %q was %s", event.Title, to)
		body := "Hello " + event.CreatedBy.FullName + ",\n\nYour event has been " + string(to) + "."
		if reason != "" {
			body += "\nReason: " + reason
		}
		mailer.SendAsync(s.mail, event.CreatedBy.Email, subject, body)
	}
	configslog.SLog.Infof("event %d reviewed: %s", id, to)
	return event, nil
}

// Cancel moves an approved event to cancelled and forfeits its attendance:
// the occupancy counter is reset to zero. RSVP rows keep their status for
// the record; they no longer count against anything.
func (s *EventService) Cancel(ctx context.Context, id uint, actor *models.User) error {
	return s.close(ctx, id, actor, models.EventStatusCancelled)
}

// Complete moves an approved event to completed.
func (s *EventService) Complete(ctx context.Context, id uint, actor *models.User) error {
	return s.close(ctx, id, actor, models.EventStatusCompleted)
}

func (s *EventService) close(ctx context.Context, id uint, actor *models.User, to models.EventStatus) error {
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && event.CreatedByID != actor.ID {
		return ErrEventForbidden
	}
	if event.Status != models.EventStatusApproved {
		return ErrEventInvalidTransition
	}

	fields := map[string]interface{}{"status": to}
	if to == models.EventStatusCancelled {
		fields["current_attendees"] = 0
	}
	if err := s.events.Updates(ctx, id, fields); err != nil {
		configslog.Log.Error("event close failed", zap.Uint("eventID", id), zap.Error(err))
		return err
	}
	configslog.SLog.Infof("event %d marked %s by user %d", id, to, actor.ID)
	return nil
}

// Delete removes the event and all of its RSVPs in one transaction. No
// counter math is needed: the counter disappears with the event row.
func (s *EventService) Delete(ctx context.Context, id uint, actor *models.User) error {
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && event.CreatedByID != actor.ID {
		return ErrEventForbidden
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := repositories.NewRSVPRepositoryTx(tx).DeleteByEvent(ctx, id); err != nil {
			return err
		}
		return repositories.NewEventRepositoryTx(tx).Delete(ctx, id)
	})
	if txErr != nil {
		configslog.Log.Error("event delete failed", zap.Uint("eventID", id), zap.Error(txErr))
		return txErr
	}
	configslog.SLog.Infof("event %d deleted by user %d", id, actor.ID)
	return nil
}

func paginated(data interface{}, total int64, params queryparams.ListParams) *queryparams.PaginatedResult {
	return &queryparams.PaginatedResult{
		Data: data,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  total,
			TotalPages:  queryparams.CalculateTotalPages(total, params.PerPage),
		},
	}
}

var _ IEventService = (*EventService)(nil)
