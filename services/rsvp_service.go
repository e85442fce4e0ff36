package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campushub.events/configs/configsdatabase"
	"campushub.events/configs/configslog"
	"campushub.events/models"
	"campushub.events/pkg/keylock"
	"campushub.events/pkg/mailer"
	"campushub.events/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RSVPServiceError is a typed business error of the attendance ledger.
type RSVPServiceError string

func (e RSVPServiceError) Error() string { return string(e) }

const (
	ErrRSVPEventNotFound    RSVPServiceError = "event not found"
	ErrEventNotApproved     RSVPServiceError = "event is not open for RSVPs"
	ErrEventPast            RSVPServiceError = "event date has passed"
	ErrEventFull            RSVPServiceError = "event is at capacity"
	ErrAlreadyRSVPed        RSVPServiceError = "you already have an active RSVP for this event"
	ErrAdminCannotRSVP      RSVPServiceError = "admin accounts cannot RSVP"
	ErrRSVPNotFound         RSVPServiceError = "no RSVP for this event"
	ErrRSVPNotAttending     RSVPServiceError = "guest count can only change while attending"
	ErrCapacityExceeded     RSVPServiceError = "requested guest count exceeds event capacity"
	ErrInvalidGuestCount    RSVPServiceError = "guest count must be between 0 and 5"
	ErrRSVPActorForbidden   RSVPServiceError = "not allowed to view this event's attendees"
)

// UpdateRSVPInput carries the optional fields of a PATCH. A nil field is
// left unchanged.
type UpdateRSVPInput struct {
	NumberOfGuests     *int
	DietaryPreferences *string
	Status             *models.RSVPStatus
}

// IRSVPService maintains the attendance ledger. Its invariant: an event's
// current_attendees always equals the sum of (1 + guests) over its attending
// RSVPs. Every admission decision recomputes that sum from the RSVP rows
// inside a per-event critical section, so the cached counter is never
// consulted for capacity and two racing admissions cannot both squeeze past
// the limit.
type IRSVPService interface {
	Create(ctx context.Context, eventID uint, user *models.User, guests int, dietary string) (*models.RSVP, error)
	Cancel(ctx context.Context, eventID, userID uint) error
	UpdateGuests(ctx context.Context, eventID, userID uint, newGuests int) (*models.RSVP, error)
	Update(ctx context.Context, eventID uint, user *models.User, input UpdateRSVPInput) (*models.RSVP, error)
	ListForUser(ctx context.Context, userID uint) ([]models.RSVP, error)
	AttendeesForEvent(ctx context.Context, eventID uint, actor *models.User) ([]models.RSVP, error)
	Reconcile(ctx context.Context) (int, error)
}

type RSVPService struct {
	db     *gorm.DB
	events repositories.IEventRepository
	rsvps  repositories.IRSVPRepository
	locks  *keylock.KeyedMutex
	mail   mailer.Mailer
	now    func() time.Time
}

func NewRSVPService() IRSVPService {
	return NewRSVPServiceWithDB(configsdatabase.GetDB(), mailer.New())
}

func NewRSVPServiceWithDB(db *gorm.DB, mail mailer.Mailer) *RSVPService {
	return &RSVPService{
		db:     db,
		events: repositories.NewEventRepositoryTx(db),
		rsvps:  repositories.NewRSVPRepositoryTx(db),
		locks:  keylock.New(),
		mail:   mail,
		now:    time.Now,
	}
}

// Create admits a user to an event, either as a brand-new RSVP or by
// reactivating a previously cancelled/waitlisted record. The capacity check
// and both writes happen under the event's lock in one transaction.
func (s *RSVPService) Create(ctx context.Context, eventID uint, user *models.User, guests int, dietary string) (*models.RSVP, error) {
	if user.IsAdmin() {
		return nil, ErrAdminCannotRSVP
	}
	if guests < 0 || guests > models.MaxGuestsPerRSVP {
		return nil, ErrInvalidGuestCount
	}

	unlock := s.locks.Lock(eventID)
	defer unlock()

	var rsvp *models.RSVP
	var event *models.Event

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		eventRepo := repositories.NewEventRepositoryTx(tx)
		rsvpRepo := repositories.NewRSVPRepositoryTx(tx)

		var err error
		event, err = eventRepo.FindByID(ctx, eventID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrRSVPEventNotFound
			}
			return err
		}
		if err := rsvpEligible(event, s.now()); err != nil {
			return err
		}

		existing, err := rsvpRepo.FindByEventAndUser(ctx, eventID, user.ID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		if existing != nil && existing.Status == models.RSVPStatusAttending {
			return ErrAlreadyRSVPed
		}

		// Source of truth for the capacity decision: the RSVP rows, not the
		// cached counter.
		occupancy, err := rsvpRepo.AttendingOccupancy(ctx, eventID)
		if err != nil {
			return err
		}
		requested := 1 + guests
		if occupancy+requested > event.Capacity {
			return ErrEventFull
		}

		if existing != nil {
			existing.Status = models.RSVPStatusAttending
			existing.NumberOfGuests = guests
			existing.DietaryPreferences = dietary
			if err := rsvpRepo.Save(ctx, existing); err != nil {
				return err
			}
			rsvp = existing
		} else {
			rsvp = &models.RSVP{
				EventID:            eventID,
				UserID:             user.ID,
				Status:             models.RSVPStatusAttending,
				NumberOfGuests:     guests,
				DietaryPreferences: dietary,
			}
			if err := rsvpRepo.Create(ctx, rsvp); err != nil {
				if errors.Is(err, repositories.ErrDuplicateKey) {
					return ErrAlreadyRSVPed
				}
				return err
			}
		}

		return eventRepo.AdjustAttendees(ctx, eventID, requested)
	})
	if txErr != nil {
		return nil, txErr
	}

	mailer.SendAsync(s.mail, user.Email,
		fmt.Sprintf("RSVP confirmed: %s", event.Title),
		fmt.Sprintf("Hello %s,\n\nYour RSVP for %q on %s is confirmed (party of %d).",
			user.FullName, event.Title, event.Date.Format(time.RFC1123), 1+guests))

	configslog.SLog.Infof("user %d RSVPed to event %d (+%d guests)", user.ID, eventID, guests)
	return rsvp, nil
}

// Cancel is idempotent: cancelling an already-cancelled RSVP succeeds without
// touching anything. The row is kept so the user can reactivate later.
func (s *RSVPService) Cancel(ctx context.Context, eventID, userID uint) error {
	unlock := s.locks.Lock(eventID)
	defer unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		eventRepo := repositories.NewEventRepositoryTx(tx)
		rsvpRepo := repositories.NewRSVPRepositoryTx(tx)

		rsvp, err := rsvpRepo.FindByEventAndUser(ctx, eventID, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrRSVPNotFound
			}
			return err
		}
		if rsvp.Status == models.RSVPStatusCancelled {
			return nil
		}

		wasAttending := rsvp.Status == models.RSVPStatusAttending
		contribution := rsvp.Contribution()

		rsvp.Status = models.RSVPStatusCancelled
		if err := rsvpRepo.Save(ctx, rsvp); err != nil {
			return err
		}
		if !wasAttending {
			return nil
		}

		// A cancelled event already had its counter reset to zero; its RSVPs
		// no longer count against anything, so there is nothing to release.
		event, err := eventRepo.FindByID(ctx, eventID)
		if err != nil {
			return err
		}
		if event.Status == models.EventStatusCancelled {
			return nil
		}
		return eventRepo.AdjustAttendees(ctx, eventID, -contribution)
	})
}

// UpdateGuests re-sizes an attending RSVP. The capacity check excludes this
// RSVP's current contribution, then the counter moves by the delta.
func (s *RSVPService) UpdateGuests(ctx context.Context, eventID, userID uint, newGuests int) (*models.RSVP, error) {
	if newGuests < 0 || newGuests > models.MaxGuestsPerRSVP {
		return nil, ErrInvalidGuestCount
	}

	unlock := s.locks.Lock(eventID)
	defer unlock()

	var rsvp *models.RSVP
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		eventRepo := repositories.NewEventRepositoryTx(tx)
		rsvpRepo := repositories.NewRSVPRepositoryTx(tx)

		var err error
		rsvp, err = rsvpRepo.FindByEventAndUser(ctx, eventID, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrRSVPNotFound
			}
			return err
		}
		if rsvp.Status != models.RSVPStatusAttending {
			return ErrRSVPNotAttending
		}

		event, err := eventRepo.FindByID(ctx, eventID)
		if err != nil {
			return err
		}
		if err := rsvpEligible(event, s.now()); err != nil {
			return err
		}

		others, err := rsvpRepo.AttendingOccupancyExcluding(ctx, eventID, rsvp.ID)
		if err != nil {
			return err
		}
		if others+1+newGuests > event.Capacity {
			return ErrCapacityExceeded
		}

		delta := newGuests - rsvp.NumberOfGuests
		rsvp.NumberOfGuests = newGuests
		if err := rsvpRepo.Save(ctx, rsvp); err != nil {
			return err
		}
		return eventRepo.AdjustAttendees(ctx, eventID, delta)
	})
	if txErr != nil {
		return nil, txErr
	}
	return rsvp, nil
}

// Update is the PATCH surface: it routes a status flip through Create/Cancel
// (so all counter math stays in one place) and applies guest/dietary changes.
func (s *RSVPService) Update(ctx context.Context, eventID uint, user *models.User, input UpdateRSVPInput) (*models.RSVP, error) {
	current, err := s.rsvps.FindByEventAndUser(ctx, eventID, user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRSVPNotFound
		}
		return nil, err
	}

	if input.Status != nil && *input.Status != current.Status {
		switch *input.Status {
		case models.RSVPStatusCancelled:
			if err := s.Cancel(ctx, eventID, user.ID); err != nil {
				return nil, err
			}
		case models.RSVPStatusAttending:
			guests := current.NumberOfGuests
			if input.NumberOfGuests != nil {
				guests = *input.NumberOfGuests
			}
			dietary := current.DietaryPreferences
			if input.DietaryPreferences != nil {
				dietary = *input.DietaryPreferences
			}
			return s.Create(ctx, eventID, user, guests, dietary)
		default:
			return nil, fmt.Errorf("%w: cannot switch to %s directly", ErrRSVPNotAttending, *input.Status)
		}
	} else if input.NumberOfGuests != nil && *input.NumberOfGuests != current.NumberOfGuests {
		if _, err := s.UpdateGuests(ctx, eventID, user.ID, *input.NumberOfGuests); err != nil {
			return nil, err
		}
	}

	if input.DietaryPreferences != nil {
		if err := s.db.WithContext(ctx).Model(&models.RSVP{}).
			Where("event_id = ? AND user_id = ?", eventID, user.ID).
			Update("dietary_preferences", *input.DietaryPreferences).Error; err != nil {
			return nil, err
		}
	}

	updated, err := s.rsvps.FindByEventAndUser(ctx, eventID, user.ID)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *RSVPService) ListForUser(ctx context.Context, userID uint) ([]models.RSVP, error) {
	return s.rsvps.FindByUser(ctx, userID)
}

// AttendeesForEvent lists an event's RSVPs for its owner or an admin.
func (s *RSVPService) AttendeesForEvent(ctx context.Context, eventID uint, actor *models.User) ([]models.RSVP, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRSVPEventNotFound
		}
		return nil, err
	}
	if !actor.IsAdmin() && event.CreatedByID != actor.ID {
		return nil, ErrRSVPActorForbidden
	}
	return s.rsvps.FindByEvent(ctx, eventID)
}

// Reconcile recomputes every event's cached counter from the authoritative
// RSVP rows and fixes any drift (crash between an RSVP write and its counter
// write leaves the cache stale). Returns the number of events corrected.
func (s *RSVPService) Reconcile(ctx context.Context) (int, error) {
	ids, err := s.events.FindIDs(ctx)
	if err != nil {
		return 0, err
	}

	fixed := 0
	for _, id := range ids {
		unlock := s.locks.Lock(id)
		err := s.db.Transaction(func(tx *gorm.DB) error {
			eventRepo := repositories.NewEventRepositoryTx(tx)
			rsvpRepo := repositories.NewRSVPRepositoryTx(tx)

			event, err := eventRepo.FindByID(ctx, id)
			if err != nil {
				return err
			}
			// Cancelled events keep their forfeited zero.
			if event.Status == models.EventStatusCancelled {
				return nil
			}
			actual, err := rsvpRepo.AttendingOccupancy(ctx, id)
			if err != nil {
				return err
			}
			if event.CurrentAttendees == actual {
				return nil
			}
			configslog.Log.Warn("occupancy drift corrected",
				zap.Uint("eventID", id),
				zap.Int("cached", event.CurrentAttendees),
				zap.Int("actual", actual))
			fixed++
			return eventRepo.Updates(ctx, id, map[string]interface{}{"current_attendees": actual})
		})
		unlock()
		if err != nil {
			return fixed, err
		}
	}
	return fixed, nil
}

// rsvpEligible enforces the re-checked-on-every-mutation preconditions:
// approved status and a date strictly in the future.
func rsvpEligible(event *models.Event, now time.Time) error {
	if event.Status != models.EventStatusApproved {
		return ErrEventNotApproved
	}
	if !event.IsUpcoming(now) {
		return ErrEventPast
	}
	return nil
}

var _ IRSVPService = (*RSVPService)(nil)
