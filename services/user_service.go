package services

import (
	"context"
	"errors"

	"campushub.events/configs/configsdatabase"
	"campushub.events/configs/configslog"
	"campushub.events/models"
	"campushub.events/pkg/queryparams"
	"campushub.events/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserServiceError is a typed business error of admin user management.
type UserServiceError string

func (e UserServiceError) Error() string { return string(e) }

const (
	ErrUserMgmtNotFound UserServiceError = "user not found"
	ErrInvalidRole      UserServiceError = "unknown role"
)

// IUserService is the admin-facing user management surface.
type IUserService interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	ListAll(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	SetRole(ctx context.Context, id uint, role models.UserRole) error
	SetActive(ctx context.Context, id uint, active bool) error
	Delete(ctx context.Context, id uint) error
}

type UserService struct {
	db    *gorm.DB
	users repositories.IUserRepository
}

func NewUserService() IUserService {
	return NewUserServiceWithDB(configsdatabase.GetDB())
}

func NewUserServiceWithDB(db *gorm.DB) *UserService {
	return &UserService{db: db, users: repositories.NewUserRepositoryTx(db)}
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserMgmtNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListAll(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	users, total, err := s.users.FindAllPaginated(ctx, params)
	if err != nil {
		return nil, err
	}
	return paginated(users, total, params), nil
}

func (s *UserService) SetRole(ctx context.Context, id uint, role models.UserRole) error {
	if role != models.RoleStudent && role != models.RoleAdmin {
		return ErrInvalidRole
	}
	err := s.users.Updates(ctx, id, map[string]interface{}{"role": role})
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrUserMgmtNotFound
	}
	return err
}

func (s *UserService) SetActive(ctx context.Context, id uint, active bool) error {
	err := s.users.Updates(ctx, id, map[string]interface{}{"is_active": active})
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrUserMgmtNotFound
	}
	return err
}

// Delete removes a user and cascades in one transaction:
//  1. every attending RSVP the user holds on someone else's event decrements
//     that event's occupancy counter before the row goes away;
//  2. the user's RSVP rows are removed;
//  3. the user's own events are removed with their RSVPs (no counter math,
//     the counters disappear with the events);
//  4. the user row is removed.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		userRepo := repositories.NewUserRepositoryTx(tx)
		eventRepo := repositories.NewEventRepositoryTx(tx)
		rsvpRepo := repositories.NewRSVPRepositoryTx(tx)

		if _, err := userRepo.FindByID(ctx, id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrUserMgmtNotFound
			}
			return err
		}

		attending, err := rsvpRepo.FindAttendingByUser(ctx, id)
		if err != nil {
			return err
		}
		for _, rsvp := range attending {
			event, err := eventRepo.FindByID(ctx, rsvp.EventID)
			if err != nil {
				return err
			}
			// Cancelled events had their counters reset already; releasing a
			// seat there would push the counter negative.
			if event.Status == models.EventStatusCancelled {
				continue
			}
			if err := eventRepo.AdjustAttendees(ctx, rsvp.EventID, -rsvp.Contribution()); err != nil {
				return err
			}
		}
		if err := rsvpRepo.DeleteByUser(ctx, id); err != nil {
			return err
		}

		ownedEventIDs, err := eventRepo.FindIDsByOwner(ctx, id)
		if err != nil {
			return err
		}
		for _, eventID := range ownedEventIDs {
			if err := rsvpRepo.DeleteByEvent(ctx, eventID); err != nil {
				return err
			}
			if err := eventRepo.Delete(ctx, eventID); err != nil {
				return err
			}
		}

		return userRepo.Delete(ctx, id)
	})
	if txErr != nil {
		configslog.Log.Error("user delete failed", zap.Uint("userID", id), zap.Error(txErr))
		return txErr
	}
	configslog.SLog.Infof("user %d deleted with cascade", id)
	return nil
}

var _ IUserService = (*UserService)(nil)
