package services

import (
	"context"
	"errors"
	"strings"

	"campushub.events/configs/configsdatabase"
	"campushub.events/configs/configslog"
	"campushub.events/models"
	"campushub.events/pkg/mailer"
	"campushub.events/pkg/token"
	"campushub.events/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthServiceError is a typed business error of the auth flows.
type AuthServiceError string

func (e AuthServiceError) Error() string { return string(e) }

const (
	ErrEmailTaken         AuthServiceError = "an account with this email already exists"
	ErrInvalidCredentials AuthServiceError = "invalid email or password"
	ErrAccountInactive    AuthServiceError = "account is not verified yet"
	ErrUserNotFound       AuthServiceError = "user not found"
	ErrAlreadyVerified    AuthServiceError = "account is already verified"
)

// RegisterInput is the payload of a registration.
type RegisterInput struct {
	FullName      string
	Email         string
	Password      string
	StudentNumber *string
}

// IAuthService covers onboarding and credentials: registration with OTP
// verification, login, and the password-reset OTP flow.
type IAuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	VerifyEmail(ctx context.Context, email, code string) (*models.User, error)
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
	GetProfile(ctx context.Context, userID uint) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uint, fullName string, studentNumber *string) (*models.User, error)
}

type AuthService struct {
	db    *gorm.DB
	users repositories.IUserRepository
	otp   IOTPService
	mail  mailer.Mailer
}

func NewAuthService() IAuthService {
	return NewAuthServiceWithDB(configsdatabase.GetDB(), mailer.New())
}

func NewAuthServiceWithDB(db *gorm.DB, mail mailer.Mailer) *AuthService {
	return &AuthService{
		db:    db,
		users: repositories.NewUserRepositoryTx(db),
		otp:   NewOTPServiceWithDB(db),
		mail:  mail,
	}
}

// Register creates an inactive student account and emails a verification
// code. The account cannot log in until VerifyEmail succeeds.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName:      strings.TrimSpace(input.FullName),
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash:  string(hash),
		StudentNumber: input.StudentNumber,
		Role:          models.RoleStudent,
		IsActive:      false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		configslog.Log.Error("user create failed", zap.Error(err))
		return nil, err
	}

	s.sendVerificationCode(ctx, user)
	configslog.SLog.Infof("user %d registered (%s), awaiting verification", user.ID, user.Email)
	return user, nil
}

// VerifyEmail validates the registration code and activates the account.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	userID, err := s.otp.Validate(ctx, email, code, models.OTPPurposeRegistration)
	if err != nil {
		return nil, err
	}

	var user *models.User
	if userID != nil {
		user, err = s.users.FindByID(ctx, *userID)
	} else {
		user, err = s.users.FindByEmail(ctx, email)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.IsActive = true
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	configslog.SLog.Infof("user %d verified", user.ID)
	return user, nil
}

// ResendVerification issues a fresh registration code for an inactive
// account; the previous code stops validating.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.IsActive {
		return ErrAlreadyVerified
	}
	s.sendVerificationCode(ctx, user)
	return nil
}

// Login checks the credentials and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, ErrAccountInactive
	}

	signed, err := token.Generate(user)
	if err != nil {
		configslog.Log.Error("token generation failed", zap.Uint("userID", user.ID), zap.Error(err))
		return "", nil, err
	}
	return signed, user, nil
}

// ForgotPassword issues a reset code when the account exists. It reports
// success either way so the endpoint cannot be used to probe for emails.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}

	code, err := s.otp.Issue(ctx, user.Email, models.OTPPurposePasswordReset, &user.ID)
	if err != nil {
		return err
	}
	mailer.SendAsync(s.mail, user.Email, "Your password reset code",
		"Hello "+user.FullName+",\n\nYour password reset code is "+code+". It expires in 10 minutes.")
	return nil
}

// ResetPassword validates the reset code and stores the new password hash.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	userID, err := s.otp.Validate(ctx, email, code, models.OTPPurposePasswordReset)
	if err != nil {
		return err
	}

	var user *models.User
	if userID != nil {
		user, err = s.users.FindByID(ctx, *userID)
	} else {
		user, err = s.users.FindByEmail(ctx, email)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	configslog.SLog.Infof("user %d reset their password", user.ID)
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return s.users.Save(ctx, user)
}

func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, fullName string, studentNumber *string) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(fullName) != "" {
		user.FullName = strings.TrimSpace(fullName)
	}
	if studentNumber != nil {
		user.StudentNumber = studentNumber
	}
	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) sendVerificationCode(ctx context.Context, user *models.User) {
	code, err := s.otp.Issue(ctx, user.Email, models.OTPPurposeRegistration, &user.ID)
	if err != nil {
		// The account still exists; the user can request a resend.
		configslog.Log.Error("verification code issue failed", zap.Uint("userID", user.ID), zap.Error(err))
		return
	}
	mailer.SendAsync(s.mail, user.Email, "Verify your account",
		"Hello "+user.FullName+",\n\nYour verification code is "+code+". It expires in 10 minutes.")
}

var _ IAuthService = (*AuthService)(nil)
