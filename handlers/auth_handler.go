package handlers

import (
	"campushub.events/middlewares"
	"campushub.events/pkg/validation"
	"campushub.events/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler exposes registration, verification and credential endpoints.
type AuthHandler struct {
	auth services.IAuthService
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{auth: services.NewAuthService()}
}

func NewAuthHandlerWithService(auth services.IAuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	FullName      string  `json:"fullName" validate:"required,min=2,max=120"`
	Email         string  `json:"email" validate:"required,email"`
	Password      string  `json:"password" validate:"required,min=8,max=72"`
	StudentNumber *string `json:"studentNumber" validate:"omitempty,min=3,max=30"`
}

type verifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

type updateProfileRequest struct {
	FullName      string  `json:"fullName" validate:"omitempty,min=2,max=120"`
	StudentNumber *string `json:"studentNumber" validate:"omitempty,min=3,max=30"`
}

func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return failBadBody()
	}
	if err := validation.ValidateStruct(dst); err != nil {
		return failValidation(err)
	}
	return nil
}

// Register creates an inactive account and emails the verification code.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.auth.Register(c.UserContext(), services.RegisterInput{
		FullName:      req.FullName,
		Email:         req.Email,
		Password:      req.Password,
		StudentNumber: req.StudentNumber,
	})
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusCreated, user)
}

func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var req verifyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.auth.VerifyEmail(c.UserContext(), req.Email, req.Code)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, user)
}

func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var req emailRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.auth.ResendVerification(c.UserContext(), req.Email); err != nil {
		return failFromService(c, err)
	}
	return okMessage(c, "verification code sent")
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	signed, user, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"token": signed, "user": user})
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req emailRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.auth.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return failFromService(c, err)
	}
	return okMessage(c, "if the account exists, a reset code has been sent")
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.auth.ResetPassword(c.UserContext(), req.Email, req.Code, req.NewPassword); err != nil {
		return failFromService(c, err)
	}
	return okMessage(c, "password updated")
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, middlewares.CurrentUser(c))
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.auth.UpdateProfile(c.UserContext(), middlewares.CurrentUser(c).ID, req.FullName, req.StudentNumber)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, user)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), middlewares.CurrentUser(c).ID, req.OldPassword, req.NewPassword); err != nil {
		return failFromService(c, err)
	}
	return okMessage(c, "password changed")
}
