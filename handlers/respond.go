package handlers

import (
	"errors"

	"campushub.events/configs/configslog"
	"campushub.events/pkg/validation"
	"campushub.events/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// errorResponse is the envelope for every failure: a stable machine-readable
// code plus a human message.
type errorResponse struct {
	Status  string            `json:"status"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// apiError is a failed request on its way to the wire. Helpers and handlers
// return it instead of writing the response themselves; ErrorHandler renders
// it after the chain unwinds. Every failure path yielding a non-nil error is
// what makes the callers' plain err != nil guards sound.
type apiError struct {
	status  int
	code    string
	message string
	fields  map[string]string
}

func (e *apiError) Error() string { return e.message }

func fail(status int, code, message string) error {
	return &apiError{status: status, code: code, message: message}
}

func failValidation(err error) error {
	return &apiError{
		status:  fiber.StatusUnprocessableEntity,
		code:    "VALIDATION_ERROR",
		message: "request body failed validation",
		fields:  validation.FieldErrors(err),
	}
}

func failBadBody() error {
	return fail(fiber.StatusBadRequest, "BAD_REQUEST", "request body could not be parsed")
}

// serviceErrorMap pins each expected business error to its wire code and
// HTTP status. Anything not listed is an unexpected error: logged in full,
// surfaced opaque.
var serviceErrorMap = []struct {
	err    error
	status int
	code   string
}{
	{services.ErrRSVPEventNotFound, fiber.StatusNotFound, "EVENT_NOT_FOUND"},
	{services.ErrEventNotFound, fiber.StatusNotFound, "EVENT_NOT_FOUND"},
	{services.ErrEventNotApproved, fiber.StatusConflict, "EVENT_NOT_APPROVED"},
	{services.ErrEventPast, fiber.StatusConflict, "EVENT_PAST"},
	{services.ErrEventFull, fiber.StatusConflict, "EVENT_FULL"},
	{services.ErrAlreadyRSVPed, fiber.StatusConflict, "ALREADY_RSVPED"},
	{services.ErrAdminCannotRSVP, fiber.StatusForbidden, "ADMIN_CANNOT_RSVP"},
	{services.ErrCapacityExceeded, fiber.StatusConflict, "CAPACITY_EXCEEDED"},
	{services.ErrRSVPNotFound, fiber.StatusNotFound, "RSVP_NOT_FOUND"},
	{services.ErrRSVPNotAttending, fiber.StatusConflict, "RSVP_NOT_ATTENDING"},
	{services.ErrInvalidGuestCount, fiber.StatusBadRequest, "INVALID_GUEST_COUNT"},
	{services.ErrRSVPActorForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{services.ErrEventForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{services.ErrEventInvalidInput, fiber.StatusBadRequest, "INVALID_EVENT"},
	{services.ErrEventInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{services.ErrRejectionReasonTooShort, fiber.StatusBadRequest, "REJECTION_REASON_REQUIRED"},
	{services.ErrOTPNotFound, fiber.StatusNotFound, "OTP_NOT_FOUND"},
	{services.ErrOTPExpired, fiber.StatusGone, "OTP_EXPIRED"},
	{services.ErrOTPInvalidCode, fiber.StatusUnauthorized, "OTP_INVALID_CODE"},
	{services.ErrOTPAttemptsExceeded, fiber.StatusTooManyRequests, "OTP_ATTEMPTS_EXCEEDED"},
	{services.ErrEmailTaken, fiber.StatusConflict, "EMAIL_TAKEN"},
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{services.ErrAccountInactive, fiber.StatusForbidden, "ACCOUNT_INACTIVE"},
	{services.ErrAlreadyVerified, fiber.StatusConflict, "ALREADY_VERIFIED"},
	{services.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{services.ErrUserMgmtNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{services.ErrInvalidRole, fiber.StatusBadRequest, "INVALID_ROLE"},
}

// failFromService translates a service error into the response envelope.
func failFromService(c *fiber.Ctx, err error) error {
	for _, entry := range serviceErrorMap {
		if errors.Is(err, entry.err) {
			return fail(entry.status, entry.code, err.Error())
		}
	}
	configslog.Log.Error("unexpected error",
		zap.String("path", c.Path()),
		zap.String("method", c.Method()),
		zap.Error(err),
	)
	return fail(fiber.StatusInternalServerError, "INTERNAL", "something went wrong")
}

// ErrorHandler renders every error returned from the handler chain. It is
// wired into fiber.Config at startup so no failure response depends on a
// handler writing it inline.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var api *apiError
	if errors.As(err, &api) {
		return c.Status(api.status).JSON(errorResponse{
			Status:  "error",
			Code:    api.code,
			Message: api.message,
			Fields:  api.fields,
		})
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(errorResponse{
			Status: "error", Code: "REQUEST_FAILED", Message: fiberErr.Message,
		})
	}
	configslog.Log.Error("unhandled error",
		zap.String("path", c.Path()),
		zap.String("method", c.Method()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
		Status: "error", Code: "INTERNAL", Message: "something went wrong",
	})
}

func ok(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{"status": "success", "data": data})
}

func okMessage(c *fiber.Ctx, message string) error {
	return c.JSON(fiber.Map{"status": "success", "message": message})
}
