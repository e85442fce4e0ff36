package handlers

import (
	"campushub.events/models"
	"campushub.events/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler exposes moderation and operator endpoints.
type AdminHandler struct {
	events services.IEventService
	users  services.IUserService
	rsvps  services.IRSVPService
	otp    services.IOTPService
}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{
		events: services.NewEventService(),
		users:  services.NewUserService(),
		rsvps:  services.NewRSVPService(),
		otp:    services.NewOTPService(),
	}
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"required,min=10"`
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=student admin"`
}

type setActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// ListEvents lists events in any status; ?status= filters.
func (h *AdminHandler) ListEvents(c *fiber.Ctx) error {
	status := models.EventStatus(c.Query("status"))
	result, err := h.events.ListAll(c.UserContext(), status, listParams(c))
	if err != nil {
		return failFromService(c, err)
	}
	return c.JSON(result)
}

func (h *AdminHandler) ApproveEvent(c *fiber.Ctx) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}
	event, svcErr := h.events.Approve(c.UserContext(), id)
	if svcErr != nil {
		return failFromService(c, svcErr)
	}
	return ok(c, fiber.StatusOK, event)
}

func (h *AdminHandler) RejectEvent(c *fiber.Ctx) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}
	var req rejectRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	event, svcErr := h.events.Reject(c.UserContext(), id, req.Reason)
	if svcErr != nil {
		return failFromService(c, svcErr)
	}
	return ok(c, fiber.StatusOK, event)
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	result, err := h.users.ListAll(c.UserContext(), listParams(c))
	if err != nil {
		return failFromService(c, err)
	}
	return c.JSON(result)
}

func (h *AdminHandler) SetUserRole(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}
	var req setRoleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if svcErr := h.users.SetRole(c.UserContext(), id, models.UserRole(req.Role)); svcErr != nil {
		return failFromService(c, svcErr)
	}
	return okMessage(c, "role updated")
}

func (h *AdminHandler) SetUserActive(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}
	var req setActiveRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if svcErr := h.users.SetActive(c.UserContext(), id, *req.IsActive); svcErr != nil {
		return failFromService(c, svcErr)
	}
	return okMessage(c, "user status updated")
}

// DeleteUser removes a user with full cascade (their events, their RSVPs,
// and the counter adjustments on other events).
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}
	if svcErr := h.users.Delete(c.UserContext(), id); svcErr != nil {
		return failFromService(c, svcErr)
	}
	return okMessage(c, "user deleted")
}

// SweepOTPs removes expired codes on demand.
func (h *AdminHandler) SweepOTPs(c *fiber.Ctx) error {
	removed, err := h.otp.Sweep(c.UserContext())
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"removed": removed})
}

// ReconcileOccupancy recomputes cached attendance counters from RSVP rows.
func (h *AdminHandler) ReconcileOccupancy(c *fiber.Ctx) error {
	fixed, err := h.rsvps.Reconcile(c.UserContext())
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"corrected": fixed})
}

func userID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, fail(fiber.StatusBadRequest, "BAD_REQUEST", "invalid user id")
	}
	return uint(id), nil
}
