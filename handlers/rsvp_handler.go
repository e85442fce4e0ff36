package handlers

import (
	"campushub.events/middlewares"
	"campushub.events/models"
	"campushub.events/services"

	"github.com/gofiber/fiber/v2"
)

// RSVPHandler exposes the attendance endpoints nested under events.
type RSVPHandler struct {
	rsvps services.IRSVPService
}

func NewRSVPHandler() *RSVPHandler {
	return &RSVPHandler{rsvps: services.NewRSVPService()}
}

func NewRSVPHandlerWithService(rsvps services.IRSVPService) *RSVPHandler {
	return &RSVPHandler{rsvps: rsvps}
}

type createRSVPRequest struct {
	NumberOfGuests     int    `json:"numberOfGuests" validate:"min=0,max=5"`
	DietaryPreferences string `json:"dietaryPreferences" validate:"max=255"`
}

type updateRSVPRequest struct {
	NumberOfGuests     *int    `json:"numberOfGuests" validate:"omitempty,min=0,max=5"`
	DietaryPreferences *string `json:"dietaryPreferences" validate:"omitempty,max=255"`
	Status             *string `json:"status" validate:"omitempty,oneof=attending cancelled"`
}

// Create records the caller's RSVP (or reactivates a cancelled one).
func (h *RSVPHandler) Create(c *fiber.Ctx) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}
	var req createRSVPRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	rsvp, svcErr := h.rsvps.Create(c.UserContext(), id, middlewares.CurrentUser(c), req.NumberOfGuests, req.DietaryPreferences)
	if svcErr != nil {
		return failFromService(c, svcErr)
	}
	return ok(c, fiber.StatusCreated, rsvp)
}

// Cancel withdraws the caller's RSVP; repeat calls succeed unchanged.
func (h *RSVPHandler) Cancel(c *fiber.Ctx) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}
	if svcErr := h.rsvps.Cancel(c.UserContext(), id, middlewares.CurrentUser(c).ID); svcErr != nil {
		return failFromService(c, svcErr)
	}
	return okMessage(c, "rsvp cancelled")
}

// Update changes guest count, dietary note, or flips the status.
func (h *RSVPHandler) Update(c *fiber.Ctx) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}
	var req updateRSVPRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	input := services.UpdateRSVPInput{
		NumberOfGuests:     req.NumberOfGuests,
		DietaryPreferences: req.DietaryPreferences,
	}
	if req.Status != nil {
		status := models.RSVPStatus(*req.Status)
		input.Status = &status
	}

	rsvp, svcErr := h.rsvps.Update(c.UserContext(), id, middlewares.CurrentUser(c), input)
	if svcErr != nil {
		return failFromService(c, svcErr)
	}
	return ok(c, fiber.StatusOK, rsvp)
}

// Mine lists the caller's RSVPs across events.
func (h *RSVPHandler) Mine(c *fiber.Ctx) error {
	rsvps, err := h.rsvps.ListForUser(c.UserContext(), middlewares.CurrentUser(c).ID)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, rsvps)
}

// Attendees lists an event's RSVPs for its owner or an admin.
func (h *RSVPHandler) Attendees(c *fiber.Ctx) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}
	rsvps, svcErr := h.rsvps.AttendeesForEvent(c.UserContext(), id, middlewares.CurrentUser(c))
	if svcErr != nil {
		return failFromService(c, svcErr)
	}
	return ok(c, fiber.StatusOK, rsvps)
}
