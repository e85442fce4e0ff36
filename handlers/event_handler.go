package handlers

import (
	"time"

	"campushub.events/middlewares"
	"campushub.events/models"
	"campushub.events/pkg/queryparams"
	"campushub.events/services"

	"github.com/gofiber/fiber/v2"
)

// EventHandler exposes the student-facing event endpoints.
type EventHandler struct {
	events services.IEventService
}

func NewEventHandler() *EventHandler {
	return &EventHandler{events: services.NewEventService()}
}

func NewEventHandlerWithService(events services.IEventService) *EventHandler {
	return &EventHandler{events: events}
}

type eventRequest struct {
	Title       string    `json:"title" validate:"required,min=3,max=200"`
	Description string    `json:"description" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
	Location    string    `json:"location" validate:"required,max=255"`
	Category    string    `json:"category" validate:"required"`
	Capacity    int       `json:"capacity" validate:"required,min=1"`
}

func (r eventRequest) toInput() services.EventInput {
	return services.EventInput{
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date,
		Location:    r.Location,
		Category:    models.EventCategory(r.Category),
		Capacity:    r.Capacity,
	}
}

func listParams(c *fiber.Ctx) queryparams.ListParams {
	var params queryparams.ListParams
	_ = c.QueryParser(&params)
	params.Validate()
	return params
}

func eventID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, fail(fiber.StatusBadRequest, "BAD_REQUEST", "invalid event id")
	}
	return uint(id), nil
}

// Create submits a new event; it starts pending until an admin reviews it.
func (h *EventHandler) Create(c *fiber.Ctx) error {
	var req eventRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	event, err := h.events.Create(c.UserContext(), middlewares.CurrentUser(c).ID, req.toInput())
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusCreated, event)
}

// List returns upcoming approved events, paginated.
func (h *EventHandler) List(c *fiber.Ctx) error {
	result, err := h.events.ListUpcomingApproved(c.UserContext(), listParams(c))
	if err != nil {
		return failFromService(c, err)
	}
	return c.JSON(result)
}

// Mine returns the caller's own events in every status.
func (h *EventHandler) Mine(c *fiber.Ctx) error {
	result, err := h.events.ListForOwner(c.UserContext(), middlewares.CurrentUser(c).ID, listParams(c))
	if err != nil {
		return failFromService(c, err)
	}
	return c.JSON(result)
}

func (h *EventHandler) Get(c *fiber.Ctx) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}
	event, svcErr := h.events.GetByID(c.UserContext(), id)
	if svcErr != nil {
		return failFromService(c, svcErr)
	}
	return ok(c, fiber.StatusOK, event)
}

func (h *EventHandler) Update(c *fiber.Ctx) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}
	var req eventRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	event, svcErr := h.events.Update(c.UserContext(), id, middlewares.CurrentUser(c), req.toInput())
	if svcErr != nil {
		return failFromService(c, svcErr)
	}
	return ok(c, fiber.StatusOK, event)
}

func (h *EventHandler) Cancel(c *fiber.Ctx) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}
	if svcErr := h.events.Cancel(c.UserContext(), id, middlewares.CurrentUser(c)); svcErr != nil {
		return failFromService(c, svcErr)
	}
	return okMessage(c, "event cancelled")
}

func (h *EventHandler) Complete(c *fiber.Ctx) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}
	if svcErr := h.events.Complete(c.UserContext(), id, middlewares.CurrentUser(c)); svcErr != nil {
		return failFromService(c, svcErr)
	}
	return okMessage(c, "event completed")
}

func (h *EventHandler) Delete(c *fiber.Ctx) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}
	if svcErr := h.events.Delete(c.UserContext(), id, middlewares.CurrentUser(c)); svcErr != nil {
		return failFromService(c, svcErr)
	}
	return okMessage(c, "event deleted")
}
