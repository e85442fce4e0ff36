package routes

import (
	"campushub.events/handlers"
	"campushub.events/middlewares"

	"github.com/gofiber/fiber/v2"
)

func registerEventRoutes(api fiber.Router) {
	eventHandler := handlers.NewEventHandler()
	rsvpHandler := handlers.NewRSVPHandler()

	events := api.Group("/events")
	events.Get("/", eventHandler.List)

	authed := events.Group("", middlewares.RequireAuth())
	authed.Post("/", eventHandler.Create)
	authed.Get("/mine", eventHandler.Mine)
	authed.Get("/:id", eventHandler.Get)
	authed.Put("/:id", eventHandler.Update)
	authed.Delete("/:id", eventHandler.Delete)
	authed.Post("/:id/cancel", eventHandler.Cancel)
	authed.Post("/:id/complete", eventHandler.Complete)

	authed.Post("/:id/rsvp", rsvpHandler.Create)
	authed.Delete("/:id/rsvp", rsvpHandler.Cancel)
	authed.Patch("/:id/rsvp", rsvpHandler.Update)
	authed.Get("/:id/attendees", rsvpHandler.Attendees)

	api.Get("/rsvps/mine", middlewares.RequireAuth(), rsvpHandler.Mine)
}
