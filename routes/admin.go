package routes

import (
	"campushub.events/handlers"
	"campushub.events/middlewares"

	"github.com/gofiber/fiber/v2"
)

func registerAdminRoutes(api fiber.Router) {
	adminHandler := handlers.NewAdminHandler()

	admin := api.Group("/admin", middlewares.RequireAuth(), middlewares.RequireAdmin())

	admin.Get("/events", adminHandler.ListEvents)
	admin.Post("/events/:id/approve", adminHandler.ApproveEvent)
	admin.Post("/events/:id/reject", adminHandler.RejectEvent)

	admin.Get("/users", adminHandler.ListUsers)
	admin.Patch("/users/:id/role", adminHandler.SetUserRole)
	admin.Patch("/users/:id/status", adminHandler.SetUserActive)
	admin.Delete("/users/:id", adminHandler.DeleteUser)

	admin.Post("/maintenance/sweep-otps", adminHandler.SweepOTPs)
	admin.Post("/maintenance/reconcile", adminHandler.ReconcileOccupancy)
}
