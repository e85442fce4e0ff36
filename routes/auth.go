package routes

import (
	"time"

	"campushub.events/handlers"
	"campushub.events/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func registerAuthRoutes(api fiber.Router) {
	authHandler := handlers.NewAuthHandler()
	authGroup := api.Group("/auth")

	// OTP issuing endpoints get a tighter rate limit than the rest of the API.
	authGroup.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}))

	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/verify-email", authHandler.VerifyEmail)
	authGroup.Post("/resend-verification", authHandler.ResendVerification)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)

	userGroup := authGroup.Group("", middlewares.RequireAuth())
	userGroup.Get("/profile", authHandler.Profile)
	userGroup.Put("/profile", authHandler.UpdateProfile)
	userGroup.Post("/change-password", authHandler.ChangePassword)
}
