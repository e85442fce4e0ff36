package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campushub.events/configs/configsdatabase"
	"campushub.events/configs/configslog"
	"campushub.events/database"
	"campushub.events/handlers"
	"campushub.events/routes"
	"campushub.events/services"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	configslog.InitLogger()
	defer configslog.SyncLogger()

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	if err := database.Initialize(configsdatabase.GetDB(), true, true); err != nil {
		configslog.Log.Fatal("database initialization failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:      "campushub-events",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: handlers.ErrorHandler,
	})
	routes.SetupRoutes(app)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go runMaintenance(ctx)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			configslog.Log.Fatal("server stopped", zap.Error(err))
		}
	}()
	configslog.SLog.Infof("listening on :%s", port)

	<-ctx.Done()
	configslog.SLog.Info("shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		configslog.Log.Error("shutdown error", zap.Error(err))
	}
}

// runMaintenance periodically sweeps expired OTP codes and reconciles cached
// occupancy counters against the authoritative RSVP rows.
func runMaintenance(ctx context.Context) {
	interval := 10 * time.Minute
	if v := os.Getenv("MAINTENANCE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			interval = d
		}
	}

	otpService := services.NewOTPService()
	rsvpService := services.NewRSVPService()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := otpService.Sweep(ctx); err != nil {
				configslog.Log.Error("scheduled otp sweep failed", zap.Error(err))
			}
			if fixed, err := rsvpService.Reconcile(ctx); err != nil {
				configslog.Log.Error("scheduled reconcile failed", zap.Error(err))
			} else if fixed > 0 {
				configslog.SLog.Infof("reconcile corrected %d events", fixed)
			}
		}
	}
}
