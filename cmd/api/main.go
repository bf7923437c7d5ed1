package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/gst-invoicing/docs"
	"github.com/jhoicas/gst-invoicing/internal/bootstrap"
	httpRouter "github.com/jhoicas/gst-invoicing/internal/interfaces/http"
	"github.com/jhoicas/gst-invoicing/pkg/config"
	"github.com/jhoicas/gst-invoicing/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("starting application")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}
	if cfg.Auth.PasswordHash == "" {
		log.Warn().Msg("AUTH_PASSWORD_HASH is empty; login is disabled")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	svc, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("wire services")
	}
	defer svc.Close()

	if cfg.Billing.SweepInterval > 0 {
		log.Info().Dur("interval", cfg.Billing.SweepInterval).Msg("periodic overdue sweep enabled")
		go svc.Sweeper.Run(ctx, cfg.Billing.SweepInterval)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "GST Invoicing API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      svc.Auth,
		InvoiceUC:   svc.Invoices,
		PaymentUC:   svc.Payments,
		PDFUC:       svc.PDF,
		ExportUC:    svc.Export,
		DashboardUC: svc.Dashboard,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
