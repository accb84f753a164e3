package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ride-hail-backend/internal/api"
	"ride-hail-backend/internal/config"
	"ride-hail-backend/internal/modules/drivers"
	"ride-hail-backend/internal/modules/location"
	"ride-hail-backend/internal/modules/orders"
	"ride-hail-backend/internal/modules/stream"
	"ride-hail-backend/pkg/email"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	// 1. --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	e := echo.New()
	e.HideBanner = true

	// 2. --- Middleware ---
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.ClientOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// 3. --- Database Connection ---
	dbConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to parse database configuration: %v", err)
	}

	dbPool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		log.Fatalf("Unable to create connection pool: %v", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	e.Logger.Info("Successfully connected to the database!")

	// Root context for background components; cancelled on shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. --- Dependency Injection (Wiring everything up) ---
	// --- Live Location ---
	// One registry, one service, one hub — shared by reference between the
	// REST facade and the streaming gateway so both ingress paths hit the
	// same state and the same fan-out.
	driverRepo := drivers.NewRepository(dbPool)
	registry := location.NewRegistry()
	locationService := location.NewService(registry, driverRepo, cfg.StalenessWindow)
	hub := stream.NewHub(e.Logger)
	locationService.SetBroadcaster(hub)
	gateway := stream.NewGateway(hub, locationService, e.Logger)
	locationHandler := location.NewHandler(locationService)
	driverHandler := drivers.NewHandler(driverRepo)

	// --- Orders ---
	orderRepo := orders.NewRepository(dbPool)
	orderService := orders.NewService(orderRepo)
	orderHandler := orders.NewHandler(orderService)

	// --- Expiry Notices ---
	var notifier orders.ExpiryNotifier
	if cfg.EmailEnabled {
		sender, err := email.NewSESV2Sender(ctx, cfg.SESRegion, cfg.SESFromEmail)
		if err != nil {
			log.Fatalf("Unable to initialize SES sender: %v", err)
		}
		templates, err := email.NewTemplateManager()
		if err != nil {
			log.Fatalf("Unable to parse email templates: %v", err)
		}
		notifier = orders.NewEmailExpiryNotifier(sender, templates)
	}

	// --- Lifecycle Reconciler ---
	reconciler := orders.NewReconciler(orderRepo, notifier, e.Logger,
		cfg.SweepInterval, cfg.PendingOrderTTL, cfg.PurgeSweepEnable)
	reconciler.Start(ctx)

	// 5. --- Initialize Router ---
	api.SetupRoutes(e, cfg.JWTSecret,
		locationHandler,
		driverHandler,
		orderHandler,
		gateway,
	)

	// 6. --- Start Server with graceful shutdown logic ---
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server, an error occurred: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Fatal("Server forced to shutdown: ", err)
	}
	log.Println("Server exiting")
}
