package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"balance-dashboard/config"
	httpHandler "balance-dashboard/internal/adapter/http/handler"
	"balance-dashboard/internal/adapter/http/middleware"
	"balance-dashboard/internal/adapter/backend"
	"balance-dashboard/internal/adapter/storage"
	"balance-dashboard/internal/service"
	"balance-dashboard/internal/session"
	"balance-dashboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: ./dashboard.yaml or ./config/dashboard.yaml)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.Mode)

	log.Info().
		Str("backend", cfg.API.BaseURL).
		Str("session_store", cfg.Session.Store).
		Int("port", cfg.Server.Port).
		Msg("Starting balance dashboard")

	ctx := context.Background()

	loc, err := cfg.Dashboard.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid dashboard timezone")
	}

	// Initialize token slot
	slot, err := storage.OpenTokenSlot(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open token store")
	}
	defer slot.Close()

	// Initialize session and backend client
	sess := session.New("")
	client, err := backend.NewClient(
		cfg.API.BaseURL,
		&http.Client{Timeout: cfg.API.Timeout},
		sess,
		slot.Store,
		middleware.Navigator{},
		logger.Component(log, "backend"),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize backend client")
	}

	// Initialize services
	authSvc := service.NewAuthService(client, sess, slot.Store, logger.Component(log, "auth"))
	dashboardSvc := service.NewLatestDashboard(
		service.NewDashboardService(client, cfg.Dashboard.MaxParallel, logger.Component(log, "dashboard")),
	)

	if _, err := authSvc.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("Could not restore persisted session, starting signed out")
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		DashboardSvc:   dashboardSvc,
		Session:        sess,
		Location:       loc,
		HealthCheckers: slot.Checkers,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
