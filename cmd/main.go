package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/viniciusalmeida93/ant-camp/config"
	"github.com/viniciusalmeida93/ant-camp/db"
	"github.com/viniciusalmeida93/ant-camp/handlers"
	"github.com/viniciusalmeida93/ant-camp/live"
	"github.com/viniciusalmeida93/ant-camp/repositories"
	api "github.com/viniciusalmeida93/ant-camp/routes"
	"github.com/viniciusalmeida93/ant-camp/services"
	"github.com/viniciusalmeida93/ant-camp/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 storage not configured, banner uploads disabled")
	}

	wsHub := live.NewHub()
	go wsHub.Run()
	logger.Info("live hub started")

	champRepo := repositories.NewPostgresChampionshipRepository(dbConn)
	categoryRepo := repositories.NewPostgresCategoryRepository(dbConn)
	wodRepo := repositories.NewPostgresWodRepository(dbConn)
	regRepo := repositories.NewPostgresRegistrationRepository(dbConn)
	heatRepo := repositories.NewPostgresHeatRepository(dbConn)
	entryRepo := repositories.NewPostgresHeatEntryRepository(dbConn)
	resultRepo := repositories.NewPostgresWodResultRepository(dbConn)
	logger.Info("repositories initialized")

	scheduleService := services.NewScheduleService(dbConn, champRepo, wodRepo, heatRepo, resultRepo, logger)
	heatService := services.NewHeatService(dbConn, champRepo, categoryRepo, wodRepo, regRepo, heatRepo, entryRepo, scheduleService, logger)
	assignmentService := services.NewAssignmentService(dbConn, categoryRepo, regRepo, heatRepo, entryRepo, resultRepo, logger)
	projectionService := services.NewProjectionService(champRepo, categoryRepo, wodRepo, regRepo, heatRepo, entryRepo)
	championshipService := services.NewChampionshipService(dbConn, champRepo, scheduleService, uploader, logger)
	logger.Info("services initialized")

	championshipHandler := handlers.NewChampionshipHandler(championshipService, wsHub)
	heatHandler := handlers.NewHeatHandler(heatService, wsHub)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService, projectionService, wsHub)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService, wsHub)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		championshipHandler,
		heatHandler,
		scheduleHandler,
		assignmentHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
