package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/practice-engine/internal/catalog"
	"github.com/SAP-F-2025/practice-engine/internal/config"
	"github.com/SAP-F-2025/practice-engine/internal/events"
	"github.com/SAP-F-2025/practice-engine/internal/handlers"
	"github.com/SAP-F-2025/practice-engine/internal/ledger"
	"github.com/SAP-F-2025/practice-engine/internal/services"
	"github.com/SAP-F-2025/practice-engine/internal/session"
	"github.com/SAP-F-2025/practice-engine/internal/utils"
	"github.com/SAP-F-2025/practice-engine/internal/validator"
	"github.com/SAP-F-2025/practice-engine/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment, os.Stdout)
	slogger := utils.ToSlogLogger(logger)
	slog.SetDefault(slogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var backends pkg.Backends
	if cfg.UsesPostgres() {
		backends.DB, err = pkg.InitDatabase(cfg)
		if err != nil {
			fatal(slogger, "Failed to initialize database", err)
		}
		logger.Info("Database connection established")
	}
	if cfg.UsesRedis() {
		backends.Redis, err = pkg.NewRedisClient(ctx, cfg)
		if err != nil {
			fatal(slogger, "Failed to connect to redis", err)
		}
		defer backends.Redis.Close()
		logger.Info("Redis connection established")
	}

	cat, err := catalog.LoadFile(cfg.ExercisesPath, validator.New())
	if err != nil {
		fatal(slogger, "Failed to load exercise catalog", err)
	}
	logger.Info("Exercise catalog loaded", "path", cfg.ExercisesPath, "exercises", cat.Len())

	store, err := pkg.NewLedgerStore(cfg, backends)
	if err != nil {
		fatal(slogger, "Failed to create progress store", err)
	}
	led := ledger.New(ctx, store, slogger)
	logger.Info("Progress ledger ready", "backend", cfg.LedgerBackend, "records", led.Len())

	writingArchive, err := pkg.NewWritingArchive(cfg, backends, slogger)
	if err != nil {
		fatal(slogger, "Failed to create writing archive", err)
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("Failed to create event publisher, falling back to mock", "error", err)
		publisher = events.NewMockEventPublisher(slogger)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", "error", err)
		}
	}()
	if ch, ok := publisher.(*events.ChannelEventPublisher); ok {
		go logSessionEvents(ctx, ch, slogger)
	}

	practiceService := services.NewPracticeService(cat, led, slogger,
		services.WithPolicies(session.DisallowLateSubmit(cfg.LateSubmitDisabled...)),
		services.WithArchive(writingArchive),
		services.WithPublisher(publisher),
	)
	go sweepSessions(ctx, practiceService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	handlers.NewHandlerManager(practiceService, logger).SetupRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "addr", server.Addr, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(slogger, "Server failed", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
}

// logSessionEvents drains the in-process topic so published events show up
// in the service log.
func logSessionEvents(ctx context.Context, publisher *events.ChannelEventPublisher, logger *slog.Logger) {
	eventsCh, err := publisher.Subscribe(ctx)
	if err != nil {
		logger.Error("Failed to subscribe to session events", "error", err)
		return
	}
	for event := range eventsCh {
		logger.Info("Session event",
			"type", event.Type,
			"session_id", event.Data.SessionID,
			"exercise_id", event.Data.ExerciseID,
		)
	}
}

// sweepSessions periodically drops finished and abandoned sessions.
func sweepSessions(ctx context.Context, svc services.PracticeService) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.SweepSessions(ctx)
		}
	}
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
