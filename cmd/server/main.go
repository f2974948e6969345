package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quizhabit/backend/internal/api"
	"github.com/quizhabit/backend/internal/domain/dailygoal"
	"github.com/quizhabit/backend/internal/infrastructure/config"
	"github.com/quizhabit/backend/internal/scheduler"
	"github.com/quizhabit/backend/internal/service"
	"github.com/quizhabit/backend/internal/store"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	loc := time.Local
	if cfg.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			logger.Error("invalid timezone", "timezone", cfg.Timezone, "error", err)
			os.Exit(1)
		}
	}

	profile, err := service.NewLearnerProfile(db, goalFromConfig(cfg), cfg.GracePeriodDays, loc, cfg.RetryWindow, logger)
	if err != nil {
		logger.Error("failed to initialize learner profile", "error", err)
		os.Exit(1)
	}
	analytics := service.NewAnalytics(db, logger)
	handler := api.NewHandler(db, profile, analytics, logger)

	// Hourly day-rollover tick.
	ticker := scheduler.New(profile, logger)
	ticker.Start()
	defer ticker.Stop()

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}

func goalFromConfig(cfg *config.Config) dailygoal.Goal {
	switch dailygoal.GoalKind(cfg.GoalKind) {
	case dailygoal.GoalTimeMinutes:
		return dailygoal.TimeGoal(cfg.GoalTarget)
	case dailygoal.GoalCategoryFocus:
		return dailygoal.CategoryFocusGoal(nil, cfg.GoalTarget)
	default:
		return dailygoal.QuestionCountGoal(cfg.GoalTarget)
	}
}
