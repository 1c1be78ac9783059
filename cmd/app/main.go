package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kettleby/habitforge/internal/attack"
	"github.com/kettleby/habitforge/internal/config"
	"github.com/kettleby/habitforge/internal/database"
	"github.com/kettleby/habitforge/internal/database/postgres"
	"github.com/kettleby/habitforge/internal/economy"
	"github.com/kettleby/habitforge/internal/effect"
	"github.com/kettleby/habitforge/internal/event"
	"github.com/kettleby/habitforge/internal/handler"
	"github.com/kettleby/habitforge/internal/ledger"
	"github.com/kettleby/habitforge/internal/logger"
	"github.com/kettleby/habitforge/internal/metrics"
	"github.com/kettleby/habitforge/internal/quest"
	"github.com/kettleby/habitforge/internal/server"
	"github.com/kettleby/habitforge/internal/streak"
)

const (
	shutdownTimeout = 10 * time.Second
	eventRetryDelay = 2 * time.Second
	eventMaxRetries = 3
	deadLetterPath  = "events.deadletter.jsonl"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	logger.InitLogger(logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		cfg.ServiceName,
		cfg.Version,
		cfg.Environment,
		false,
	))

	ctx := context.Background()

	if err := database.RunMigrations(ctx, cfg.GetDBConnString()); err != nil {
		slog.Error("Migrations failed", "error", err)
		os.Exit(1)
	}

	pool, err := database.NewPool(ctx, cfg.GetDBConnString())
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := postgres.NewStore(pool)

	bus := event.NewResilientPublisher(event.NewMemoryBus(), event.ResilientConfig{
		MaxRetries:     eventMaxRetries,
		RetryDelay:     eventRetryDelay,
		DeadLetterPath: deadLetterPath,
	})

	ledgerService := ledger.NewService(store)
	effectEngine := effect.NewEngine(store)
	attackEngine := attack.NewEngine(rand.IntN)
	economyService := economy.NewService(store, ledgerService, effectEngine, attackEngine, bus, time.Now)
	streakService := streak.NewService(store, bus, cfg.StreakMilestoneInterval, time.Now)
	questService := quest.NewService(store, ledgerService, bus, time.Now)

	// Bus subscribers: quest progress and business metrics
	quest.NewEventHandler(questService).Register(bus)
	metrics.NewEventMetricsCollector().Register(bus)

	handler.InitValidator()

	srv := server.NewServer(
		cfg.Port,
		cfg.APIKey,
		cfg.TrustedProxies,
		pool,
		economyService,
		ledgerService,
		effectEngine,
		streakService,
		questService,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}
