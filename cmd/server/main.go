// Package main is the entry point for the card generation API.
//
// Startup order: configuration, logging, history cache, rate limiter,
// generation service, background jobs, HTTP server. The process runs until
// SIGINT or SIGTERM and then shuts down gracefully.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/megafacil/internal/config"
	"github.com/aristath/megafacil/internal/modules/history"
	"github.com/aristath/megafacil/internal/ratelimit"
	"github.com/aristath/megafacil/internal/scheduler"
	"github.com/aristath/megafacil/internal/server"
	"github.com/aristath/megafacil/internal/services"
	"github.com/aristath/megafacil/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("csv_path", cfg.CSVPath).
		Int("window_size", cfg.WindowSize).
		Int("combinations_per_card", cfg.CombinationsPerCard).
		Bool("fixed_seed", cfg.Seed != nil).
		Msg("Starting megafacil")

	store := history.NewStore(cfg.CSVPath, log)
	limiter := ratelimit.NewLimiter(cfg.RateLimitMaxRequests, cfg.RateLimitWindow)

	engine := services.NewGenerationService(store, services.Options{
		WindowSize:          cfg.WindowSize,
		MaxWindowSize:       cfg.MaxWindowSize,
		CombinationsPerCard: cfg.CombinationsPerCard,
		MaxCards:            cfg.MaxCardsPerRequest,
		Seed:                cfg.Seed,
	}, log)

	// Background jobs
	sched := scheduler.New(log)

	historyJob := scheduler.NewHistoryRefreshJob(store)
	historyJob.SetLogger(log)
	// A missing history file is not fatal, requests report it until it appears
	if err := sched.RunNow(historyJob); err != nil {
		log.Warn().Err(err).Msg("Initial history load failed")
	}

	limiterJob := scheduler.NewLimiterStatsJob(limiter, cfg.RateLimitKeyWarn)
	limiterJob.SetLogger(log)

	if cfg.HistoryRefreshSpec != "" {
		if err := sched.AddJob(cfg.HistoryRefreshSpec, historyJob); err != nil {
			log.Fatal().Err(err).Msg("Failed to register history refresh job")
		}
	}
	if err := sched.AddJob("@every 10m", limiterJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register rate limiter stats job")
	}
	sched.Start()

	srv := server.New(server.Config{
		Log:     log,
		Engine:  engine,
		Limiter: limiter,
		Config:  cfg,
		Port:    cfg.Port,
		DevMode: cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	sched.Stop()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
