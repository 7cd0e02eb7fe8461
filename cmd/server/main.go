// Package main is the entry point for the qsim state-vector simulation service.
// This application hosts a quantum register simulation session, records run
// manifests for reproduction, and writes state snapshots on demand or on a
// schedule.
//
// The application follows clean architecture principles:
// - Core algebra and kernel packages are pure (no infrastructure dependencies)
// - Dependency injection via DI container
// - Repository pattern for data access
// - Service layer for business logic
// - HTTP handlers for API endpoints
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/qsim/internal/config"
	"github.com/aristath/qsim/internal/di"
	"github.com/aristath/qsim/internal/modules/faults"
	"github.com/aristath/qsim/internal/server"
	"github.com/aristath/qsim/pkg/logger"
)

// main orchestrates the system startup sequence:
// 1. Loads configuration from environment variables
// 2. Initializes the logging system
// 3. Wires all dependencies via the DI container (database, repositories,
//    services, scheduled jobs)
// 4. Starts the cron scheduler and HTTP server
// 5. Waits for a shutdown signal and performs graceful shutdown
//
// Catalog faults escaping the wiring phase go through faults.ExitOn so the
// process terminates with the fault's banner and exit status instead of a
// generic error.
func main() {
	// Load configuration first to get the log level. Configuration comes
	// from environment variables and an optional .env file.
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails so the error is still logged
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger with the configured level. Pretty mode enables
	// human-readable console output.
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	log.Info().
		Int("num_qubits", cfg.NumQubits).
		Int("num_chunks", cfg.NumChunks).
		Int("chunk_id", cfg.ChunkID).
		Str("precision", string(cfg.Precision)).
		Msg("Starting qsim")

	// Wire all dependencies using the DI container. This initializes the
	// run manifest database, repositories, the event bus, the seeded
	// random source, the live quantum session, and the snapshot pipeline.
	// A fault here (for example an invalid register geometry) is part of
	// the catalog and exits with its banner.
	container, sched, err := di.Wire(cfg, log)
	if err != nil {
		var f *faults.Fault
		if errors.As(err, &f) {
			faults.ExitOn(err)
		}
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	// The manifest database must be closed on exit so WAL checkpoints are
	// written and the file stays consistent.
	defer container.Close()

	// Start the cron scheduler (periodic snapshots, when configured)
	sched.Start()
	defer sched.Stop()

	// Initialize the HTTP server. The container is passed through so the
	// module handlers share the same service instances.
	srv := server.New(server.Config{
		Port:      cfg.Port,
		Log:       log,
		RunsDB:    container.RunsDB,
		Config:    cfg,
		DevMode:   cfg.DevMode,
		Container: container,
	})

	// Start server in a goroutine so the main thread can wait for signals
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	// Graceful HTTP shutdown with a deadline; in-flight simulation
	// requests get a chance to finish
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Shutdown complete")
}
