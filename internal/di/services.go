// Package di provides dependency injection for service implementations.
package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/qsim/internal/config"
	"github.com/aristath/qsim/internal/events"
	"github.com/aristath/qsim/internal/modules/quantum"
	"github.com/aristath/qsim/internal/modules/rng"
	"github.com/aristath/qsim/internal/modules/runs"
	"github.com/aristath/qsim/internal/modules/snapshots"
)

// InitializeServices creates all services and stores them in the container
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	// Event bus (subscribers attach later: websocket stream, snapshot job)
	container.Bus = events.NewBus(log)

	// Random source and seeder. Explicit keys from the environment win;
	// otherwise ambient entropy is folded into default seed material.
	container.RandomSource = rng.NewSource()
	container.Seeder = rng.NewSeeder(container.RandomSource, log)
	if len(cfg.SeedKeys) > 0 {
		if err := container.Seeder.SeedExplicit(cfg.SeedKeys); err != nil {
			return fmt.Errorf("failed to apply explicit seed keys: %w", err)
		}
	} else {
		if _, err := container.Seeder.SeedDefault(); err != nil {
			return fmt.Errorf("failed to apply default seed: %w", err)
		}
	}

	// Optional S3-compatible snapshot mirror
	if storeCfg := (snapshots.StoreConfig{
		Endpoint:        cfg.Store.Endpoint,
		Region:          cfg.Store.Region,
		Bucket:          cfg.Store.Bucket,
		AccessKeyID:     cfg.Store.AccessKeyID,
		SecretAccessKey: cfg.Store.SecretAccessKey,
	}); storeCfg.Configured() {
		store, err := snapshots.NewObjectStore(context.Background(), storeCfg, log)
		if err != nil {
			return fmt.Errorf("failed to initialize snapshot object store: %w", err)
		}
		container.ObjectStore = store
	}

	// Quantum session service (the single owner of the live register).
	// The configured chunk geometry reaches the register here, so a
	// node wired as chunk k of n reports and snapshots as that chunk.
	quantumService, err := quantum.NewService(cfg.NumQubits, cfg.NumChunks, cfg.ChunkID, cfg.Precision, log)
	if err != nil {
		return fmt.Errorf("failed to initialize quantum session: %w", err)
	}
	container.QuantumService = quantumService

	// Snapshot service
	container.SnapshotService = snapshots.NewService(
		container.SnapshotRepo,
		container.ObjectStore,
		container.Bus,
		cfg.DataDir,
		cfg.Precision,
		log,
	)

	// Run service
	container.RunService = runs.NewService(
		container.RunRepo,
		container.Bus,
		log,
	)

	return nil
}
