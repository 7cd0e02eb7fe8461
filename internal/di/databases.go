// Package di provides dependency injection for database connections.
package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/qsim/internal/config"
	"github.com/aristath/qsim/internal/database"
)

// InitializeDatabases opens the run manifest database and applies schemas
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// runs.db - Run manifest and snapshot index
	runsDB, err := database.New(database.Config{
		Path:    cfg.DataDir + "/runs.db",
		Profile: database.ProfileRuns, // Maximum safety for the reproduction manifest
		Name:    "runs",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize runs database: %w", err)
	}

	if err := runsDB.Migrate(); err != nil {
		runsDB.Close()
		return nil, fmt.Errorf("failed to migrate runs database: %w", err)
	}
	container.RunsDB = runsDB

	log.Info().Str("path", runsDB.Path()).Msg("Runs database initialized")

	return container, nil
}
