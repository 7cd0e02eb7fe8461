// Package di provides dependency injection for repository implementations.
package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/qsim/internal/modules/runs"
	"github.com/aristath/qsim/internal/modules/snapshots"
)

// InitializeRepositories creates all repositories and stores them in the container
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	// Run repository (needs runsDB)
	container.RunRepo = runs.NewRunRepository(
		container.RunsDB.Conn(),
		log,
	)

	// Snapshot repository (needs runsDB; the snapshot index lives beside
	// the run manifest so a run and its artifacts share one file)
	container.SnapshotRepo = snapshots.NewSnapshotRepository(
		container.RunsDB.Conn(),
		log,
	)

	return nil
}
