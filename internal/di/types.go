/**
 * Package di provides dependency injection type definitions.
 *
 * This package defines the Container type which holds all application dependencies.
 * The Container is the single source of truth for all service instances and is
 * passed to handlers for access to services.
 */
package di

import (
	"github.com/aristath/qsim/internal/database"
	"github.com/aristath/qsim/internal/events"
	"github.com/aristath/qsim/internal/modules/quantum"
	"github.com/aristath/qsim/internal/modules/rng"
	"github.com/aristath/qsim/internal/modules/runs"
	"github.com/aristath/qsim/internal/modules/snapshots"
)

/**
 * Container holds all dependencies for the application.
 *
 * This is the single source of truth for all service instances.
 * The container is created by Wire() and passed to the server for access
 * to services.
 */
type Container struct {
	// Databases
	RunsDB *database.DB // Run manifest and snapshot index

	// Repositories - Data access layer
	RunRepo      *runs.RunRepository           // Run manifest rows
	SnapshotRepo *snapshots.SnapshotRepository // Snapshot index rows

	// Core infrastructure
	Bus          *events.Bus            // Event bus for pub/sub
	RandomSource *rng.Source            // The process-wide random generator
	Seeder       *rng.Seeder            // Seeds the generator, records seed material
	ObjectStore  *snapshots.ObjectStore // Optional S3-compatible snapshot mirror (nil when unconfigured)

	// Services - Business logic layer
	QuantumService  *quantum.Service   // The live simulation session
	SnapshotService *snapshots.Service // Snapshot artifacts and index
	RunService      *runs.Service      // Run lifecycle and reproduction
}

// Close releases the container's resources
func (c *Container) Close() error {
	if c.RunsDB != nil {
		return c.RunsDB.Close()
	}
	return nil
}
