// Package di provides dependency injection for scheduled jobs.
package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/qsim/internal/config"
	"github.com/aristath/qsim/internal/modules/snapshots"
	"github.com/aristath/qsim/internal/scheduler"
)

// RegisterJobs creates the scheduler and registers cron jobs.
// An empty snapshot schedule disables the periodic snapshot job.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*scheduler.Scheduler, error) {
	sched := scheduler.New(log)

	if cfg.SnapshotSchedule != "" {
		job := snapshots.NewPeriodicJob(container.SnapshotService, container.QuantumService, log)
		if err := sched.AddJob(cfg.SnapshotSchedule, job); err != nil {
			return nil, fmt.Errorf("failed to register periodic snapshot job: %w", err)
		}
		log.Info().Str("schedule", cfg.SnapshotSchedule).Msg("Periodic snapshot job registered")
	}

	return sched, nil
}
