package snapshots

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aristath/qsim/internal/modules/register"
)

// StateSource hands the periodic job the live register. ok is false
// when no simulation is active, which makes the tick a no-op.
type StateSource interface {
	CurrentState() (reg *register.Register, runID string, ok bool)
}

// PeriodicJob snapshots the live register on a cron schedule
type PeriodicJob struct {
	svc    *Service
	source StateSource
	log    zerolog.Logger
}

// NewPeriodicJob creates the scheduled snapshot job
func NewPeriodicJob(svc *Service, source StateSource, log zerolog.Logger) *PeriodicJob {
	return &PeriodicJob{
		svc:    svc,
		source: source,
		log:    log.With().Str("job", "periodic_snapshot").Logger(),
	}
}

// Name returns the job name
func (j *PeriodicJob) Name() string {
	return "periodic_snapshot"
}

// Run takes one snapshot of the live register, if any
func (j *PeriodicJob) Run() error {
	reg, runID, ok := j.source.CurrentState()
	if !ok {
		j.log.Debug().Msg("No active simulation, skipping snapshot")
		return nil
	}

	_, err := j.svc.Snapshot(context.Background(), runID, reg)
	return err
}
