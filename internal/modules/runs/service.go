package runs

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/qsim/internal/events"
	"github.com/aristath/qsim/internal/modules/register"
	"github.com/aristath/qsim/internal/modules/rng"
)

// Service owns the run lifecycle: manifest rows, status transitions and
// seed replay for reproduction.
type Service struct {
	repo *RunRepository
	bus  *events.Bus
	log  zerolog.Logger
}

// NewService creates a run service
func NewService(repo *RunRepository, bus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		bus:  bus,
		log:  log.With().Str("service", "runs").Logger(),
	}
}

// Create validates the geometry, assigns an id and records the run.
// Geometry checks go through the register constructor so a manifest row
// can never describe a register that would be rejected at run time.
func (s *Service) Create(params NewRunParams) (*Run, error) {
	if _, err := register.New(params.NumQubits, params.NumChunks, params.ChunkID); err != nil {
		return nil, err
	}
	if len(params.SeedKeys) == 0 {
		return nil, fmt.Errorf("a run requires at least one seed key")
	}
	if len(params.SeedKeys) > rng.MaxSeedKeys {
		return nil, fmt.Errorf("a run accepts at most %d seed keys, got %d", rng.MaxSeedKeys, len(params.SeedKeys))
	}

	prec := params.Precision
	if prec == "" {
		prec = "double"
	}

	run := &Run{
		ID:        uuid.NewString(),
		Label:     params.Label,
		NumQubits: params.NumQubits,
		NumChunks: params.NumChunks,
		ChunkID:   params.ChunkID,
		Precision: prec,
		SeedKeys:  append([]uint64(nil), params.SeedKeys...),
		Status:    StatusCreated,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(run); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("run_id", run.ID).
		Int("num_qubits", run.NumQubits).
		Int("num_chunks", run.NumChunks).
		Msg("Run created")

	if s.bus != nil {
		s.bus.Publish(&events.RunCreatedData{
			RunID:     run.ID,
			Label:     run.Label,
			NumQubits: run.NumQubits,
			NumChunks: run.NumChunks,
		})
	}

	return run, nil
}

// Get returns one run by id
func (s *Service) Get(id string) (*Run, error) {
	return s.repo.Get(id)
}

// List returns the most recent runs
func (s *Service) List(limit int) ([]*Run, error) {
	return s.repo.List(limit)
}

// Begin moves a run into the running state
func (s *Service) Begin(id string) error {
	return s.repo.SetStatus(id, StatusRunning)
}

// Finish completes a run
func (s *Service) Finish(id string) error {
	if err := s.repo.Finish(id, time.Now()); err != nil {
		return err
	}
	if s.bus != nil {
		s.bus.Publish(&events.RunFinishedData{RunID: id, Status: string(StatusFinished)})
	}
	return nil
}

// Fail records a failed run together with its fault catalog code
func (s *Service) Fail(id string, faultCode int) error {
	if err := s.repo.Fail(id, faultCode, time.Now()); err != nil {
		return err
	}
	if s.bus != nil {
		s.bus.Publish(&events.RunFinishedData{
			RunID:     id,
			Status:    string(StatusFailed),
			FaultCode: faultCode,
		})
	}
	return nil
}

// Reproduce replays a stored run's seed keys through the seeder, putting
// the generator in the exact state the original run started from.
func (s *Service) Reproduce(id string, seeder *rng.Seeder) (*Run, error) {
	run, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}

	if err := seeder.SeedExplicit(run.SeedKeys); err != nil {
		return nil, fmt.Errorf("failed to replay seed keys for run %s: %w", id, err)
	}

	s.log.Info().
		Str("run_id", id).
		Int("num_keys", len(run.SeedKeys)).
		Msg("Replayed run seed keys")

	if s.bus != nil {
		s.bus.Publish(&events.SeedAppliedData{NumKeys: len(run.SeedKeys), Explicit: true})
	}

	return run, nil
}
