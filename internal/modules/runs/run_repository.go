package runs

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/qsim/pkg/algebra"
)

// ErrNotFound is returned when a run id has no manifest row
var ErrNotFound = errors.New("run not found")

// RunRepository handles run manifest database operations
type RunRepository struct {
	db  *sql.DB // runs.db
	log zerolog.Logger
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sql.DB, log zerolog.Logger) *RunRepository {
	return &RunRepository{
		db:  db,
		log: log.With().Str("repo", "runs").Logger(),
	}
}

// Create inserts a new run row. Seed keys are stored msgpack-encoded so
// the exact key array survives round trips.
func (r *RunRepository) Create(run *Run) error {
	keys, err := msgpack.Marshal(run.SeedKeys)
	if err != nil {
		return fmt.Errorf("failed to encode seed keys: %w", err)
	}

	_, err = r.db.Exec(`INSERT INTO runs
		(id, label, num_qubits, num_chunks, chunk_id, precision, seed_keys, status, fault_code, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Label, run.NumQubits, run.NumChunks, run.ChunkID,
		string(run.Precision), keys, string(run.Status), run.FaultCode,
		run.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	return nil
}

// Get returns one run by id
func (r *RunRepository) Get(id string) (*Run, error) {
	row := r.db.QueryRow(`SELECT id, label, num_qubits, num_chunks, chunk_id,
		precision, seed_keys, status, fault_code, created_at, finished_at
		FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return run, nil
}

// List returns the most recent runs, newest first
func (r *RunRepository) List(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(`SELECT id, label, num_qubits, num_chunks, chunk_id,
		precision, seed_keys, status, fault_code, created_at, finished_at
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var result []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		result = append(result, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return result, nil
}

// SetStatus moves a run to a new lifecycle state
func (r *RunRepository) SetStatus(id string, status RunStatus) error {
	return r.update(id, `UPDATE runs SET status = ? WHERE id = ?`, string(status), id)
}

// Finish marks a run finished and stamps the completion time
func (r *RunRepository) Finish(id string, at time.Time) error {
	return r.update(id, `UPDATE runs SET status = ?, finished_at = ? WHERE id = ?`,
		string(StatusFinished), at.UTC().Format(time.RFC3339Nano), id)
}

// Fail marks a run failed with its fault catalog code
func (r *RunRepository) Fail(id string, faultCode int, at time.Time) error {
	return r.update(id, `UPDATE runs SET status = ?, fault_code = ?, finished_at = ? WHERE id = ?`,
		string(StatusFailed), faultCode, at.UTC().Format(time.RFC3339Nano), id)
}

func (r *RunRepository) update(id, query string, args ...interface{}) error {
	res, err := r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update run %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for run %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		run        Run
		precision  string
		status     string
		keys       []byte
		createdAt  string
		finishedAt sql.NullString
	)

	err := s.Scan(&run.ID, &run.Label, &run.NumQubits, &run.NumChunks, &run.ChunkID,
		&precision, &keys, &status, &run.FaultCode, &createdAt, &finishedAt)
	if err != nil {
		return nil, err
	}

	if err := msgpack.Unmarshal(keys, &run.SeedKeys); err != nil {
		return nil, fmt.Errorf("failed to decode seed keys: %w", err)
	}

	run.Precision = algebra.Precision(precision)
	run.Status = RunStatus(status)

	run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	if finishedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse finished_at: %w", err)
		}
		run.FinishedAt = &t
	}

	return &run, nil
}
