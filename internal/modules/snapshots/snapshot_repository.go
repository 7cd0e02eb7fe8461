// Package snapshots persists register state to disk, indexes the
// artifacts in the manifest database, and optionally mirrors them to an
// S3-compatible object store.
package snapshots

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Snapshot formats
const (
	FormatCSV     = "csv"
	FormatMsgpack = "msgpack"
)

// Record is one indexed snapshot artifact
type Record struct {
	ID        string
	RunID     string
	ChunkID   int
	Format    string
	LocalPath string
	RemoteKey string
	SizeBytes int64
	CreatedAt time.Time
}

// SnapshotRepository handles snapshot index database operations
type SnapshotRepository struct {
	db  *sql.DB // runs.db
	log zerolog.Logger
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *sql.DB, log zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		db:  db,
		log: log.With().Str("repo", "snapshots").Logger(),
	}
}

// Create inserts a new snapshot row
func (r *SnapshotRepository) Create(rec *Record) error {
	_, err := r.db.Exec(`INSERT INTO snapshots
		(id, run_id, chunk_id, format, local_path, remote_key, size_bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RunID, rec.ChunkID, rec.Format, rec.LocalPath,
		rec.RemoteKey, rec.SizeBytes, rec.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert snapshot %s: %w", rec.ID, err)
	}
	return nil
}

// ClearRemoteKey drops the remote reference from any rows pointing at
// a deleted object
func (r *SnapshotRepository) ClearRemoteKey(key string) error {
	_, err := r.db.Exec(`UPDATE snapshots SET remote_key = '' WHERE remote_key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to clear remote key %s: %w", key, err)
	}
	return nil
}

// ListByRun returns a run's snapshots, newest first
func (r *SnapshotRepository) ListByRun(runID string) ([]*Record, error) {
	rows, err := r.db.Query(`SELECT id, run_id, chunk_id, format, local_path,
		remote_key, size_bytes, created_at
		FROM snapshots WHERE run_id = ? ORDER BY created_at DESC`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots for run %s: %w", runID, err)
	}
	defer rows.Close()

	var result []*Record
	for rows.Next() {
		var (
			rec       Record
			createdAt string
		)
		err := rows.Scan(&rec.ID, &rec.RunID, &rec.ChunkID, &rec.Format,
			&rec.LocalPath, &rec.RemoteKey, &rec.SizeBytes, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		result = append(result, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return result, nil
}
