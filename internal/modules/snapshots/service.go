package snapshots

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/qsim/internal/events"
	"github.com/aristath/qsim/internal/modules/register"
	"github.com/aristath/qsim/pkg/algebra"
)

// ErrNoObjectStore is returned by the remote artifact operations when
// no object store is configured.
var ErrNoObjectStore = errors.New("no object store configured")

// StateBlob is the msgpack snapshot payload: enough to rebuild the
// local partition exactly.
type StateBlob struct {
	RunID     string    `msgpack:"run_id"`
	NumQubits int       `msgpack:"num_qubits"`
	NumChunks int       `msgpack:"num_chunks"`
	ChunkID   int       `msgpack:"chunk_id"`
	TakenAt   time.Time `msgpack:"taken_at"`
	Real      []float64 `msgpack:"real"`
	Imag      []float64 `msgpack:"imag"`
}

// Service writes snapshot artifacts and keeps the index current
type Service struct {
	repo    *SnapshotRepository
	store   *ObjectStore // nil when no object store is configured
	bus     *events.Bus
	dataDir string
	prec    algebra.Precision
	log     zerolog.Logger
}

// NewService creates a snapshot service. store may be nil; uploads are
// then skipped.
func NewService(
	repo *SnapshotRepository,
	store *ObjectStore,
	bus *events.Bus,
	dataDir string,
	prec algebra.Precision,
	log zerolog.Logger,
) *Service {
	return &Service{
		repo:    repo,
		store:   store,
		bus:     bus,
		dataDir: dataDir,
		prec:    prec,
		log:     log.With().Str("service", "snapshots").Logger(),
	}
}

// WriteCSV writes the per-chunk state CSV and indexes it
func (s *Service) WriteCSV(runID string, reg *register.Register) (*Record, error) {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := reg.WriteState(s.dataDir, s.prec); err != nil {
		return nil, err
	}

	path := filepath.Join(s.dataDir, reg.StateFileName())
	rec, err := s.index(runID, reg.Partition.ChunkID, FormatCSV, path, "")
	if err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(&events.StateReportedData{
			ChunkID: reg.Partition.ChunkID,
			Path:    path,
		})
	}

	return rec, nil
}

// Snapshot encodes the local partition as a msgpack blob, writes it
// beside the CSV artifacts, and uploads it when an object store is
// configured.
func (s *Service) Snapshot(ctx context.Context, runID string, reg *register.Register) (*Record, error) {
	takenAt := time.Now()
	blob := StateBlob{
		RunID:     runID,
		NumQubits: reg.NumQubits(),
		NumChunks: reg.Partition.NumChunks,
		ChunkID:   reg.Partition.ChunkID,
		TakenAt:   takenAt,
		Real:      reg.Real,
		Imag:      reg.Imag,
	}

	encoded, err := msgpack.Marshal(&blob)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	name := fmt.Sprintf("snapshot_rank_%d_%s.mp", reg.Partition.ChunkID,
		takenAt.UTC().Format("2006-01-02-150405"))
	path := filepath.Join(s.dataDir, name)

	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return nil, fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}

	remoteKey := ""
	uploaded := false
	if s.store != nil {
		remoteKey = remoteKeyFor(runID, name)
		if err := s.store.Upload(ctx, remoteKey, bytes.NewReader(encoded)); err != nil {
			// The local artifact is intact; keep going without the mirror
			s.log.Error().Err(err).Str("key", remoteKey).Msg("Snapshot upload failed")
			remoteKey = ""
		} else {
			uploaded = true
		}
	}

	rec, err := s.index(runID, reg.Partition.ChunkID, FormatMsgpack, path, remoteKey)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("snapshot_id", rec.ID).
		Str("path", path).
		Bool("uploaded", uploaded).
		Msg("Snapshot written")

	if s.bus != nil {
		s.bus.Publish(&events.SnapshotWrittenData{
			SnapshotID: rec.ID,
			RunID:      runID,
			ChunkID:    reg.Partition.ChunkID,
			Format:     FormatMsgpack,
			Path:       path,
			Uploaded:   uploaded,
		})
	}

	return rec, nil
}

// Load decodes a msgpack snapshot back into a register
func (s *Service) Load(path string) (*register.Register, *StateBlob, error) {
	encoded, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	var blob StateBlob
	if err := msgpack.Unmarshal(encoded, &blob); err != nil {
		return nil, nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}

	reg, err := register.New(blob.NumQubits, blob.NumChunks, blob.ChunkID)
	if err != nil {
		return nil, nil, err
	}
	if int64(len(blob.Real)) != reg.Partition.NumAmpsPerChunk ||
		int64(len(blob.Imag)) != reg.Partition.NumAmpsPerChunk {
		return nil, nil, fmt.Errorf("snapshot %s amplitude count does not match its geometry", path)
	}

	copy(reg.Real, blob.Real)
	copy(reg.Imag, blob.Imag)
	return reg, &blob, nil
}

// ListByRun returns a run's indexed snapshots
func (s *Service) ListByRun(runID string) ([]*Record, error) {
	return s.repo.ListByRun(runID)
}

// ListRemote returns the mirrored artifacts, scoped to one run when
// runID is non-empty
func (s *Service) ListRemote(ctx context.Context, runID string) ([]RemoteObject, error) {
	if s.store == nil {
		return nil, ErrNoObjectStore
	}

	prefix := "snapshots/"
	if runID != "" {
		prefix = "snapshots/" + runID + "/"
	}
	return s.store.List(ctx, prefix)
}

// DeleteRemote removes one mirrored artifact and drops its reference
// from the index. The local copy stays.
func (s *Service) DeleteRemote(ctx context.Context, key string) error {
	if s.store == nil {
		return ErrNoObjectStore
	}

	if err := s.store.Delete(ctx, key); err != nil {
		return err
	}
	if err := s.repo.ClearRemoteKey(key); err != nil {
		return err
	}

	s.log.Info().Str("key", key).Msg("Remote snapshot deleted")
	return nil
}

func (s *Service) index(runID string, chunkID int, format, path, remoteKey string) (*Record, error) {
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	rec := &Record{
		ID:        uuid.NewString(),
		RunID:     runID,
		ChunkID:   chunkID,
		Format:    format,
		LocalPath: path,
		RemoteKey: remoteKey,
		SizeBytes: size,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func remoteKeyFor(runID, name string) string {
	if runID == "" {
		return "snapshots/" + name
	}
	return "snapshots/" + runID + "/" + name
}
