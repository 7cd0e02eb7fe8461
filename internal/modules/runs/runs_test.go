package runs

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/qsim/internal/database"
	"github.com/aristath/qsim/internal/events"
	"github.com/aristath/qsim/internal/modules/faults"
	"github.com/aristath/qsim/internal/modules/rng"
)

func newTestRepo(t *testing.T) *RunRepository {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), "runs.db"),
		Profile: database.ProfileRuns,
		Name:    "runs",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	return NewRunRepository(db.Conn(), zerolog.New(nil).Level(zerolog.Disabled))
}

func newTestService(t *testing.T) (*Service, *events.Bus) {
	t.Helper()
	log := zerolog.New(nil).Level(zerolog.Disabled)
	bus := events.NewBus(log)
	return NewService(newTestRepo(t), bus, log), bus
}

func TestRepositoryRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(NewRunParams{
		Label:     "bell pair prep",
		NumQubits: 4,
		NumChunks: 2,
		ChunkID:   1,
		Precision: "double",
		SeedKeys:  []uint64{5381, 42, 7},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "bell pair prep", got.Label)
	assert.Equal(t, 4, got.NumQubits)
	assert.Equal(t, 2, got.NumChunks)
	assert.Equal(t, 1, got.ChunkID)
	assert.Equal(t, []uint64{5381, 42, 7}, got.SeedKeys)
	assert.Equal(t, StatusCreated, got.Status)
	assert.Nil(t, got.FinishedAt)
}

func TestRunLifecycle(t *testing.T) {
	svc, _ := newTestService(t)

	run, err := svc.Create(NewRunParams{NumQubits: 2, NumChunks: 1, SeedKeys: []uint64{1}})
	require.NoError(t, err)

	require.NoError(t, svc.Begin(run.ID))
	got, err := svc.Get(run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, got.Status)

	require.NoError(t, svc.Finish(run.ID))
	got, err = svc.Get(run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, got.Status)
	require.NotNil(t, got.FinishedAt)
}

func TestFailRecordsFaultCode(t *testing.T) {
	svc, _ := newTestService(t)

	run, err := svc.Create(NewRunParams{NumQubits: 2, NumChunks: 1, SeedKeys: []uint64{1}})
	require.NoError(t, err)

	require.NoError(t, svc.Fail(run.ID, faults.InvalidUnitaryMatrix.ExitCode()))

	got, err := svc.Get(run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, faults.InvalidUnitaryMatrix.ExitCode(), got.FaultCode)
}

func TestGetUnknownRun(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get("no-such-run")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Begin("no-such-run"), ErrNotFound)
}

func TestCreateRejectsBadGeometry(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(NewRunParams{NumQubits: 0, NumChunks: 1, SeedKeys: []uint64{1}})
	var f *faults.Fault
	require.ErrorAs(t, err, &f)
	assert.Equal(t, faults.InvalidQubitCount, f.Kind)

	// 3 chunks do not divide 2^2 amplitudes
	_, err = svc.Create(NewRunParams{NumQubits: 2, NumChunks: 3, SeedKeys: []uint64{1}})
	assert.Error(t, err)

	_, err = svc.Create(NewRunParams{NumQubits: 2, NumChunks: 1})
	assert.Error(t, err, "empty seed keys rejected")
}

func TestListNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(NewRunParams{NumQubits: 2, NumChunks: 1, SeedKeys: []uint64{uint64(i + 1)}})
		require.NoError(t, err)
	}

	listed, err := svc.List(2)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestReproduceReplaysSeedKeys(t *testing.T) {
	svc, _ := newTestService(t)
	log := zerolog.New(nil).Level(zerolog.Disabled)

	keys := []uint64{1724500000123, 4242, rng.HashString("qnode-0")}
	run, err := svc.Create(NewRunParams{NumQubits: 3, NumChunks: 1, SeedKeys: keys})
	require.NoError(t, err)

	// A fresh generator seeded by reproduction matches one seeded
	// directly with the same keys.
	reproduced := rng.NewSource()
	_, err = svc.Reproduce(run.ID, rng.NewSeeder(reproduced, log))
	require.NoError(t, err)

	direct := rng.NewSource()
	require.NoError(t, rng.NewSeeder(direct, log).SeedExplicit(keys))

	for i := 0; i < 16; i++ {
		assert.Equal(t, direct.Uint64(), reproduced.Uint64())
	}
}

func TestLifecycleEventsPublished(t *testing.T) {
	svc, bus := newTestService(t)

	var created []*events.Event
	var finished []*events.Event
	bus.Subscribe(events.RunCreated, func(e *events.Event) { created = append(created, e) })
	bus.Subscribe(events.RunFinished, func(e *events.Event) { finished = append(finished, e) })

	run, err := svc.Create(NewRunParams{NumQubits: 2, NumChunks: 1, SeedKeys: []uint64{9}})
	require.NoError(t, err)
	require.NoError(t, svc.Finish(run.ID))

	require.Len(t, created, 1)
	data, ok := created[0].Data.(*events.RunCreatedData)
	require.True(t, ok)
	assert.Equal(t, run.ID, data.RunID)

	require.Len(t, finished, 1)
}
