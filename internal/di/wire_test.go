package di

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/qsim/internal/config"
	"github.com/aristath/qsim/pkg/algebra"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir:   t.TempDir(),
		NumQubits: 2,
		NumChunks: 1,
		ChunkID:   0,
		Precision: algebra.PrecisionDouble,
		Port:      8001,
	}
}

func TestWire(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)

	container, sched, err := Wire(testConfig(t), log)
	require.NoError(t, err)
	defer container.Close()

	assert.NotNil(t, container.RunsDB)
	assert.NotNil(t, container.RunRepo)
	assert.NotNil(t, container.SnapshotRepo)
	assert.NotNil(t, container.Bus)
	assert.NotNil(t, container.RandomSource)
	assert.NotNil(t, container.Seeder)
	assert.NotNil(t, container.QuantumService)
	assert.NotNil(t, container.SnapshotService)
	assert.NotNil(t, container.RunService)
	assert.NotNil(t, sched)

	// No mirror configured
	assert.Nil(t, container.ObjectStore)

	// The session starts in the configured geometry
	assert.Equal(t, 2, container.QuantumService.NumQubits())
}

func TestWireCarriesChunkGeometryToSession(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)

	cfg := testConfig(t)
	cfg.NumQubits = 3
	cfg.NumChunks = 4
	cfg.ChunkID = 2

	container, _, err := Wire(cfg, log)
	require.NoError(t, err)
	defer container.Close()

	reg, _, ok := container.QuantumService.CurrentState()
	require.True(t, ok)
	assert.Equal(t, 4, reg.Partition.NumChunks)
	assert.Equal(t, 2, reg.Partition.ChunkID)
}

func TestWireWithExplicitSeed(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)

	cfg := testConfig(t)
	cfg.SeedKeys = []uint64{42, 7}

	container, _, err := Wire(cfg, log)
	require.NoError(t, err)
	defer container.Close()

	// A second container with the same keys produces the same stream
	other, _, err := Wire(testConfig(t), log)
	require.NoError(t, err)
	defer other.Close()
	require.NoError(t, other.Seeder.SeedExplicit([]uint64{42, 7}))

	for i := 0; i < 8; i++ {
		assert.Equal(t, other.RandomSource.Uint64(), container.RandomSource.Uint64())
	}
}

func TestWireWithSnapshotSchedule(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)

	cfg := testConfig(t)
	cfg.SnapshotSchedule = "0 */5 * * * *"

	container, sched, err := Wire(cfg, log)
	require.NoError(t, err)
	defer container.Close()

	assert.NotNil(t, sched)
}

func TestWireRejectsBadSchedule(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)

	cfg := testConfig(t)
	cfg.SnapshotSchedule = "not a schedule"

	_, _, err := Wire(cfg, log)
	assert.Error(t, err)
}
