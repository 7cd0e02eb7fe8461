package register

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aristath/qsim/internal/modules/faults"
	"github.com/aristath/qsim/pkg/algebra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegisterGeometry(t *testing.T) {
	r, err := New(3, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, r.NumQubits())
	assert.Equal(t, int64(8), r.NumAmps())
	assert.Equal(t, int64(8), r.Partition.NumAmpsPerChunk)
	assert.Len(t, r.Real, 8)
	assert.Len(t, r.Imag, 8)
}

func TestNewRegisterSplitsAcrossChunks(t *testing.T) {
	r, err := New(3, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), r.Partition.NumAmpsPerChunk)
	assert.Equal(t, int64(8), r.NumAmps())
	assert.Equal(t, int64(4), r.Partition.GlobalStart())
}

func TestNewRegisterRejectsBadGeometry(t *testing.T) {
	var f *faults.Fault

	_, err := New(0, 1, 0)
	require.ErrorAs(t, err, &f)
	assert.Equal(t, faults.InvalidQubitCount, f.Kind)

	// 8 amps cannot be split over 3 chunks
	_, err = New(3, 3, 0)
	require.ErrorAs(t, err, &f)
	assert.Equal(t, faults.DimensionMismatch, f.Kind)

	// chunk id out of range
	_, err = New(3, 2, 2)
	require.ErrorAs(t, err, &f)
	assert.Equal(t, faults.DimensionMismatch, f.Kind)
}

func TestProbabilityAt(t *testing.T) {
	r, err := New(2, 1, 0)
	require.NoError(t, err)
	r.Real[1] = 0.6
	r.Imag[1] = 0.8

	assert.InDelta(t, 1.0, r.ProbabilityAt(1), 1e-13)
	assert.InDelta(t, 0.0, r.ProbabilityAt(0), 1e-13)
	assert.Equal(t, 0.6, r.RealAmp(1))
	assert.Equal(t, 0.8, r.ImagAmp(1))
}

func TestDesignatedReporterPolicy(t *testing.T) {
	assert.True(t, Partition{NumChunks: 4, ChunkID: 0}.IsDesignatedReporter())
	assert.False(t, Partition{NumChunks: 4, ChunkID: 1}.IsDesignatedReporter())
	assert.False(t, Partition{NumChunks: 4, ChunkID: 3}.IsDesignatedReporter())
}

func TestReportParamsOnlyFromDesignatedChunk(t *testing.T) {
	r, err := New(3, 2, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	r.ReportParams(&buf)
	out := buf.String()
	assert.Contains(t, out, "Number of qubits is 3.")
	assert.Contains(t, out, "Number of amps is 8.")
	assert.Contains(t, out, "Number of amps per rank is 4.")

	other, err := New(3, 2, 1)
	require.NoError(t, err)
	buf.Reset()
	other.ReportParams(&buf)
	assert.Empty(t, buf.String())
}

func TestWriteState(t *testing.T) {
	dir := t.TempDir()

	r, err := New(2, 1, 0)
	require.NoError(t, err)
	r.Real[0] = 1 / math.Sqrt2
	r.Imag[3] = -1 / math.Sqrt2

	require.NoError(t, r.WriteState(dir, algebra.PrecisionDouble))

	data, err := os.ReadFile(filepath.Join(dir, "state_rank_0.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "real, imag", lines[0])
	assert.Equal(t, "0.707106781187, 0.000000000000", lines[1])
	assert.Equal(t, "0.000000000000, -0.707106781187", lines[4])
}

func TestWriteStateNonDesignatedChunkOmitsHeader(t *testing.T) {
	dir := t.TempDir()

	r, err := New(2, 2, 1)
	require.NoError(t, err)
	require.NoError(t, r.WriteState(dir, algebra.PrecisionDouble))

	data, err := os.ReadFile(filepath.Join(dir, "state_rank_1.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2) // two local amplitudes, no header
	assert.Equal(t, "0.000000000000, 0.000000000000", lines[0])
}

func TestWriteStateFileOpenFault(t *testing.T) {
	r, err := New(1, 1, 0)
	require.NoError(t, err)

	err = r.WriteState(filepath.Join(t.TempDir(), "missing", "deeper"), algebra.PrecisionDouble)
	var f *faults.Fault
	require.ErrorAs(t, err, &f)
	assert.Equal(t, faults.FileOpenFailed, f.Kind)
}
