// Package register models how a state vector of 2^numQubits amplitudes
// is partitioned across cooperating processes, and the query and report
// operations over the local partition. The buffers belong to this
// process alone; mutation happens only in the gate kernels.
package register

import (
	"github.com/aristath/qsim/internal/modules/faults"
)

// Partition describes this process's slice of the global state vector:
// which chunk it owns out of how many, and how many amplitudes each
// chunk holds. It is immutable after allocation.
type Partition struct {
	NumChunks       int
	ChunkID         int
	NumAmpsPerChunk int64
}

// IsDesignatedReporter reports whether this partition is the single
// chunk responsible for global-scope side effects. Any report keyed on
// global properties (parameter printout, CSV header, randomness
// ownership) must run on exactly one partition, or concurrent processes
// would emit duplicated or inconsistent output. That partition is chunk
// zero, and every call site asks this method instead of comparing ids.
func (p Partition) IsDesignatedReporter() bool {
	return p.ChunkID == 0
}

// GlobalStart returns the global index of the first locally held
// amplitude. The local buffers cover [GlobalStart, GlobalStart+NumAmpsPerChunk).
func (p Partition) GlobalStart() int64 {
	return int64(p.ChunkID) * p.NumAmpsPerChunk
}

// Register is the process-local view of a distributed state vector. The
// parallel Real/Imag arrays hold exactly the amplitudes whose global
// index falls inside the partition's range.
type Register struct {
	QubitCount int
	Partition  Partition
	Real       []float64
	Imag       []float64
}

// New allocates the local partition of a numQubits register split over
// numChunks cooperating processes. The chunk geometry must divide the
// state vector exactly: numAmpsPerChunk * numChunks == 2^numQubits.
func New(numQubits, numChunks, chunkID int) (*Register, error) {
	if err := faults.Check(numQubits > 0, faults.InvalidQubitCount, "createRegister"); err != nil {
		return nil, err
	}
	numAmps := int64(1) << uint(numQubits)
	if err := faults.Check(
		numChunks > 0 && numAmps%int64(numChunks) == 0,
		faults.DimensionMismatch, "createRegister",
	); err != nil {
		return nil, err
	}
	if err := faults.Check(
		chunkID >= 0 && chunkID < numChunks,
		faults.DimensionMismatch, "createRegister",
	); err != nil {
		return nil, err
	}

	perChunk := numAmps / int64(numChunks)
	return &Register{
		QubitCount: numQubits,
		Partition: Partition{
			NumChunks:       numChunks,
			ChunkID:         chunkID,
			NumAmpsPerChunk: perChunk,
		},
		Real: make([]float64, perChunk),
		Imag: make([]float64, perChunk),
	}, nil
}

// NumQubits returns the qubit count of the global register.
func (r *Register) NumQubits() int {
	return r.QubitCount
}

// NumAmps returns the total amplitude count across all chunks.
func (r *Register) NumAmps() int64 {
	return r.Partition.NumAmpsPerChunk * int64(r.Partition.NumChunks)
}

// RealAmp returns the real part of the amplitude at a local index.
func (r *Register) RealAmp(localIndex int64) float64 {
	return r.Real[localIndex]
}

// ImagAmp returns the imaginary part of the amplitude at a local index.
func (r *Register) ImagAmp(localIndex int64) float64 {
	return r.Imag[localIndex]
}

// ProbabilityAt returns |amp|^2 for the amplitude at localIndex. The
// index addresses this process's partition only; out-of-range indices
// are a caller error.
func (r *Register) ProbabilityAt(localIndex int64) float64 {
	re := r.Real[localIndex]
	im := r.Imag[localIndex]
	return re*re + im*im
}
