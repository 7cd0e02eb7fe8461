// Package runs records simulation runs in the manifest database. A run
// row carries everything needed to reproduce the run: register geometry,
// precision, and the exact seed keys fed to the generator.
package runs

import (
	"time"

	"github.com/aristath/qsim/pkg/algebra"
)

// RunStatus is the lifecycle state of a run
type RunStatus string

const (
	StatusCreated  RunStatus = "created"
	StatusRunning  RunStatus = "running"
	StatusFinished RunStatus = "finished"
	StatusFailed   RunStatus = "failed"
)

// Run is one manifest row
type Run struct {
	ID         string
	Label      string
	NumQubits  int
	NumChunks  int
	ChunkID    int
	Precision  algebra.Precision
	SeedKeys   []uint64
	Status     RunStatus
	FaultCode  int
	CreatedAt  time.Time
	FinishedAt *time.Time
}

// NewRunParams are the caller-supplied fields of a new run
type NewRunParams struct {
	Label     string
	NumQubits int
	NumChunks int
	ChunkID   int
	Precision algebra.Precision
	SeedKeys  []uint64
}
