// Package quantum owns the live simulation session: one register, the
// gate backend that acts on it, and the run it is attached to. All
// access goes through the service so concurrent HTTP requests see a
// consistent state.
package quantum

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aristath/qsim/internal/modules/kernel"
	"github.com/aristath/qsim/internal/modules/register"
	"github.com/aristath/qsim/pkg/algebra"
)

// Service is the live simulation session
type Service struct {
	mu      sync.Mutex
	backend *kernel.Backend
	reg     *register.Register
	runID   string
	prec    algebra.Precision
	log     zerolog.Logger
}

// NewService creates a session with an initial register in the zero
// state. The chunk geometry is the node's distributed identity: a node
// configured as chunk k of n holds exactly its slice of the state
// vector, and the kernel refuses gates that would need amplitudes from
// other chunks.
func NewService(numQubits, numChunks, chunkID int, prec algebra.Precision, log zerolog.Logger) (*Service, error) {
	reg, err := register.New(numQubits, numChunks, chunkID)
	if err != nil {
		return nil, err
	}
	kernel.InitZeroState(reg)

	return &Service{
		backend: kernel.NewBackend(prec, log),
		reg:     reg,
		prec:    prec,
		log:     log.With().Str("service", "quantum").Logger(),
	}, nil
}

// Reset replaces the register with a fresh zero state of the given
// size. The session's chunk geometry is kept; only the qubit count
// changes.
func (s *Service) Reset(numQubits int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := register.New(numQubits, s.reg.Partition.NumChunks, s.reg.Partition.ChunkID)
	if err != nil {
		return err
	}
	kernel.InitZeroState(reg)

	s.reg = reg
	s.log.Info().Int("num_qubits", numQubits).Msg("Register reset")
	return nil
}

// InitZero resets all amplitudes to |00..0>
func (s *Service) InitZero() {
	s.mu.Lock()
	defer s.mu.Unlock()
	kernel.InitZeroState(s.reg)
}

// InitPlus sets the uniform superposition
func (s *Service) InitPlus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	kernel.InitPlusState(s.reg)
}

// AttachRun ties the session to a manifest run id
func (s *Service) AttachRun(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runID = runID
}

// DetachRun clears the run association
func (s *Service) DetachRun() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runID = ""
}

// CurrentState exposes the live register for the snapshot job. ok is
// false before the first register exists.
func (s *Service) CurrentState() (*register.Register, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reg == nil {
		return nil, "", false
	}
	return s.reg, s.runID, true
}

// NumQubits returns the register size
func (s *Service) NumQubits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.NumQubits()
}

// Rotate applies an axis rotation; conj selects the conjugated pair
func (s *Service) Rotate(target int, angle float64, axis algebra.Vector, conj bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conj {
		return s.backend.RotateAroundAxisConj(s.reg, target, angle, axis)
	}
	return s.backend.RotateAroundAxis(s.reg, target, angle, axis)
}

// ControlledRotate applies a controlled axis rotation
func (s *Service) ControlledRotate(control, target int, angle float64, axis algebra.Vector, conj bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conj {
		return s.backend.ControlledRotateAroundAxisConj(s.reg, control, target, angle, axis)
	}
	return s.backend.ControlledRotateAroundAxis(s.reg, control, target, angle, axis)
}

// CompactUnitary applies the (alpha, beta) unitary
func (s *Service) CompactUnitary(target int, alpha, beta algebra.Complex) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.CompactUnitary(s.reg, target, alpha, beta)
}

// ControlledCompactUnitary applies the controlled (alpha, beta) unitary
func (s *Service) ControlledCompactUnitary(control, target int, alpha, beta algebra.Complex) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.ControlledCompactUnitary(s.reg, control, target, alpha, beta)
}

// Unitary applies a general validated 2x2 matrix
func (s *Service) Unitary(target int, m algebra.Matrix2) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Unitary(s.reg, target, m)
}

// PhaseShift rotates the target's |1> phase by angle
func (s *Service) PhaseShift(target int, angle float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.PhaseShift(s.reg, target, angle)
}

// NamedGate applies one of the fixed gates by name
func (s *Service) NamedGate(name string, target int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch strings.ToLower(name) {
	case "z", "sigmaz":
		return s.backend.SigmaZ(s.reg, target)
	case "s":
		return s.backend.SGate(s.reg, target)
	case "t":
		return s.backend.TGate(s.reg, target)
	case "sdg", "s_conj":
		return s.backend.SGateConj(s.reg, target)
	case "tdg", "t_conj":
		return s.backend.TGateConj(s.reg, target)
	default:
		return fmt.Errorf("unknown gate %q", name)
	}
}

// Probabilities returns |amp|^2 per basis state
func (s *Service) Probabilities() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	probs := make([]float64, len(s.reg.Real))
	for i := range probs {
		probs[i] = s.reg.ProbabilityAt(int64(i))
	}
	return probs
}

// TotalProbability sums the local probabilities; ~1 for a healthy state
func (s *Service) TotalProbability() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return kernel.LocalProbability(s.reg)
}

// Params returns the geometry report text
func (s *Service) Params() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder
	s.reg.ReportParams(&sb)
	return sb.String()
}
