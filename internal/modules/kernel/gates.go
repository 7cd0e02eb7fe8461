package kernel

import (
	"math"

	"github.com/aristath/qsim/internal/modules/register"
	"github.com/aristath/qsim/pkg/algebra"
)

// The named gates below are thin wrappers: rotations decompose into an
// (alpha, beta) pair and phase gates select a fixed unit term, then both
// delegate to the validated kernels.

// RotateAroundAxis rotates the target qubit by angle about an arbitrary
// axis.
func (b *Backend) RotateAroundAxis(reg *register.Register, target int, angle float64, axis algebra.Vector) error {
	alpha, beta := algebra.DecomposeRotation(angle, axis)
	return b.compactUnitary(reg, target, alpha, beta, "rotateAroundAxis")
}

// RotateAroundAxisConj applies the conjugated rotation pair.
func (b *Backend) RotateAroundAxisConj(reg *register.Register, target int, angle float64, axis algebra.Vector) error {
	alpha, beta := algebra.DecomposeRotationConj(angle, axis)
	return b.compactUnitary(reg, target, alpha, beta, "rotateAroundAxisConj")
}

// RotateX rotates the target qubit about the x axis.
func (b *Backend) RotateX(reg *register.Register, target int, angle float64) error {
	return b.RotateAroundAxis(reg, target, angle, algebra.XAxis)
}

// RotateY rotates the target qubit about the y axis.
func (b *Backend) RotateY(reg *register.Register, target int, angle float64) error {
	return b.RotateAroundAxis(reg, target, angle, algebra.YAxis)
}

// RotateZ rotates the target qubit about the z axis.
func (b *Backend) RotateZ(reg *register.Register, target int, angle float64) error {
	return b.RotateAroundAxis(reg, target, angle, algebra.ZAxis)
}

// ControlledRotateAroundAxis rotates the target only where the control
// qubit is 1.
func (b *Backend) ControlledRotateAroundAxis(reg *register.Register, control, target int, angle float64, axis algebra.Vector) error {
	alpha, beta := algebra.DecomposeControlledRotation(angle, axis)
	return b.controlledCompactUnitary(reg, control, target, alpha, beta, "controlledRotateAroundAxis")
}

// ControlledRotateAroundAxisConj is the conjugated controlled rotation.
func (b *Backend) ControlledRotateAroundAxisConj(reg *register.Register, control, target int, angle float64, axis algebra.Vector) error {
	alpha, beta := algebra.DecomposeControlledRotationConj(angle, axis)
	return b.controlledCompactUnitary(reg, control, target, alpha, beta, "controlledRotateAroundAxisConj")
}

// ControlledRotateX is the controlled x-axis rotation.
func (b *Backend) ControlledRotateX(reg *register.Register, control, target int, angle float64) error {
	return b.ControlledRotateAroundAxis(reg, control, target, angle, algebra.XAxis)
}

// ControlledRotateY is the controlled y-axis rotation.
func (b *Backend) ControlledRotateY(reg *register.Register, control, target int, angle float64) error {
	return b.ControlledRotateAroundAxis(reg, control, target, angle, algebra.YAxis)
}

// ControlledRotateZ is the controlled z-axis rotation.
func (b *Backend) ControlledRotateZ(reg *register.Register, control, target int, angle float64) error {
	return b.ControlledRotateAroundAxis(reg, control, target, angle, algebra.ZAxis)
}

// PhaseShift rotates the phase of the target qubit's |1> amplitudes by
// angle.
func (b *Backend) PhaseShift(reg *register.Register, target int, angle float64) error {
	term := algebra.Complex{Real: math.Cos(angle), Imag: math.Sin(angle)}
	return b.PhaseShiftByTerm(reg, target, term)
}

// SigmaZ applies the Pauli Z gate.
func (b *Backend) SigmaZ(reg *register.Register, target int) error {
	return b.PhaseShiftByTerm(reg, target, algebra.Complex{Real: -1})
}

// SGate applies the S (quarter-turn phase) gate.
func (b *Backend) SGate(reg *register.Register, target int) error {
	return b.PhaseShiftByTerm(reg, target, algebra.Complex{Imag: 1})
}

// TGate applies the T (eighth-turn phase) gate.
func (b *Backend) TGate(reg *register.Register, target int) error {
	return b.PhaseShiftByTerm(reg, target, algebra.Complex{Real: 1 / math.Sqrt2, Imag: 1 / math.Sqrt2})
}

// SGateConj applies the inverse S gate.
func (b *Backend) SGateConj(reg *register.Register, target int) error {
	return b.PhaseShiftByTerm(reg, target, algebra.Complex{Imag: -1})
}

// TGateConj applies the inverse T gate.
func (b *Backend) TGateConj(reg *register.Register, target int) error {
	return b.PhaseShiftByTerm(reg, target, algebra.Complex{Real: 1 / math.Sqrt2, Imag: -1 / math.Sqrt2})
}

// InitZeroState resets the local partition to |00..0>. Only the
// partition holding global index zero carries the unit amplitude.
func InitZeroState(reg *register.Register) {
	for i := range reg.Real {
		reg.Real[i] = 0
		reg.Imag[i] = 0
	}
	if reg.Partition.GlobalStart() == 0 {
		reg.Real[0] = 1
	}
}

// InitPlusState sets every amplitude to 1/sqrt(2^numQubits), the
// uniform superposition.
func InitPlusState(reg *register.Register) {
	amp := 1 / math.Sqrt(float64(reg.NumAmps()))
	for i := range reg.Real {
		reg.Real[i] = amp
		reg.Imag[i] = 0
	}
}

// LocalProbability sums |amp|^2 over the local partition. For a
// single-chunk register this is the total probability; distributed runs
// reduce the per-chunk sums externally.
func LocalProbability(reg *register.Register) float64 {
	var total float64
	for i := range reg.Real {
		total += reg.Real[i]*reg.Real[i] + reg.Imag[i]*reg.Imag[i]
	}
	return total
}
