// Package kernel is the process-local gate backend: it applies prepared
// single-qubit unitaries, controlled unitaries and phase terms to the
// amplitudes of the local partition. Preconditions are checked through
// the fault catalog before any amplitude is touched, so a rejected call
// leaves the register untouched.
package kernel

import (
	"fmt"

	"github.com/aristath/qsim/internal/modules/faults"
	"github.com/aristath/qsim/internal/modules/register"
	"github.com/aristath/qsim/pkg/algebra"
	"github.com/rs/zerolog"
)

// Backend applies gates to a register at a configured precision. It is
// synchronous and single-threaded; the register's buffers are owned by
// this process, so no locking is involved.
type Backend struct {
	eps float64
	log zerolog.Logger
}

// NewBackend creates a local gate backend with the precision's
// validation tolerance.
func NewBackend(prec algebra.Precision, log zerolog.Logger) *Backend {
	return &Backend{
		eps: prec.Eps(),
		log: log.With().Str("component", "kernel").Logger(),
	}
}

// localOnly rejects registers split across chunks: pairing amplitudes
// across the chunk boundary needs the communication backend, which is a
// separate collaborator.
func localOnly(reg *register.Register) error {
	if reg.Partition.NumChunks != 1 {
		return fmt.Errorf("local kernel cannot apply gates to a register split over %d chunks",
			reg.Partition.NumChunks)
	}
	return nil
}

func validTarget(reg *register.Register, target int, fn string) error {
	return faults.Check(target >= 0 && target < reg.NumQubits(), faults.InvalidTargetQubit, fn)
}

// CompactUnitary applies the (alpha, beta) unitary
//
//	[ alpha  -conj(beta) ]
//	[ beta    conj(alpha) ]
//
// to the target qubit of every amplitude pair.
func (b *Backend) CompactUnitary(reg *register.Register, target int, alpha, beta algebra.Complex) error {
	return b.compactUnitary(reg, target, alpha, beta, "compactUnitary")
}

func (b *Backend) compactUnitary(reg *register.Register, target int, alpha, beta algebra.Complex, fn string) error {
	if err := localOnly(reg); err != nil {
		return err
	}
	if err := validTarget(reg, target, fn); err != nil {
		return err
	}
	if err := faults.Check(algebra.IsValidAlphaBeta(alpha, beta, b.eps), faults.InvalidRotationArgs, fn); err != nil {
		return err
	}

	halfBlock := int64(1) << uint(target)
	block := halfBlock << 1
	numAmps := reg.Partition.NumAmpsPerChunk

	for base := int64(0); base < numAmps; base += block {
		for up := base; up < base+halfBlock; up++ {
			lo := up + halfBlock
			applyPair(reg, up, lo, alpha, beta)
		}
	}
	return nil
}

// ControlledCompactUnitary applies the (alpha, beta) unitary to the
// target qubit only where the single control qubit's basis value is 1.
// Multi-qubit control is out of scope for this backend.
func (b *Backend) ControlledCompactUnitary(reg *register.Register, control, target int, alpha, beta algebra.Complex) error {
	return b.controlledCompactUnitary(reg, control, target, alpha, beta, "controlledCompactUnitary")
}

func (b *Backend) controlledCompactUnitary(reg *register.Register, control, target int, alpha, beta algebra.Complex, fn string) error {
	if err := localOnly(reg); err != nil {
		return err
	}
	if err := validTarget(reg, target, fn); err != nil {
		return err
	}
	if err := faults.Check(control >= 0 && control < reg.NumQubits(), faults.InvalidControlQubit, fn); err != nil {
		return err
	}
	if err := faults.Check(control != target, faults.ControlEqualsTarget, fn); err != nil {
		return err
	}
	if err := faults.Check(algebra.IsValidAlphaBeta(alpha, beta, b.eps), faults.InvalidRotationArgs, fn); err != nil {
		return err
	}

	halfBlock := int64(1) << uint(target)
	block := halfBlock << 1
	numAmps := reg.Partition.NumAmpsPerChunk
	controlBit := int64(1) << uint(control)

	for base := int64(0); base < numAmps; base += block {
		for up := base; up < base+halfBlock; up++ {
			if up&controlBit == 0 {
				continue
			}
			lo := up + halfBlock
			applyPair(reg, up, lo, alpha, beta)
		}
	}
	return nil
}

// Unitary applies a general validated 2x2 unitary to the target qubit.
func (b *Backend) Unitary(reg *register.Register, target int, m algebra.Matrix2) error {
	const fn = "unitary"
	if err := localOnly(reg); err != nil {
		return err
	}
	if err := validTarget(reg, target, fn); err != nil {
		return err
	}
	if err := faults.Check(algebra.IsUnitaryMatrix(m, b.eps), faults.InvalidUnitaryMatrix, fn); err != nil {
		return err
	}

	halfBlock := int64(1) << uint(target)
	block := halfBlock << 1
	numAmps := reg.Partition.NumAmpsPerChunk

	for base := int64(0); base < numAmps; base += block {
		for up := base; up < base+halfBlock; up++ {
			lo := up + halfBlock

			ampUp := algebra.Complex{Real: reg.Real[up], Imag: reg.Imag[up]}
			ampLo := algebra.Complex{Real: reg.Real[lo], Imag: reg.Imag[lo]}

			newUp := m.R0C0.Mul(ampUp).Add(m.R0C1.Mul(ampLo))
			newLo := m.R1C0.Mul(ampUp).Add(m.R1C1.Mul(ampLo))

			reg.Real[up], reg.Imag[up] = newUp.Real, newUp.Imag
			reg.Real[lo], reg.Imag[lo] = newLo.Real, newLo.Imag
		}
	}
	return nil
}

// PhaseShiftByTerm multiplies every |1> amplitude of the target qubit
// by a unit-magnitude term. A non-unit term would leak or inject norm,
// hence the dedicated fault kind.
func (b *Backend) PhaseShiftByTerm(reg *register.Register, target int, term algebra.Complex) error {
	const fn = "phaseShift"
	if err := localOnly(reg); err != nil {
		return err
	}
	if err := validTarget(reg, target, fn); err != nil {
		return err
	}
	if err := faults.Check(algebra.IsUnitComplex(term, b.eps), faults.NonUnitaryPhaseShift, fn); err != nil {
		return err
	}

	targetBit := int64(1) << uint(target)
	numAmps := reg.Partition.NumAmpsPerChunk

	for i := int64(0); i < numAmps; i++ {
		if i&targetBit == 0 {
			continue
		}
		amp := algebra.Complex{Real: reg.Real[i], Imag: reg.Imag[i]}.Mul(term)
		reg.Real[i], reg.Imag[i] = amp.Real, amp.Imag
	}
	return nil
}

// applyPair rotates one (up, lo) amplitude pair by the compact unitary.
func applyPair(reg *register.Register, up, lo int64, alpha, beta algebra.Complex) {
	reUp, imUp := reg.Real[up], reg.Imag[up]
	reLo, imLo := reg.Real[lo], reg.Imag[lo]

	reg.Real[up] = alpha.Real*reUp - alpha.Imag*imUp - beta.Real*reLo - beta.Imag*imLo
	reg.Imag[up] = alpha.Real*imUp + alpha.Imag*reUp - beta.Real*imLo + beta.Imag*reLo
	reg.Real[lo] = beta.Real*reUp - beta.Imag*imUp + alpha.Real*reLo + alpha.Imag*imLo
	reg.Imag[lo] = beta.Real*imUp + beta.Imag*reUp + alpha.Real*imLo - alpha.Imag*reLo
}
