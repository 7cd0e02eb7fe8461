// Package faults defines the closed catalog of simulator fault kinds and
// the single fail-fast assertion path. Validators stay pure and return
// booleans; anything that turns a failed check into a hard stop goes
// through Check, which yields an error the outermost entry point can
// turn into a process exit.
package faults

import (
	"fmt"
	"io"
)

// Kind identifies one entry of the fault catalog. The numeric value
// doubles as the process exit status on fatal failure, so Success (0) is
// never used by a failure path.
type Kind int

const (
	Success Kind = iota
	InvalidTargetQubit
	InvalidControlQubit
	ControlEqualsTarget
	InvalidControlCount
	InvalidUnitaryMatrix
	InvalidRotationArgs
	SystemTooLargeToPrint
	ZeroProbabilityCollapse
	InvalidQubitCount
	InvalidMeasurementOutcome
	FileOpenFailed
	SecondArgMustBePureState
	DimensionMismatch
	DensityMatrixOnly
	PureStatesOnly
	NonUnitaryPhaseShift
)

// messages is ordered by Kind. The catalog is closed; lookups go through
// Kind.Message so an out-of-range kind can never index past the table.
var messages = [...]string{
	Success:                   "Success",
	InvalidTargetQubit:        "Invalid target qubit. Note qubits are zero indexed.",
	InvalidControlQubit:       "Invalid control qubit. Note qubits are zero indexed.",
	ControlEqualsTarget:       "Control qubit cannot equal target qubit.",
	InvalidControlCount:       "Invalid number of control qubits",
	InvalidUnitaryMatrix:      "Invalid unitary matrix.",
	InvalidRotationArgs:       "Invalid rotation arguments.",
	SystemTooLargeToPrint:     "Invalid system size. Cannot print output for systems greater than 5 qubits.",
	ZeroProbabilityCollapse:   "Can't collapse to state with zero probability.",
	InvalidQubitCount:         "Invalid number of qubits.",
	InvalidMeasurementOutcome: "Invalid measurement outcome -- must be either 0 or 1.",
	FileOpenFailed:            "Could not open file.",
	SecondArgMustBePureState:  "Second argument must be a pure state, not a density matrix.",
	DimensionMismatch:         "Dimensions of the qubit registers do not match.",
	DensityMatrixOnly:         "This operation is only defined for density matrices.",
	PureStatesOnly:            "This operation is only defined for two pure states.",
	NonUnitaryPhaseShift:      "An non-unitary internal operation (phaseShift) occured.",
}

// Message returns the fixed diagnostic text for the kind.
func (k Kind) Message() string {
	if k < Success || int(k) >= len(messages) {
		return fmt.Sprintf("Unknown fault kind %d.", int(k))
	}
	return messages[k]
}

// ExitCode returns the process exit status mandated for the kind.
func (k Kind) ExitCode() int {
	return int(k)
}

// Fault is a failed invariant check. It carries the kind and the name of
// the function whose precondition was violated.
type Fault struct {
	Kind Kind
	Fn   string
}

// Error implements the error interface.
func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s", f.Fn, f.Kind.Message())
}

// Check returns nil when ok holds, otherwise a *Fault for kind. Callers
// propagate the error; nothing below the cmd boundary terminates the
// process. Once a numerical precondition central to the simulation is
// violated, continuing would silently corrupt the state vector, so the
// error is expected to travel up unhandled.
func Check(ok bool, kind Kind, fn string) error {
	if ok {
		return nil
	}
	return &Fault{Kind: kind, Fn: fn}
}

// WriteBanner prints the bordered diagnostic for a fault. The format is
// the wire contract consumed by run harnesses and must not change:
//
//	!!!
//	QuEST Error in function <fn>: <message>
//	!!!
//	exiting..
func WriteBanner(w io.Writer, f *Fault) {
	fmt.Fprintf(w, "!!!\n")
	fmt.Fprintf(w, "QuEST Error in function %s: %s\n", f.Fn, f.Kind.Message())
	fmt.Fprintf(w, "!!!\n")
	fmt.Fprintf(w, "exiting..\n")
}
