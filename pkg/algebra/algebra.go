// Package algebra provides the complex scalar, 2x2 matrix and Bloch-axis
// primitives used to express single-qubit gates, together with the
// rotation decomposition and unitarity validators that gate their use.
package algebra

import "math"

// Complex is a complex amplitude or matrix entry. A plain struct (rather
// than complex128) keeps the real and imaginary parts independently
// addressable, which the kernels and the state-file writer rely on.
type Complex struct {
	Real float64
	Imag float64
}

// Conjugate returns the complex conjugate (negated imaginary part).
func (c Complex) Conjugate() Complex {
	return Complex{Real: c.Real, Imag: -c.Imag}
}

// Abs returns the magnitude |c|.
func (c Complex) Abs() float64 {
	return math.Sqrt(c.Real*c.Real + c.Imag*c.Imag)
}

// AbsSquared returns |c|^2 without the square root.
func (c Complex) AbsSquared() float64 {
	return c.Real*c.Real + c.Imag*c.Imag
}

// Mul returns the complex product c * d.
func (c Complex) Mul(d Complex) Complex {
	return Complex{
		Real: c.Real*d.Real - c.Imag*d.Imag,
		Imag: c.Real*d.Imag + c.Imag*d.Real,
	}
}

// Add returns the complex sum c + d.
func (c Complex) Add(d Complex) Complex {
	return Complex{Real: c.Real + d.Real, Imag: c.Imag + d.Imag}
}

// Matrix2 is a 2x2 complex matrix acting on one qubit's two-dimensional
// subspace. Entries are named by row and column.
type Matrix2 struct {
	R0C0 Complex
	R0C1 Complex
	R1C0 Complex
	R1C1 Complex
}

// Identity returns the 2x2 identity matrix.
func Identity() Matrix2 {
	return Matrix2{
		R0C0: Complex{Real: 1},
		R1C1: Complex{Real: 1},
	}
}

// Conjugate applies scalar conjugation elementwise. Note this is not the
// Hermitian adjoint; callers needing the adjoint must also transpose
// (see Adjoint).
func (m Matrix2) Conjugate() Matrix2 {
	return Matrix2{
		R0C0: m.R0C0.Conjugate(),
		R0C1: m.R0C1.Conjugate(),
		R1C0: m.R1C0.Conjugate(),
		R1C1: m.R1C1.Conjugate(),
	}
}

// Adjoint returns the conjugate transpose of the matrix.
func (m Matrix2) Adjoint() Matrix2 {
	return Matrix2{
		R0C0: m.R0C0.Conjugate(),
		R0C1: m.R1C0.Conjugate(),
		R1C0: m.R0C1.Conjugate(),
		R1C1: m.R1C1.Conjugate(),
	}
}

// Mul returns the matrix product m * n.
func (m Matrix2) Mul(n Matrix2) Matrix2 {
	return Matrix2{
		R0C0: m.R0C0.Mul(n.R0C0).Add(m.R0C1.Mul(n.R1C0)),
		R0C1: m.R0C0.Mul(n.R0C1).Add(m.R0C1.Mul(n.R1C1)),
		R1C0: m.R1C0.Mul(n.R0C0).Add(m.R1C1.Mul(n.R1C0)),
		R1C1: m.R1C0.Mul(n.R0C1).Add(m.R1C1.Mul(n.R1C1)),
	}
}

// FromAlphaBeta builds the unitary matrix for a valid (alpha, beta) pair:
//
//	[ alpha       -conj(beta) ]
//	[ beta         conj(alpha) ]
func FromAlphaBeta(alpha, beta Complex) Matrix2 {
	negConjBeta := beta.Conjugate()
	negConjBeta.Real = -negConjBeta.Real
	negConjBeta.Imag = -negConjBeta.Imag
	return Matrix2{
		R0C0: alpha,
		R0C1: negConjBeta,
		R1C0: beta,
		R1C1: alpha.Conjugate(),
	}
}

// Vector is a rotation axis in Bloch-sphere parameter space. Callers need
// not pre-normalize it; the decomposition normalizes internally.
type Vector struct {
	X float64
	Y float64
	Z float64
}

// Magnitude returns the Euclidean length of the vector.
func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Unit axes for the axis-aligned rotation convenience forms.
var (
	XAxis = Vector{X: 1}
	YAxis = Vector{Y: 1}
	ZAxis = Vector{Z: 1}
)
