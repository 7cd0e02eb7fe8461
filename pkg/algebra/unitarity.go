package algebra

import "gonum.org/v1/gonum/floats/scalar"

// The validators are pure predicates: they compare against the supplied
// tolerance and return a boolean, leaving the decision to the caller.
// They never mutate or report.

// IsUnitComplex reports whether |c| is within eps of 1.
func IsUnitComplex(c Complex, eps float64) bool {
	return scalar.EqualWithinAbs(c.Abs(), 1, eps)
}

// IsValidAlphaBeta reports whether |alpha|^2 + |beta|^2 is within eps
// of 1, the normalization required of a compact-unitary parameter pair.
func IsValidAlphaBeta(alpha, beta Complex, eps float64) bool {
	return scalar.EqualWithinAbs(alpha.AbsSquared()+beta.AbsSquared(), 1, eps)
}

// IsUnitVector reports whether the axis has unit length within eps.
func IsUnitVector(v Vector, eps float64) bool {
	return scalar.EqualWithinAbs(v.Magnitude(), 1, eps)
}

// IsUnitaryMatrix reports whether the matrix satisfies column
// orthonormality under the complex inner product: both columns have unit
// squared norm, and both the real and imaginary parts of the column
// inner product vanish. For a 2x2 complex matrix this is equivalent to
// U being unitary; the determinant phase is unconstrained, as unitarity
// itself does not constrain it.
func IsUnitaryMatrix(m Matrix2, eps float64) bool {
	col0Norm := m.R0C0.AbsSquared() + m.R1C0.AbsSquared()
	if !scalar.EqualWithinAbs(col0Norm, 1, eps) {
		return false
	}
	col1Norm := m.R0C1.AbsSquared() + m.R1C1.AbsSquared()
	if !scalar.EqualWithinAbs(col1Norm, 1, eps) {
		return false
	}
	innerReal := m.R0C0.Real*m.R0C1.Real + m.R0C0.Imag*m.R0C1.Imag +
		m.R1C0.Real*m.R1C1.Real + m.R1C0.Imag*m.R1C1.Imag
	if !scalar.EqualWithinAbs(innerReal, 0, eps) {
		return false
	}
	innerImag := m.R0C1.Real*m.R0C0.Imag - m.R0C0.Real*m.R0C1.Imag +
		m.R1C1.Real*m.R1C0.Imag - m.R1C0.Real*m.R1C1.Imag
	return scalar.EqualWithinAbs(innerImag, 0, eps)
}
