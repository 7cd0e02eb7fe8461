package algebra

import "math"

// DecomposeRotation converts a Bloch rotation (angle about axis) into the
// canonical (alpha, beta) parameterization of a single-qubit unitary:
//
//	alpha = (cos(angle/2), -sin(angle/2)*uz)
//	beta  = (sin(angle/2)*uy, -sin(angle/2)*ux)
//
// where (ux, uy, uz) is the normalized axis. The map is exact. A zero
// axis is a caller precondition violation and yields NaNs rather than an
// error, matching the pure-function contract of this package.
func DecomposeRotation(angle float64, axis Vector) (alpha, beta Complex) {
	mag := axis.Magnitude()
	ux, uy, uz := axis.X/mag, axis.Y/mag, axis.Z/mag

	sin := math.Sin(angle / 2)
	alpha = Complex{Real: math.Cos(angle / 2), Imag: -sin * uz}
	beta = Complex{Real: sin * uy, Imag: -sin * ux}
	return alpha, beta
}

// DecomposeRotationConj is DecomposeRotation followed by conjugation of
// both results. For this unitary family the adjoint equals the complex
// conjugate, so the pair parameterizes the inverse rotation.
func DecomposeRotationConj(angle float64, axis Vector) (alpha, beta Complex) {
	alpha, beta = DecomposeRotation(angle, axis)
	alpha.Imag = -alpha.Imag
	beta.Imag = -beta.Imag
	return alpha, beta
}

// DecomposeControlledRotation computes the (alpha, beta) pair for a
// single-controlled rotation. The pair is identical to the uncontrolled
// one; the control distinction is resolved entirely by the apply kernel,
// which applies the unitary only where the control qubit is 1.
func DecomposeControlledRotation(angle float64, axis Vector) (alpha, beta Complex) {
	return DecomposeRotation(angle, axis)
}

// DecomposeControlledRotationConj is the conjugated controlled variant.
func DecomposeControlledRotationConj(angle float64, axis Vector) (alpha, beta Complex) {
	return DecomposeRotationConj(angle, axis)
}
