package algebra

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecomposeRotationZAxis(t *testing.T) {
	for _, angle := range []float64{0, 0.25, math.Pi / 2, math.Pi, -1.3} {
		alpha, beta := DecomposeRotation(angle, ZAxis)

		assert.InDelta(t, math.Cos(angle/2), alpha.Real, testEps)
		assert.InDelta(t, -math.Sin(angle/2), alpha.Imag, testEps)
		assert.InDelta(t, 0, beta.Real, testEps)
		assert.InDelta(t, 0, beta.Imag, testEps)
	}
}

func TestDecomposeRotationXAxis(t *testing.T) {
	angle := 1.1
	alpha, beta := DecomposeRotation(angle, XAxis)

	assert.InDelta(t, math.Cos(angle/2), alpha.Real, testEps)
	assert.InDelta(t, 0, alpha.Imag, testEps)
	assert.InDelta(t, 0, beta.Real, testEps)
	assert.InDelta(t, -math.Sin(angle/2), beta.Imag, testEps)
}

func TestDecomposeRotationNormalizesAxis(t *testing.T) {
	angle := 0.7
	a1, b1 := DecomposeRotation(angle, Vector{X: 0, Y: 0, Z: 2.5})
	a2, b2 := DecomposeRotation(angle, ZAxis)

	assert.InDelta(t, a2.Real, a1.Real, testEps)
	assert.InDelta(t, a2.Imag, a1.Imag, testEps)
	assert.InDelta(t, b2.Real, b1.Real, testEps)
	assert.InDelta(t, b2.Imag, b1.Imag, testEps)
}

func TestDecomposeRotationNormalized(t *testing.T) {
	for _, axis := range []Vector{XAxis, YAxis, ZAxis, {X: 1, Y: 1, Z: 1}, {X: -2, Y: 0.5, Z: 7}} {
		alpha, beta := DecomposeRotation(2.2, axis)
		assert.True(t, IsValidAlphaBeta(alpha, beta, testEps),
			"alpha/beta from a rotation must be normalized")
	}
}

// The conjugated pair inverts the rotation whenever the axis has no
// y-component: there beta is purely imaginary, so conjugating the pair
// is the same as negating the angle.
func TestConjugateRoundTripInXZPlane(t *testing.T) {
	axes := []Vector{XAxis, ZAxis, {X: 1, Z: 1}, {X: -3, Z: 0.4}}
	for _, axis := range axes {
		for _, angle := range []float64{0.3, 1.9, math.Pi, -2.6} {
			alpha, beta := DecomposeRotation(angle, axis)
			alphaConj, betaConj := DecomposeRotationConj(angle, axis)

			u := FromAlphaBeta(alpha, beta)
			v := FromAlphaBeta(alphaConj, betaConj)

			matricesEqualWithin(t, Identity(), v.Mul(u), testEps)
		}
	}
}

// For a general axis the conjugated pair parameterizes the elementwise
// conjugate of the rotation matrix, the operator applied to the second
// index of a density matrix.
func TestConjugatePairIsElementwiseConjugate(t *testing.T) {
	axis := Vector{X: 1, Y: -2, Z: 0.5}
	angle := 1.4

	alpha, beta := DecomposeRotation(angle, axis)
	alphaConj, betaConj := DecomposeRotationConj(angle, axis)

	u := FromAlphaBeta(alpha, beta)
	v := FromAlphaBeta(alphaConj, betaConj)

	matricesEqualWithin(t, u.Conjugate(), v, testEps)
}

func TestControlledVariantsShareThePair(t *testing.T) {
	axis := Vector{X: 0.3, Y: 0.1, Z: -2}
	angle := 2.9

	a1, b1 := DecomposeRotation(angle, axis)
	a2, b2 := DecomposeControlledRotation(angle, axis)
	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)

	a3, b3 := DecomposeRotationConj(angle, axis)
	a4, b4 := DecomposeControlledRotationConj(angle, axis)
	assert.Equal(t, a3, a4)
	assert.Equal(t, b3, b4)
}
