package algebra

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats/scalar"
)

const testEps = 1e-13

func TestConjugateScalar(t *testing.T) {
	c := Complex{Real: 0.3, Imag: -0.7}
	conj := c.Conjugate()

	assert.Equal(t, 0.3, conj.Real)
	assert.Equal(t, 0.7, conj.Imag)

	// Conjugation is an involution
	assert.Equal(t, c, conj.Conjugate())
}

func TestConjugateMatrixIsElementwise(t *testing.T) {
	m := Matrix2{
		R0C0: Complex{Real: 1, Imag: 2},
		R0C1: Complex{Real: 3, Imag: 4},
		R1C0: Complex{Real: 5, Imag: 6},
		R1C1: Complex{Real: 7, Imag: 8},
	}
	conj := m.Conjugate()

	// Elementwise scalar conjugation, no transpose
	assert.Equal(t, Complex{Real: 1, Imag: -2}, conj.R0C0)
	assert.Equal(t, Complex{Real: 3, Imag: -4}, conj.R0C1)
	assert.Equal(t, Complex{Real: 5, Imag: -6}, conj.R1C0)
	assert.Equal(t, Complex{Real: 7, Imag: -8}, conj.R1C1)
}

func TestAdjointIsConjugateTranspose(t *testing.T) {
	m := Matrix2{
		R0C0: Complex{Real: 1, Imag: 2},
		R0C1: Complex{Real: 3, Imag: 4},
		R1C0: Complex{Real: 5, Imag: 6},
		R1C1: Complex{Real: 7, Imag: 8},
	}
	adj := m.Adjoint()

	assert.Equal(t, Complex{Real: 1, Imag: -2}, adj.R0C0)
	assert.Equal(t, Complex{Real: 5, Imag: -6}, adj.R0C1)
	assert.Equal(t, Complex{Real: 3, Imag: -4}, adj.R1C0)
	assert.Equal(t, Complex{Real: 7, Imag: -8}, adj.R1C1)
}

func TestComplexMul(t *testing.T) {
	// (1+2i)(3+4i) = 3+4i+6i-8 = -5+10i
	got := Complex{Real: 1, Imag: 2}.Mul(Complex{Real: 3, Imag: 4})
	assert.Equal(t, Complex{Real: -5, Imag: 10}, got)

	// i * i = -1
	i := Complex{Imag: 1}
	assert.Equal(t, Complex{Real: -1}, i.Mul(i))
}

func TestMatrixMulIdentity(t *testing.T) {
	m := Matrix2{
		R0C0: Complex{Real: 0.6, Imag: 0.1},
		R0C1: Complex{Real: -0.2, Imag: 0.3},
		R1C0: Complex{Real: 0.2, Imag: 0.3},
		R1C1: Complex{Real: 0.6, Imag: -0.1},
	}
	assert.Equal(t, m, Identity().Mul(m))
	assert.Equal(t, m, m.Mul(Identity()))
}

func TestFromAlphaBeta(t *testing.T) {
	alpha := Complex{Real: 0.6, Imag: 0.0}
	beta := Complex{Real: 0.0, Imag: 0.8}

	m := FromAlphaBeta(alpha, beta)

	assert.Equal(t, alpha, m.R0C0)
	assert.Equal(t, beta, m.R1C0)
	// -conj(beta) and conj(alpha)
	assert.Equal(t, Complex{Real: 0.0, Imag: 0.8}, m.R0C1)
	assert.Equal(t, Complex{Real: 0.6, Imag: 0.0}, m.R1C1)
}

func TestVectorMagnitude(t *testing.T) {
	assert.Equal(t, 1.0, XAxis.Magnitude())
	assert.Equal(t, 1.0, YAxis.Magnitude())
	assert.Equal(t, 1.0, ZAxis.Magnitude())

	v := Vector{X: 3, Y: 4}
	assert.True(t, scalar.EqualWithinAbs(5, v.Magnitude(), testEps))
}

func TestParsePrecision(t *testing.T) {
	p, err := ParsePrecision("")
	assert.NoError(t, err)
	assert.Equal(t, PrecisionDouble, p)

	p, err = ParsePrecision("single")
	assert.NoError(t, err)
	assert.Equal(t, 1e-5, p.Eps())

	p, err = ParsePrecision("extended")
	assert.NoError(t, err)
	assert.Equal(t, 1e-14, p.Eps())

	_, err = ParsePrecision("half")
	assert.Error(t, err)
}

func matricesEqualWithin(t *testing.T, want, got Matrix2, eps float64) {
	t.Helper()
	for _, pair := range []struct {
		w, g Complex
	}{
		{want.R0C0, got.R0C0},
		{want.R0C1, got.R0C1},
		{want.R1C0, got.R1C0},
		{want.R1C1, got.R1C1},
	} {
		assert.InDelta(t, pair.w.Real, pair.g.Real, eps)
		assert.InDelta(t, pair.w.Imag, pair.g.Imag, eps)
	}
}

func TestFromAlphaBetaIsUnitaryForRotations(t *testing.T) {
	for _, angle := range []float64{0, 0.1, math.Pi / 3, math.Pi, 5.5} {
		alpha, beta := DecomposeRotation(angle, Vector{X: 1, Y: 2, Z: 3})
		m := FromAlphaBeta(alpha, beta)
		matricesEqualWithin(t, Identity(), m.Adjoint().Mul(m), testEps)
	}
}
