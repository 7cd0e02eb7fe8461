package algebra

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUnitComplex(t *testing.T) {
	tests := []struct {
		name string
		c    Complex
		want bool
	}{
		{"one", Complex{Real: 1}, true},
		{"i", Complex{Imag: 1}, true},
		{"phase", Complex{Real: math.Cos(0.8), Imag: math.Sin(0.8)}, true},
		{"magnitude two", Complex{Real: 2}, false},
		{"zero", Complex{}, false},
		{"slightly off", Complex{Real: 1 + 1e-6}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUnitComplex(tt.c, 1e-13))
		})
	}
}

func TestIsValidAlphaBeta(t *testing.T) {
	assert.True(t, IsValidAlphaBeta(Complex{Real: 1}, Complex{}, 1e-13))
	assert.True(t, IsValidAlphaBeta(
		Complex{Real: math.Sqrt(0.5)},
		Complex{Imag: math.Sqrt(0.5)},
		1e-13,
	))

	// Perturbing by more than eps fails
	assert.False(t, IsValidAlphaBeta(Complex{Real: 1 + 1e-6}, Complex{}, 1e-13))
	assert.False(t, IsValidAlphaBeta(Complex{Real: 1}, Complex{Real: 0.1}, 1e-13))
}

func TestIsUnitVector(t *testing.T) {
	assert.True(t, IsUnitVector(XAxis, 1e-13))
	assert.True(t, IsUnitVector(Vector{X: math.Sqrt(0.5), Z: math.Sqrt(0.5)}, 1e-13))
	assert.False(t, IsUnitVector(Vector{X: 1, Y: 1}, 1e-13))
	assert.False(t, IsUnitVector(Vector{}, 1e-13))
}

func pauliX() Matrix2 {
	return Matrix2{R0C1: Complex{Real: 1}, R1C0: Complex{Real: 1}}
}

func pauliY() Matrix2 {
	return Matrix2{R0C1: Complex{Imag: -1}, R1C0: Complex{Imag: 1}}
}

func pauliZ() Matrix2 {
	return Matrix2{R0C0: Complex{Real: 1}, R1C1: Complex{Real: -1}}
}

func TestIsUnitaryMatrixAcceptsPaulis(t *testing.T) {
	for name, m := range map[string]Matrix2{
		"identity": Identity(),
		"X":        pauliX(),
		"Y":        pauliY(),
		"Z":        pauliZ(),
	} {
		assert.True(t, IsUnitaryMatrix(m, 1e-13), "expected %s to be unitary", name)
	}
}

func TestIsUnitaryMatrixRejectsScaledColumn(t *testing.T) {
	m := Identity()
	m.R0C0.Real = 2 // column 0 scaled
	assert.False(t, IsUnitaryMatrix(m, 1e-13))

	m = Identity()
	m.R1C1.Real = 2 // column 1 scaled
	assert.False(t, IsUnitaryMatrix(m, 1e-13))
}

func TestIsUnitaryMatrixRejectsNonOrthogonalColumns(t *testing.T) {
	// Unit columns that are not orthogonal
	s := math.Sqrt(0.5)
	m := Matrix2{
		R0C0: Complex{Real: 1},
		R0C1: Complex{Real: s},
		R1C1: Complex{Real: s},
	}
	assert.False(t, IsUnitaryMatrix(m, 1e-13))
}

func TestIsUnitaryMatrixCatchesImaginaryCrossTerm(t *testing.T) {
	// Columns of unit norm whose inner product is purely imaginary
	s := math.Sqrt(0.5)
	m := Matrix2{
		R0C0: Complex{Real: s},
		R1C0: Complex{Real: s},
		R0C1: Complex{Imag: s},
		R1C1: Complex{Imag: -s},
	}
	// Inner product = conj(col0) . col1 = s*is + s*(-is) = 0; this one is fine
	assert.True(t, IsUnitaryMatrix(m, 1e-13))

	m.R1C1 = Complex{Imag: s} // now the imaginary part no longer cancels
	assert.False(t, IsUnitaryMatrix(m, 1e-13))
}

func TestRotationMatricesAreUnitary(t *testing.T) {
	for _, axis := range []Vector{XAxis, YAxis, ZAxis, {X: 1, Y: 2, Z: 3}} {
		alpha, beta := DecomposeRotation(1.23, axis)
		assert.True(t, IsUnitaryMatrix(FromAlphaBeta(alpha, beta), 1e-13))
	}
}
