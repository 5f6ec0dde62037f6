package svd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsExactReconstruction(t *testing.T) {
	a, err := NewComplexMatrixFromRows([][]complex128{{4, 0}, {0, 9}})
	require.NoError(t, err)
	u := Diag([]float64{1, 1}, 2, 2)
	v := Diag([]float64{1, 1}, 2, 2)
	s := []float64{4, 9}
	require.NoError(t, Validate(a, u, s, v, false))
}

func TestValidateRejectsMismatch(t *testing.T) {
	a, err := NewComplexMatrixFromRows([][]complex128{{4, 0}, {0, 9}})
	require.NoError(t, err)
	u := Diag([]float64{1, 1}, 2, 2)
	v := Diag([]float64{1, 1}, 2, 2)
	s := []float64{4, 1}
	err = Validate(a, u, s, v, false)
	require.Error(t, err)
	var mismatch *ReconstructionMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestValidateVDaggerConvention(t *testing.T) {
	a, err := NewComplexMatrixFromRows([][]complex128{{4, 0}, {0, 9}})
	require.NoError(t, err)
	u := Diag([]float64{1, 1}, 2, 2)
	vDagger := Diag([]float64{1, 1}, 2, 2)
	s := []float64{4, 9}
	require.NoError(t, Validate(a, u, s, vDagger, true))
}
