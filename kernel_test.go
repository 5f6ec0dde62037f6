package svd

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomMatrixForTest(rng *rand.Rand, rows, cols int) *ComplexMatrix {
	m := NewComplexMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, complex(rng.NormFloat64(), rng.NormFloat64()))
		}
	}
	return m
}

func TestKernelSVDReconstructsSquareMatrix(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := randomMatrixForTest(rng, 4, 4)

	u, s, v, err := kernelSVD(a)
	require.NoError(t, err)
	require.Len(t, s, 4)
	require.NoError(t, Validate(a, u, s, v, false))
}

func TestKernelSVDSingularValuesDescending(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	a := randomMatrixForTest(rng, 6, 6)

	_, s, _, err := kernelSVD(a)
	require.NoError(t, err)
	for i := 1; i < len(s); i++ {
		require.GreaterOrEqual(t, s[i-1], s[i])
		require.GreaterOrEqual(t, s[i], 0.0)
	}
}

func TestKernelSVDWideMatrix(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := randomMatrixForTest(rng, 2, 5)

	u, s, v, err := kernelSVD(a)
	require.NoError(t, err)
	require.Len(t, s, 2)
	require.Equal(t, 2, u.Rows())
	require.Equal(t, 2, u.Cols())
	require.Equal(t, 5, v.Rows())
	require.Equal(t, 5, v.Cols())
	require.NoError(t, Validate(a, u, s, v, false))
}

func TestKernelSVDTallMatrix(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	a := randomMatrixForTest(rng, 5, 2)

	u, s, v, err := kernelSVD(a)
	require.NoError(t, err)
	require.Len(t, s, 2)
	require.NoError(t, Validate(a, u, s, v, false))
}

func TestKernelSVDWithRetryMatchesDirectCall(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	a := randomMatrixForTest(rng, 3, 3)

	u, s, v, attempts, err := kernelSVDWithRetry(a)
	require.NoError(t, err)
	require.Equal(t, 0, attempts)
	require.NoError(t, Validate(a, u, s, v, false))

	_, directS, _, err := kernelSVD(a)
	require.NoError(t, err)
	require.Equal(t, directS, s)
}

func TestRescueProductDetectsTrueZero(t *testing.T) {
	bn, err := rescueProduct(0, 0, 1, 1)
	require.NoError(t, err)
	require.True(t, bn.IsZero())
}

func TestRescueProductDetectsCancellationSurvivor(t *testing.T) {
	// x and g differ only in the last bit of the float64 mantissa, so
	// x*cs + g*sn nearly cancels with cs = sn = 1; the extended-precision
	// value keeps that nonzero remainder instead of collapsing to zero.
	bn, err := rescueProduct(1.0, -1.0000000000000002, 1.0, 1.0)
	require.NoError(t, err)
	require.False(t, bn.IsZero())
}
