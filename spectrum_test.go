package svd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNumSignificant(t *testing.T) {
	require.Equal(t, 3, NumSignificant([]float64{1, 0.5, 0.1, 1e-20}, 1e-9))
	require.Equal(t, 1, NumSignificant([]float64{1e-20}, 1e-9))
	require.Equal(t, 0, NumSignificant(nil, 1e-9))
}

func TestTruncateAndRenormalizeKeepsUnitNorm(t *testing.T) {
	S := []float64{0.9, 0.3, 0.2, 0.05}
	U := NewComplexMatrix(4, 4)
	V := NewComplexMatrix(4, 4)
	for i := 0; i < 4; i++ {
		U.Set(i, i, 1)
		V.Set(i, i, 1)
	}

	truncatedS, discarded, err := TruncateAndRenormalize(U, S, V, 4, 0.1, false)
	require.NoError(t, err)
	require.True(t, discarded <= 0.1)

	sum := 0.0
	for _, s := range truncatedS {
		sum += s * s
	}
	require.InDelta(t, 1.0, sum, THRESHOLD)
	require.Equal(t, len(truncatedS), U.Cols())
	require.Equal(t, len(truncatedS), V.Cols())
}

func TestTruncateAndRenormalizeNeverDropsIndexZero(t *testing.T) {
	S := []float64{1e-20}
	U := NewComplexMatrix(1, 1)
	V := NewComplexMatrix(1, 1)
	truncatedS, _, err := TruncateAndRenormalize(U, S, V, 5, 1e10, false)
	require.NoError(t, err)
	require.Len(t, truncatedS, 1)
}

func TestTruncateAndRenormalizeHardCap(t *testing.T) {
	// With a zero truncation budget, the soft sweep cannot discard
	// anything further, so only the hard maxRank cap applies.
	S := []float64{1.0, 0.9, 0.8, 0.7, 0.6}
	U := NewComplexMatrix(5, 5)
	V := NewComplexMatrix(5, 5)
	truncatedS, discarded, err := TruncateAndRenormalize(U, S, V, 2, 0.0, false)
	require.NoError(t, err)
	require.Len(t, truncatedS, 2)
	require.Equal(t, 2, U.Cols())
	require.InDelta(t, 0.8*0.8+0.7*0.7+0.6*0.6, discarded, 1e-12)
}

func TestTruncateAndRenormalizeUnboundedBudgetKeepsOnlyIndexZero(t *testing.T) {
	S := []float64{1.0, 0.9, 0.8, 0.7, 0.6}
	U := NewComplexMatrix(5, 5)
	V := NewComplexMatrix(5, 5)
	truncatedS, _, err := TruncateAndRenormalize(U, S, V, 5, math.Inf(1), false)
	require.NoError(t, err)
	require.Len(t, truncatedS, 1)
}

func TestTruncateAndRenormalizeVDaggerConvention(t *testing.T) {
	S := []float64{1.0, 0.1}
	U := NewComplexMatrix(2, 2)
	VDagger := NewComplexMatrix(2, 2)
	_, _, err := TruncateAndRenormalize(U, S, VDagger, 1, math.Inf(1), true)
	require.NoError(t, err)
	require.Equal(t, 1, VDagger.Rows())
}
