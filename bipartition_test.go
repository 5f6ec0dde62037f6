package svd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func blockFilled(rows, cols int, value complex128) *ComplexMatrix {
	m := NewComplexMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, value)
		}
	}
	return m
}

func TestPackUnpackURoundTrip(t *testing.T) {
	blocks := [4]*ComplexMatrix{
		blockFilled(2, 2, 1),
		blockFilled(2, 2, 2),
		blockFilled(2, 2, 3),
		blockFilled(2, 2, 4),
	}
	packed, err := Pack(blocks)
	require.NoError(t, err)
	require.Equal(t, 4, packed.Rows())
	require.Equal(t, 4, packed.Cols())
	require.Equal(t, complex128(1), packed.At(0, 0))
	require.Equal(t, complex128(2), packed.At(0, 2))
	require.Equal(t, complex128(3), packed.At(2, 0))
	require.Equal(t, complex128(4), packed.At(2, 2))

	top, bottom, err := UnpackU(packed)
	require.NoError(t, err)
	require.Equal(t, 2, top.Rows())
	require.Equal(t, 2, bottom.Rows())
}

func TestUnpackVHandlesBothConventions(t *testing.T) {
	v := blockFilled(4, 4, 1)
	for i := 0; i < 4; i++ {
		v.Set(i, i, 2)
	}
	left, right, err := UnpackV(v, false)
	require.NoError(t, err)
	require.Equal(t, 2, left.Cols())
	require.Equal(t, 2, right.Cols())

	vDagger := Dagger(v)
	leftD, rightD, err := UnpackV(vDagger, true)
	require.NoError(t, err)
	require.Equal(t, left.data, leftD.data)
	require.Equal(t, right.data, rightD.data)
}

func TestPackShapeMismatch(t *testing.T) {
	blocks := [4]*ComplexMatrix{
		blockFilled(2, 2, 1),
		blockFilled(2, 3, 2),
		blockFilled(2, 2, 3),
		blockFilled(2, 2, 4),
	}
	_, err := Pack(blocks)
	require.Error(t, err)
}
