package svd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConcatSplitRoundTrip(t *testing.T) {
	a, err := NewComplexMatrixFromRows([][]complex128{{1, 2}, {3, 4}})
	require.NoError(t, err)
	b, err := NewComplexMatrixFromRows([][]complex128{{5, 6}, {7, 8}})
	require.NoError(t, err)

	rowCat, err := Concat(a, b, 0)
	require.NoError(t, err)
	require.Equal(t, 4, rowCat.Rows())
	require.Equal(t, 2, rowCat.Cols())

	top, bottom, err := Split(rowCat, 0)
	require.NoError(t, err)
	require.Equal(t, a.data, top.data)
	require.Equal(t, b.data, bottom.data)

	colCat, err := Concat(a, b, 1)
	require.NoError(t, err)
	left, right, err := Split(colCat, 1)
	require.NoError(t, err)
	require.Equal(t, a.data, left.data)
	require.Equal(t, b.data, right.data)
}

func TestConcatShapeMismatch(t *testing.T) {
	a := NewComplexMatrix(2, 2)
	b := NewComplexMatrix(3, 3)
	_, err := Concat(a, b, 0)
	require.Error(t, err)
	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestSplitOddExtent(t *testing.T) {
	a := NewComplexMatrix(3, 2)
	_, _, err := Split(a, 0)
	require.Error(t, err)
}

func TestDagger(t *testing.T) {
	a, err := NewComplexMatrixFromRows([][]complex128{{complex(1, 2), complex(3, -4)}})
	require.NoError(t, err)
	d := Dagger(a)
	require.Equal(t, 2, d.Rows())
	require.Equal(t, 1, d.Cols())
	require.Equal(t, complex(1, -2), d.At(0, 0))
	require.Equal(t, complex(3, 4), d.At(1, 0))
}

func TestDiag(t *testing.T) {
	d := Diag([]float64{1, 2, 3}, 2, 4)
	require.Equal(t, complex(1, 0), d.At(0, 0))
	require.Equal(t, complex(2, 0), d.At(1, 1))
	require.Equal(t, complex(0, 0), d.At(0, 2))
}

func TestResizeRowsRejectsGrowth(t *testing.T) {
	m := NewComplexMatrix(2, 2)
	err := m.ResizeRows(3)
	require.Error(t, err)
	require.NoError(t, m.ResizeRows(1))
	require.Equal(t, 1, m.Rows())
}

func TestResizeColsShrinksInPlace(t *testing.T) {
	m, err := NewComplexMatrixFromRows([][]complex128{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	require.NoError(t, m.ResizeCols(2))
	require.Equal(t, complex128(1), m.At(0, 0))
	require.Equal(t, complex128(2), m.At(0, 1))
	require.Equal(t, complex128(4), m.At(1, 0))
	require.Equal(t, complex128(5), m.At(1, 1))
}

func TestMatMulShapeError(t *testing.T) {
	a := NewComplexMatrix(2, 3)
	b := NewComplexMatrix(2, 3)
	_, err := MatMul(a, b)
	require.Error(t, err)
}

func TestMatMulIdentity(t *testing.T) {
	a, err := NewComplexMatrixFromRows([][]complex128{{1, 2}, {3, 4}})
	require.NoError(t, err)
	id := Diag([]float64{1, 1}, 2, 2)
	product, err := MatMul(a, id)
	require.NoError(t, err)
	require.Equal(t, a.data, product.data)
}
