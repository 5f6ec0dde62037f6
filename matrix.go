package svd

import (
	"fmt"
)

// ComplexMatrix is a dense, row-major container of complex
// double-precision values. Element access is defined for
// 0 <= row < Rows() and 0 <= col < Cols().
//
// During kernelSVD, the lower triangle of the working copy of A holds
// the column Householder vectors and the upper triangle holds the row
// Householder vectors, both used only during back-accumulation; the
// working copy is discarded when kernelSVD returns, and the caller's
// A is left unchanged. This storage convention is why the
// back-accumulation phase correction in kernel.go still reads A(k,k)
// after bidiagonalization has overwritten the matrix: those diagonal
// entries are exactly the phase factor the reflector needs, stored in
// place rather than carried separately.
type ComplexMatrix struct {
	data       []complex128
	rows, cols int
}

// NewComplexMatrix returns a rows x cols matrix of zeros.
func NewComplexMatrix(rows, cols int) *ComplexMatrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("svd: invalid shape (%d, %d)", rows, cols))
	}
	return &ComplexMatrix{
		data: make([]complex128, rows*cols),
		rows: rows,
		cols: cols,
	}
}

// NewComplexMatrixFromRows builds a matrix from row-major data,
// copying it. Every row must have the same length.
func NewComplexMatrixFromRows(rowsData [][]complex128) (*ComplexMatrix, error) {
	caller := "NewComplexMatrixFromRows"
	if len(rowsData) == 0 {
		return NewComplexMatrix(0, 0), nil
	}
	cols := len(rowsData[0])
	for i, r := range rowsData {
		if len(r) != cols {
			return nil, newShapeError(caller, fmt.Sprintf(
				"row %d has %d columns, want %d", i, len(r), cols))
		}
	}
	m := NewComplexMatrix(len(rowsData), cols)
	for i, r := range rowsData {
		copy(m.data[i*cols:(i+1)*cols], r)
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *ComplexMatrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *ComplexMatrix) Cols() int { return m.cols }

func (m *ComplexMatrix) index(row, col int) int { return row*m.cols + col }

// At returns M(row, col). It panics on an out-of-range index, since an
// invalid index is always a programmer error.
func (m *ComplexMatrix) At(row, col int) complex128 {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("svd: index (%d,%d) out of range for %dx%d matrix", row, col, m.rows, m.cols))
	}
	return m.data[m.index(row, col)]
}

// Set assigns M(row, col) = v. It panics on an out-of-range index.
func (m *ComplexMatrix) Set(row, col int, v complex128) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("svd: index (%d,%d) out of range for %dx%d matrix", row, col, m.rows, m.cols))
	}
	m.data[m.index(row, col)] = v
}

// Clone returns a deep copy.
func (m *ComplexMatrix) Clone() *ComplexMatrix {
	out := NewComplexMatrix(m.rows, m.cols)
	copy(out.data, m.data)
	return out
}

// Scale multiplies every element in place by a real factor. Used by
// kernelSVDWithRetry to rescale A between attempts.
func (m *ComplexMatrix) Scale(factor float64) {
	for i := range m.data {
		m.data[i] *= complex(factor, 0)
	}
}

// Concat joins a and b along axis (0 = stack rows, 1 = stack
// columns). Along axis 0 the column counts must agree; along axis 1
// the row counts must agree.
func Concat(a, b *ComplexMatrix, axis int) (*ComplexMatrix, error) {
	caller := "Concat"
	switch axis {
	case 0:
		if a.cols != b.cols {
			return nil, newShapeError(caller, fmt.Sprintf(
				"axis 0 concat requires equal column counts, got %d and %d", a.cols, b.cols))
		}
		out := NewComplexMatrix(a.rows+b.rows, a.cols)
		copy(out.data[:len(a.data)], a.data)
		copy(out.data[len(a.data):], b.data)
		return out, nil
	case 1:
		if a.rows != b.rows {
			return nil, newShapeError(caller, fmt.Sprintf(
				"axis 1 concat requires equal row counts, got %d and %d", a.rows, b.rows))
		}
		out := NewComplexMatrix(a.rows, a.cols+b.cols)
		for r := 0; r < a.rows; r++ {
			copy(out.data[r*out.cols:r*out.cols+a.cols], a.data[r*a.cols:(r+1)*a.cols])
			copy(out.data[r*out.cols+a.cols:(r+1)*out.cols], b.data[r*b.cols:(r+1)*b.cols])
		}
		return out, nil
	default:
		return nil, newShapeError(caller, fmt.Sprintf("axis must be 0 or 1, got %d", axis))
	}
}

// Split is the inverse of Concat: it divides m at the midpoint of
// axis into two equal halves. It fails if that axis has odd extent.
func Split(m *ComplexMatrix, axis int) (*ComplexMatrix, *ComplexMatrix, error) {
	caller := "Split"
	switch axis {
	case 0:
		if m.rows%2 != 0 {
			return nil, nil, newShapeError(caller, fmt.Sprintf(
				"axis 0 split requires even row count, got %d", m.rows))
		}
		half := m.rows / 2
		out0 := NewComplexMatrix(half, m.cols)
		out1 := NewComplexMatrix(half, m.cols)
		copy(out0.data, m.data[:half*m.cols])
		copy(out1.data, m.data[half*m.cols:])
		return out0, out1, nil
	case 1:
		if m.cols%2 != 0 {
			return nil, nil, newShapeError(caller, fmt.Sprintf(
				"axis 1 split requires even column count, got %d", m.cols))
		}
		half := m.cols / 2
		out0 := NewComplexMatrix(m.rows, half)
		out1 := NewComplexMatrix(m.rows, half)
		for r := 0; r < m.rows; r++ {
			copy(out0.data[r*half:(r+1)*half], m.data[r*m.cols:r*m.cols+half])
			copy(out1.data[r*half:(r+1)*half], m.data[r*m.cols+half:(r+1)*m.cols])
		}
		return out0, out1, nil
	default:
		return nil, nil, newShapeError(caller, fmt.Sprintf("axis must be 0 or 1, got %d", axis))
	}
}

// Dagger returns the conjugate transpose of m. It always allocates.
func Dagger(m *ComplexMatrix) *ComplexMatrix {
	out := NewComplexMatrix(m.cols, m.rows)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			out.Set(c, r, conjugate(m.At(r, c)))
		}
	}
	return out
}

func conjugate(z complex128) complex128 {
	return complex(real(z), -imag(z))
}

// Diag returns an m x n matrix with s[i] on the main diagonal for
// i < min(m, n, len(s)), and zeros elsewhere.
func Diag(s []float64, m, n int) *ComplexMatrix {
	out := NewComplexMatrix(m, n)
	limit := m
	if n < limit {
		limit = n
	}
	if len(s) < limit {
		limit = len(s)
	}
	for i := 0; i < limit; i++ {
		out.Set(i, i, complex(s[i], 0))
	}
	return out
}

// ResizeRows drops trailing rows in place, keeping only the first r.
// It is a programmer error to ask it to grow the matrix.
func (m *ComplexMatrix) ResizeRows(r int) error {
	if r > m.rows {
		return newShapeError("ResizeRows", fmt.Sprintf(
			"cannot grow rows from %d to %d", m.rows, r))
	}
	if r < 0 {
		return newShapeError("ResizeRows", "negative row count")
	}
	m.data = m.data[:r*m.cols]
	m.rows = r
	return nil
}

// ResizeCols drops trailing columns in place, keeping only the first
// c. It is a programmer error to ask it to grow the matrix.
func (m *ComplexMatrix) ResizeCols(c int) error {
	if c > m.cols {
		return newShapeError("ResizeCols", fmt.Sprintf(
			"cannot grow columns from %d to %d", m.cols, c))
	}
	if c < 0 {
		return newShapeError("ResizeCols", "negative column count")
	}
	if c == m.cols {
		return nil
	}
	newData := make([]complex128, m.rows*c)
	for r := 0; r < m.rows; r++ {
		copy(newData[r*c:(r+1)*c], m.data[r*m.cols:r*m.cols+c])
	}
	m.data = newData
	m.cols = c
	return nil
}

// MatMul returns a * b. Both matrices are treated as read-only.
func MatMul(a, b *ComplexMatrix) (*ComplexMatrix, error) {
	if a.cols != b.rows {
		return nil, newShapeError("MatMul", fmt.Sprintf(
			"inner dimensions must match, got %d and %d", a.cols, b.rows))
	}
	out := NewComplexMatrix(a.rows, b.cols)
	for i := 0; i < a.rows; i++ {
		for k := 0; k < a.cols; k++ {
			aik := a.At(i, k)
			if aik == 0 {
				continue
			}
			for j := 0; j < b.cols; j++ {
				out.Set(i, j, out.At(i, j)+aik*b.At(k, j))
			}
		}
	}
	return out, nil
}
