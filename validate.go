package svd

import (
	"math"
	"math/cmplx"
)

// Validate checks that a reconstructs from U, S, V within THRESHOLD,
// element by element, comparing magnitudes only (as the original
// validator does). vIsDagger selects whether V already holds V
// dagger or needs conjugate-transposing first.
func Validate(a, u *ComplexMatrix, s []float64, v *ComplexMatrix, vIsDagger bool) error {
	rows, cols := a.Rows(), a.Cols()

	diagS := Diag(s, rows, cols)
	us, err := MatMul(u, diagS)
	if err != nil {
		return err
	}

	vDagger := v
	if !vIsDagger {
		vDagger = Dagger(v)
	}
	product, err := MatMul(us, vDagger)
	if err != nil {
		return err
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			want := cmplx.Abs(a.At(i, j))
			got := cmplx.Abs(product.At(i, j))
			if !floatAlmostEqual(want, got, THRESHOLD) {
				return &ReconstructionMismatchError{Row: i, Col: j, Got: got, Want: want}
			}
		}
	}
	return nil
}

// ReconstructionError reconstructs A from U, S, V and returns the
// largest per-element magnitude difference from a, regardless of
// whether that difference is within THRESHOLD. Callers that only need
// a pass/fail answer should use Validate instead; this is for callers
// (such as the CLI harness) that want to record how close every trial
// came, including passing ones.
func ReconstructionError(a, u *ComplexMatrix, s []float64, v *ComplexMatrix, vIsDagger bool) (float64, error) {
	diagS := Diag(s, a.Rows(), a.Cols())
	us, err := MatMul(u, diagS)
	if err != nil {
		return 0, err
	}
	vDagger := v
	if !vIsDagger {
		vDagger = Dagger(v)
	}
	product, err := MatMul(us, vDagger)
	if err != nil {
		return 0, err
	}
	return relativeReconstructionError(a, product), nil
}

// relativeReconstructionError is the diagnostic helper
// ReconstructionError uses to report how close a decomposition came,
// even when it is within THRESHOLD.
func relativeReconstructionError(a, product *ComplexMatrix) float64 {
	maxDiff := 0.0
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			diff := math.Abs(cmplx.Abs(a.At(i, j)) - cmplx.Abs(product.At(i, j)))
			if diff > maxDiff {
				maxDiff = diff
			}
		}
	}
	return maxDiff
}
