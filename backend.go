package svd

import "math"

// Result holds a complete decomposition: U, S (descending,
// non-negative) and V. VIsDagger records which convention V is in,
// since the in-house kernel and BidiagonalSVDProvider disagree on it
// (LAPACK's zgesdd/zgesvd return V dagger directly; the in-house
// kernel returns V). Attempts counts the rescale-and-retry rounds
// kernelSVDWithRetry needed beyond the first try; it is always 0 for
// the GPU and dense-library providers, which do not retry.
type Result struct {
	U         *ComplexMatrix
	S         []float64
	V         *ComplexMatrix
	VIsDagger bool
	Attempts  int
}

// BidiagonalSVDProvider is implemented by a dense-library SVD backend
// (LAPACK's zgesdd_/zgesvd_ via cgo). Decompose returns V dagger.
type BidiagonalSVDProvider interface {
	Decompose(a *ComplexMatrix) (u *ComplexMatrix, s []float64, vDagger *ComplexMatrix, err error)
}

// GpuTensorSVDProvider is implemented by a cuTensorNet-backed SVD
// backend. Decompose returns V dagger, matching
// BidiagonalSVDProvider's convention, so callers can treat the two
// interchangeably.
type GpuTensorSVDProvider interface {
	Decompose(a *ComplexMatrix) (u *ComplexMatrix, s []float64, vDagger *ComplexMatrix, err error)
}

var (
	lapackProvider BidiagonalSVDProvider = newLapackProvider()
	gpuProvider    GpuTensorSVDProvider  = newGPUProvider()
)

// kernelSVDFunc is the single point kernelSVDWithRetry calls through;
// it is a package variable (rather than a direct call to kernelSVD) so
// tests can substitute a stub that fails on demand and exercise the
// rescale-and-retry loop deterministically, without depending on a
// real input that happens to trip kernelSVD's internal convergence
// check.
var kernelSVDFunc = kernelSVD

// Decompose computes the SVD of a. If a GPU tensor-SVD provider is
// compiled in, it is always tried first, regardless of useLibrary,
// matching csvd_wrapper: the original calls cutensor_csvd_wrapper in
// both its "lapack" and "else" branches whenever CUDA support was
// built in, and only falls through to the useLibrary choice between
// LAPACK and the in-house kernel when the GPU path is unavailable or
// fails. When useLibrary is false (and the GPU path did not run or
// did not succeed), Decompose runs the in-house kernel, with
// rescale-and-retry on convergence failure.
func Decompose(a *ComplexMatrix, useLibrary bool) (Result, error) {
	caller := "Decompose"

	if u, s, vDagger, err := gpuProvider.Decompose(a); err == nil {
		return Result{U: u, S: s, V: vDagger, VIsDagger: true}, nil
	}

	if useLibrary {
		u, s, vDagger, err := lapackProvider.Decompose(a)
		if err != nil {
			return Result{}, newUnrecoverableSVDError(caller, err.Error())
		}
		return Result{U: u, S: s, V: vDagger, VIsDagger: true}, nil
	}

	u, s, v, attempts, err := kernelSVDWithRetry(a)
	if err != nil {
		return Result{}, err
	}
	return Result{U: u, S: s, V: v, VIsDagger: false, Attempts: attempts}, nil
}

// kernelSVDWithRetry runs kernelSVD, and on convergenceFailure retries
// against A scaled by mulFactor^attempt, up to NUM_SVD_TRIES times,
// then unscales S by the same factor on success. A clean shape error
// is never retried, since rescaling A cannot fix a malformed input.
// The returned attempt count is 0 when the first, unscaled try
// succeeded.
func kernelSVDWithRetry(a *ComplexMatrix) (*ComplexMatrix, []float64, *ComplexMatrix, int, error) {
	caller := "kernelSVDWithRetry"

	u, s, v, err := kernelSVDFunc(a)
	if err == nil {
		return u, s, v, 0, nil
	}
	if _, ok := err.(*convergenceFailure); !ok {
		return nil, nil, nil, 0, err
	}

	scaled := a.Clone()
	attempt := 0
	for attempt < NUM_SVD_TRIES {
		attempt++
		scaled = scaled.Clone()
		scaled.Scale(mulFactor)

		u, s, v, err = kernelSVDFunc(scaled)
		if err == nil {
			break
		}
		if _, ok := err.(*convergenceFailure); !ok {
			return nil, nil, nil, 0, err
		}
	}
	if attempt > NUM_SVD_TRIES || err != nil {
		return nil, nil, nil, 0, newUnrecoverableSVDError(caller, "exhausted all rescale-and-retry attempts")
	}

	factor := math.Pow(mulFactor, float64(attempt))
	for i := range s {
		s[i] /= factor
	}
	return u, s, v, attempt, nil
}
