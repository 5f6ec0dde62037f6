//go:build !(linux && cgo)

package svd

// lapackProviderStub is used on every build other than Linux with cgo
// enabled. A pure-Go
// LAPACK such as gonum's was considered and rejected (see DESIGN.md):
// it has no complex128 zgesvd/zgesdd, so there is no fallback path
// that avoids cgo here.
type lapackProviderStub struct{}

func newLapackProvider() BidiagonalSVDProvider {
	return &lapackProviderStub{}
}

func (p *lapackProviderStub) Decompose(a *ComplexMatrix) (*ComplexMatrix, []float64, *ComplexMatrix, error) {
	return nil, nil, nil, newUnrecoverableSVDError(
		"BidiagonalSVDProvider.Decompose", "LAPACK is only wired in on Linux with cgo; rebuild there with CGO_ENABLED=1 and a LAPACK with zgesdd_/zgesvd_ on the link path")
}
