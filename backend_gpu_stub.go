//go:build !(linux && cgo)

package svd

// gpuProviderStub is used on every platform other than Linux+cgo,
// where cuTensorNet is unavailable.
type gpuProviderStub struct{}

func newGPUProvider() GpuTensorSVDProvider {
	return &gpuProviderStub{}
}

func (p *gpuProviderStub) Decompose(a *ComplexMatrix) (*ComplexMatrix, []float64, *ComplexMatrix, error) {
	return nil, nil, nil, newUnrecoverableSVDError(
		"GpuTensorSVDProvider.Decompose", "cuTensorNet is only available on Linux with CGo and CUDA enabled")
}
