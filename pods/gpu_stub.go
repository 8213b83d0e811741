package pods

// GPUHooks describes the optional GPU backend. Keep it slice-based so
// CPU fallback is easy.
type GPUHooks interface {
	DispatchReduceF32(in []float32, kind string) (float32, error) // kind: "sum"|"min"|"max"
}

// Default to a no-op GPU so everything builds and runs without tags; the
// gpu build tag swaps in the WebGPU-backed hooks.
var GPU GPUHooks = noopGPU{}

type noopGPU struct{}

func (noopGPU) DispatchReduceF32([]float32, string) (float32, error) { return 0, ErrNoGPU }
