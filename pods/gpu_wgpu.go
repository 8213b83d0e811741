//go:build gpu

package pods

import (
	"sync"

	"github.com/openfluke/fold/gpu"
)

// wgpuHooks backs GPUHooks with the gpu package, caching one compiled
// pipeline per operator kind.
type wgpuHooks struct {
	mu       sync.Mutex
	reducers map[string]*gpu.ReducerF32
}

func (g *wgpuHooks) DispatchReduceF32(in []float32, kind string) (float32, error) {
	g.mu.Lock()
	r, ok := g.reducers[kind]
	if !ok {
		r = &gpu.ReducerF32{Kind: kind}
		g.reducers[kind] = r
	}
	g.mu.Unlock()
	return r.Reduce(in)
}

func init() {
	GPU = &wgpuHooks{reducers: map[string]*gpu.ReducerF32{}}
}
