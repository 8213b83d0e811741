// Package pods is the dispatch surface over the reduction backends: a
// pod names an operation, an ExecContext carries the execution choices
// (CPU grid shape, whether to try the GPU), and a registry maps names to
// pods for callers that wire things up by string.
package pods

import (
	"context"
	"time"

	"github.com/openfluke/fold/detector"
	"github.com/openfluke/fold/device"
)

// Pod is a unit of work.
type Pod interface {
	Name() string
	Run(ctx *ExecContext, in any) (out any, err error)
}

// ExecContext carries execution choices and capabilities.
type ExecContext struct {
	Ctx    context.Context
	UseGPU bool                // pods fall back to CPU when the GPU path fails
	CPU    *detector.CPUReport // host probe, used to size grids
	GPU    GPUHooks            // nil-safe default set in gpu_stub.go
	Grid   device.Grid         // zero value means size per input
	Now    time.Time
}

// NewContext builds a context sized from a CPU probe.
func NewContext(rep *detector.CPUReport) *ExecContext {
	ec := &ExecContext{
		Ctx: context.Background(),
		CPU: rep,
		GPU: GPU,
		Now: time.Now(),
	}
	if rep != nil {
		ec.Grid = device.Grid{
			BlockSize: rep.RecommendedBlockSize,
			Workers:   rep.RecommendedWorkers,
		}
	}
	return ec
}

// WithGPU opts the context into GPU dispatch through the given hooks.
func (ec *ExecContext) WithGPU(g GPUHooks) *ExecContext {
	ec.GPU = g
	ec.UseGPU = g != nil
	return ec
}

// grid resolves the effective grid for an input of n elements.
func (ec *ExecContext) grid(n int) device.Grid {
	g := ec.Grid
	if g.BlockSize < 1 {
		return device.DefaultGrid(n)
	}
	if g.Groups < 1 {
		g.Groups = device.GridFor(n, g.BlockSize).Groups
	}
	return g
}
