// Package gpu dispatches reductions to a WebGPU device. The shader
// mirrors the kernel package's three levels: a grid-strided private
// accumulation, a workgroup-shared tree fold between workgroupBarrier
// calls, and one output slot per workgroup; the host side here replays
// passes until a single value remains.
package gpu

import (
	"fmt"
	"sync"

	"github.com/openfluke/webgpu/wgpu"
)

// Context is the process-wide WebGPU handle set shared by all reducers.
type Context struct {
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
}

var (
	ctx     Context
	ctxOnce sync.Once
	ctxErr  error
	verbose = false
)

// SetVerbose toggles adapter-selection diagnostics on stdout.
func SetVerbose(v bool) { verbose = v }

// GetContext returns the singleton GPU context, initializing it on first
// use. Initialization tries a high-performance adapter first, then a
// low-power one, then whatever the default request yields.
func GetContext() (*Context, error) {
	ctxOnce.Do(func() {
		ctx.Instance = wgpu.CreateInstance(nil)
		if ctx.Instance == nil {
			ctxErr = fmt.Errorf("failed to create WebGPU instance")
			return
		}

		prefs := []*wgpu.RequestAdapterOptions{
			{PowerPreference: wgpu.PowerPreferenceHighPerformance},
			{PowerPreference: wgpu.PowerPreferenceLowPower},
			nil,
		}
		var err error
		for _, opts := range prefs {
			ctx.Adapter, err = ctx.Instance.RequestAdapter(opts)
			if err == nil && ctx.Adapter != nil {
				break
			}
		}
		if ctx.Adapter == nil {
			ctxErr = fmt.Errorf("no usable adapter: %v", err)
			return
		}

		if verbose {
			info := ctx.Adapter.GetInfo()
			fmt.Printf("Using GPU adapter: %s (vendor: %s)\n", info.Name, info.VendorName)
		}

		ctx.Device, err = ctx.Adapter.RequestDevice(nil)
		if err != nil {
			ctxErr = fmt.Errorf("request device: %v", err)
			return
		}
		ctx.Queue = ctx.Device.GetQueue()
	})

	if ctxErr != nil {
		return nil, ctxErr
	}
	if ctx.Device == nil || ctx.Queue == nil {
		return nil, fmt.Errorf("WebGPU device or queue not initialized")
	}
	return &ctx, nil
}
