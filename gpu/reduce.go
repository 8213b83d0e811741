package gpu

import (
	"fmt"

	"github.com/openfluke/webgpu/wgpu"
)

// ReducerF32 folds a float32 buffer to a single value on the GPU. Kind
// selects the operator; WGSL cannot take a Go closure, so the GPU path
// supports the fixed operator set while arbitrary operators stay on the
// CPU backend.
//
// BlockSize is the workgroup size and must be a power of two (the
// in-shader tree halves a power-of-two width). 0 means 256, the widest
// workgroup baseline WebGPU guarantees.
type ReducerF32 struct {
	Kind      string // "sum" | "min" | "max"
	BlockSize int

	pipeline *wgpu.ComputePipeline
}

// maxGroupsPerPass keeps a single dispatch within conservative
// per-dimension limits; the grid-stride loop covers any leftover input.
const maxGroupsPerPass = 1024

func opExpr(kind string) (op, identity string, err error) {
	switch kind {
	case "sum":
		return "a + b", "0.0", nil
	case "min":
		return "min(a, b)", "3.4028235e38", nil
	case "max":
		return "max(a, b)", "-3.4028235e38", nil
	default:
		return "", "", fmt.Errorf("unknown reduce kind %q", kind)
	}
}

// shader emits the reduction kernel: every invocation accumulates its
// grid-strided share of src, publishes into workgroup-shared memory, and
// the workgroup tree-folds between barriers; invocation 0 writes the
// workgroup's slot in dst. Bounds come from arrayLength, so one pipeline
// serves every pass.
func (r *ReducerF32) shader() (string, error) {
	op, identity, err := opExpr(r.Kind)
	if err != nil {
		return "", err
	}
	block := r.blockSize()

	return fmt.Sprintf(`
		@group(0) @binding(0) var<storage, read> src : array<f32>;
		@group(0) @binding(1) var<storage, read_write> dst : array<f32>;

		const BLOCK: u32 = %du;

		var<workgroup> partial: array<f32, %d>;

		fn combine(a: f32, b: f32) -> f32 { return %s; }

		@compute @workgroup_size(%d)
		fn main(
			@builtin(workgroup_id) wg_id: vec3<u32>,
			@builtin(local_invocation_id) local_id: vec3<u32>,
			@builtin(num_workgroups) wg_count: vec3<u32>
		) {
			let n = arrayLength(&src);
			let tid = local_id.x;
			let stride = wg_count.x * BLOCK;

			var acc: f32 = %s;
			for (var i: u32 = wg_id.x * BLOCK + tid; i < n; i += stride) {
				acc = combine(acc, src[i]);
			}
			partial[tid] = acc;
			workgroupBarrier();

			for (var s: u32 = BLOCK / 2u; s > 0u; s = s >> 1u) {
				if (tid < s) {
					partial[tid] = combine(partial[tid], partial[tid + s]);
				}
				workgroupBarrier();
			}

			if (tid == 0u) {
				dst[wg_id.x] = partial[0];
			}
		}
	`, block, block, op, block, identity), nil
}

func (r *ReducerF32) blockSize() int {
	if r.BlockSize <= 0 {
		return 256
	}
	return r.BlockSize
}

// Compile builds the compute pipeline. Reduce calls it lazily; calling
// it up front surfaces shader errors early.
func (r *ReducerF32) Compile() error {
	if r.pipeline != nil {
		return nil
	}
	if b := r.blockSize(); b&(b-1) != 0 {
		return fmt.Errorf("reducer block size %d is not a power of two", b)
	}
	c, err := GetContext()
	if err != nil {
		return err
	}
	code, err := r.shader()
	if err != nil {
		return err
	}
	module, err := c.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Reduce_" + r.Kind + "_Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
	})
	if err != nil {
		return fmt.Errorf("compile reduce shader: %v", err)
	}
	r.pipeline, err = c.Device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:   "Reduce_" + r.Kind + "_Pipe",
		Compute: wgpu.ProgrammableStageDescriptor{Module: module, EntryPoint: "main"},
	})
	return err
}

// Reduce folds in down to one value, dispatching as many passes as it
// takes for the workgroup count to collapse to a single slot.
func (r *ReducerF32) Reduce(in []float32) (float32, error) {
	if len(in) == 0 {
		return 0, fmt.Errorf("reduce: input is empty")
	}
	if err := r.Compile(); err != nil {
		return 0, err
	}
	c, err := GetContext()
	if err != nil {
		return 0, err
	}

	src, err := newStorageBuffer("Reduce_Src", in)
	if err != nil {
		return 0, err
	}
	defer src.Destroy()

	block := r.blockSize()
	n := len(in)
	cur := src
	for n > 1 {
		groups := (n + block - 1) / block
		if groups > maxGroupsPerPass {
			groups = maxGroupsPerPass
		}
		dst, err := newEmptyStorageBuffer("Reduce_Partials", groups)
		if err != nil {
			return 0, err
		}

		if err := r.dispatch(c, cur, dst, groups); err != nil {
			dst.Destroy()
			return 0, err
		}

		if cur != src {
			cur.Destroy()
		}
		cur = dst
		n = groups
	}

	out, err := readBack(cur, 1)
	if cur != src {
		cur.Destroy()
	}
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

func (r *ReducerF32) dispatch(c *Context, src, dst *wgpu.Buffer, groups int) error {
	bindGroup, err := c.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Reduce_Bind",
		Layout: r.pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: src, Size: src.GetSize()},
			{Binding: 1, Buffer: dst, Size: dst.GetSize()},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %v", err)
	}

	encoder, err := c.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %v", err)
	}
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(r.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(uint32(groups), 1, 1)
	pass.End()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish reduce pass: %v", err)
	}
	c.Queue.Submit(cmd)
	return nil
}
