package pods

import (
	"errors"

	"github.com/openfluke/fold/device"
)

type ReduceIn struct {
	In   []float32
	Kind string // "sum"|"min"|"max"|"product"|"mean"
}
type ReduceOut struct {
	Value float32
}

// ReducePod folds a float32 slice to one value with the hierarchical
// kernel. When the context opts into the GPU and the kind has a shader,
// it dispatches there first and falls back to the CPU backend on any
// GPU failure.
type ReducePod struct{}

func (ReducePod) Name() string { return "primitives/reduce" }

func (ReducePod) Run(x *ExecContext, in any) (any, error) {
	args, ok := in.(ReduceIn)
	if !ok {
		return nil, errors.New("ReduceIn expected")
	}
	if len(args.In) == 0 {
		return nil, ErrEmptyInput
	}

	if x.UseGPU && x.GPU != nil && gpuKind(args.Kind) {
		if v, err := x.GPU.DispatchReduceF32(args.In, args.Kind); err == nil {
			return ReduceOut{Value: v}, nil
		}
	}

	combine, post, err := combineFor(args.Kind)
	if err != nil {
		return nil, err
	}
	v, err := device.Reduce(x.grid(len(args.In)), args.In, combine)
	if err != nil {
		return nil, err
	}
	if post != nil {
		v = post(v, len(args.In))
	}
	return ReduceOut{Value: v}, nil
}

func gpuKind(kind string) bool {
	switch kind {
	case "sum", "min", "max":
		return true
	}
	return false
}

// combineFor maps a kind to its operator, plus an optional host-side
// finish step (mean divides the sum once at the end).
func combineFor(kind string) (func(a, b float32) float32, func(v float32, n int) float32, error) {
	switch kind {
	case "sum":
		return func(a, b float32) float32 { return a + b }, nil, nil
	case "min":
		return func(a, b float32) float32 {
			if b < a {
				return b
			}
			return a
		}, nil, nil
	case "max":
		return func(a, b float32) float32 {
			if b > a {
				return b
			}
			return a
		}, nil, nil
	case "product":
		return func(a, b float32) float32 { return a * b }, nil, nil
	case "mean":
		return func(a, b float32) float32 { return a + b },
			func(v float32, n int) float32 { return v / float32(n) }, nil
	default:
		return nil, nil, errors.New("unknown kind")
	}
}
