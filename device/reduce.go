package device

import (
	"errors"
	"runtime"

	"github.com/openfluke/fold/kernel"
)

// Single canonical error for the empty case; everything else the host
// layer can get wrong is a programming error, not a runtime failure.
var ErrEmptyInput = errors.New("reduce: input is empty")

// Reduce folds src down to a single value by launching the reduction
// kernel pass after pass: each pass produces one partial result per
// group, and the next pass reduces those partials, until one slot
// remains. combine must be associative; see kernel.Combine for what the
// reordering means for non-commutative operators.
//
// g fixes the lanes per group and an upper bound on groups per pass; the
// actual group count of a pass never exceeds what the pass's input can
// feed.
func Reduce[T any](g Grid, src []T, combine kernel.Combine[T]) (T, error) {
	var zero T
	if len(src) == 0 {
		return zero, ErrEmptyInput
	}
	if g.BlockSize < 1 || g.Groups < 1 {
		return zero, errors.New("reduce: grid needs at least one group and one lane")
	}

	k := kernel.Kernel[T]{BlockSize: g.BlockSize, Combine: combine}
	pool := NewPool[T](g.BlockSize)

	in := src
	for {
		groups := g.Groups
		if need := (len(in) + g.BlockSize - 1) / g.BlockSize; groups > need {
			groups = need
		}
		// A one-lane group reduces nothing by itself; collapse to a
		// single group whose lone lane strides the whole input, or the
		// pass loop would never shrink.
		if g.BlockSize == 1 {
			groups = 1
		}

		out := make([]T, groups)
		pass := Grid{Groups: groups, BlockSize: g.BlockSize, Workers: g.Workers}
		n := len(in)
		RunPooled(pass, pool, func(lane *Lane[T]) {
			k.Run(lane, in, out, n)
		})

		if len(out) == 1 {
			return out[0], nil
		}
		in = out
	}
}

// DefaultGrid sizes a grid for n elements with the stock 64 lanes per
// group.
func DefaultGrid(n int) Grid {
	return GridFor(n, 64)
}

// GridFor sizes a grid for n elements at a given group width: enough
// groups that each lane still sees a few strides of work, capped at the
// logical CPU count so groups do not thrash each other.
func GridFor(n, blockSize int) Grid {
	if blockSize < 1 {
		blockSize = 64
	}
	groups := (n + blockSize*4 - 1) / (blockSize * 4)
	if cpus := runtime.NumCPU(); groups > cpus {
		groups = cpus
	}
	if groups < 1 {
		groups = 1
	}
	return Grid{Groups: groups, BlockSize: blockSize}
}
