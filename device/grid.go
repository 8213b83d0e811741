// Package device runs kernels on the CPU: each work-group is a set of
// goroutines sharing a scratch slice and a barrier, and a worker pool
// schedules groups so a huge grid does not mean a huge number of live
// goroutines. It also carries the host side of a full reduction, which
// launches the kernel pass after pass until one value remains.
package device

import (
	"runtime"
	"sync"
)

// Grid describes one launch: Groups work-groups of BlockSize lanes each.
type Grid struct {
	Groups    int
	BlockSize int

	// Workers caps how many groups execute concurrently. 0 means one
	// worker per logical CPU. Lanes within a group always run as
	// concurrent goroutines regardless, because they synchronize through
	// a barrier.
	Workers int
}

// Lane is the device backend's lane view handed to a kernel body. It
// implements kernel.Lane.
type Lane[T any] struct {
	local     int
	group     int
	groups    int
	blockSize int
	barrier   *Barrier
	scratch   []T
}

func (l *Lane[T]) LocalIndex() int  { return l.local }
func (l *Lane[T]) GroupIndex() int  { return l.group }
func (l *Lane[T]) GroupCount() int  { return l.groups }
func (l *Lane[T]) GlobalIndex() int { return l.group*l.blockSize + l.local }
func (l *Lane[T]) Barrier()         { l.barrier.Wait() }
func (l *Lane[T]) WriteSlot(v T)    { l.scratch[l.local] = v }
func (l *Lane[T]) ReadSlot(i int) T { return l.scratch[i] }

// Run executes body once per lane across the whole grid and returns when
// every group has finished. Each group gets a fresh zeroed scratch slice.
func Run[T any](g Grid, body func(lane *Lane[T])) {
	RunPooled(g, nil, body)
}

// RunPooled is Run with group scratch drawn from a pool instead of
// allocated per group. Recycled slices carry whatever the previous group
// left in them; kernels must treat scratch as uninitialized, so this is
// safe and skips the per-group allocation.
func RunPooled[T any](g Grid, pool *Pool[T], body func(lane *Lane[T])) {
	if g.Groups < 1 || g.BlockSize < 1 {
		return
	}

	workers := g.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > g.Groups {
		workers = g.Groups
	}
	// Each worker walks a contiguous span of groups so consecutive
	// groups reuse warm cache lines, the same split guda-style launchers
	// use for CPU grids.
	groupsPerWorker := (g.Groups + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		first := w * groupsPerWorker
		last := first + groupsPerWorker
		if last > g.Groups {
			last = g.Groups
		}
		go func(first, last int) {
			defer wg.Done()
			for group := first; group < last; group++ {
				runGroup(g, group, pool, body)
			}
		}(first, last)
	}
	wg.Wait()
}

// runGroup spawns the lanes of one group and waits for them to finish.
func runGroup[T any](g Grid, group int, pool *Pool[T], body func(lane *Lane[T])) {
	var scratch []T
	if pool != nil {
		scratch = pool.Get()
	} else {
		scratch = make([]T, g.BlockSize)
	}

	barrier := NewBarrier(g.BlockSize)

	var lanes sync.WaitGroup
	lanes.Add(g.BlockSize)
	for local := 0; local < g.BlockSize; local++ {
		lane := &Lane[T]{
			local:     local,
			group:     group,
			groups:    g.Groups,
			blockSize: g.BlockSize,
			barrier:   barrier,
			scratch:   scratch,
		}
		go func(lane *Lane[T]) {
			defer lanes.Done()
			body(lane)
		}(lane)
	}
	lanes.Wait()

	if pool != nil {
		pool.Put(scratch)
	}
}
