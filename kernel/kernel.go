// Package kernel implements a hierarchical parallel reduction: N input
// elements are folded down to one partial result per launch group by an
// associative binary operator, in three levels. Level 0 streams each
// lane's grid-strided share of the input through a private accumulator
// with 4-way unrolling. Level 1 folds the per-lane partials inside
// group-shared scratch with a barrier-synchronized binary tree. Level 2
// has lane 0 of each group emit the group's value to its output slot.
//
// The kernel is backend-agnostic: it only needs the Lane capabilities
// (indices, a group barrier, group-shared scratch). Reducing an input
// all the way to a single value is host work, see the device package.
package kernel

// Kernel is a group-sized reduction step, fixed at construction time.
// BlockSize is the number of lanes per group and must match the backend
// that supplies the lanes; scratch slices must hold BlockSize slots.
type Kernel[T any] struct {
	BlockSize int
	Combine   Combine[T]
}

// Run executes the three reduction levels for one lane. Every lane of
// every group in the grid must call Run exactly once per launch with the
// same src, dst and n; dst needs one slot per group. n is the logical
// problem size and may be smaller than len(src).
//
// Run never returns an error: it performs no allocation and no fallible
// operation. Mismatched block sizes or undersized buffers are programmer
// errors and panic on the out-of-range index.
func (k Kernel[T]) Run(lane Lane[T], src []T, dst []T, n int) {
	local := lane.LocalIndex()
	group := lane.GroupIndex()
	stride := lane.GroupCount() * k.BlockSize

	it := NewStride(lane.GlobalIndex(), stride, n)

	// Level 0: private accumulation over this lane's strided share.
	// Seeding from the first owned element means Combine never needs an
	// identity value. A lane that owns no element leaves result unset
	// and never publishes it.
	var result T
	if pos, ok := it.Take(); ok {
		result = src[pos]
	}

	for it.Remaining() >= 4 {
		p0, _ := it.Take()
		p1, _ := it.Take()
		p2, _ := it.Take()
		p3, _ := it.Take()
		// Combine(e0, e1) does not depend on result, so it can issue
		// alongside the previous iteration's fold.
		result = k.Combine(k.Combine(k.Combine(result, k.Combine(src[p0], src[p1])), src[p2]), src[p3])
	}
	for {
		pos, ok := it.Take()
		if !ok {
			break
		}
		result = k.Combine(result, src[pos])
	}

	// Level 1: publish, then tree-fold inside group-shared scratch.
	if local < n {
		lane.WriteSlot(result)
	}
	lane.Barrier()

	groupBase := group * k.BlockSize
	for width := k.BlockSize; width > 1; width = halfUp(width) {
		up := halfUp(width)
		// A lane combines only when it sits in the lower half, its
		// partner slot is inside the live width, and both its own and
		// the partner's global positions were actually seeded.
		if local < up &&
			local+up < width &&
			groupBase+local+up < n &&
			groupBase+local < n {
			lane.WriteSlot(k.Combine(lane.ReadSlot(local), lane.ReadSlot(local+up)))
		}
		// Idle lanes still arrive here: the round's writes must be
		// visible before anyone reads them in the next round.
		lane.Barrier()
	}

	// Level 2: one writer per group, and only if the group owned at
	// least one element.
	if local == 0 && groupBase < n {
		dst[group] = lane.ReadSlot(0)
	}
}
