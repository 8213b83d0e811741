package kernel

// Combine folds two values into one. It must be associative and free of
// observable side effects: the kernel reorders and regroups evaluations
// (4-way unrolling, tree folding), so both the call order and the call
// count differ between backends and problem sizes. Commutative operators
// get the same value everywhere; non-commutative but associative
// operators (string concatenation, matrix multiply) get a deterministic
// grouping that generally differs from a strict left fold.
type Combine[T any] func(a, b T) T

// Lane is the view one execution lane has of its group and grid. A
// backend provides one Lane per logical thread: the device package backs
// it with goroutines and a condition-variable barrier, a GPU workgroup
// realizes the same contract in hardware.
//
// All lanes of a group share one scratch slice and one barrier; groups
// share nothing and may run in any order relative to each other.
type Lane[T any] interface {
	// LocalIndex is the lane's index within its group, in [0, blockSize).
	LocalIndex() int

	// GlobalIndex is the lane's linear index within the whole grid,
	// GroupIndex()*blockSize + LocalIndex().
	GlobalIndex() int

	// GroupIndex is the index of the lane's group within the grid.
	GroupIndex() int

	// GroupCount is the total number of groups in the grid.
	GroupCount() int

	// Barrier blocks the calling lane until every lane of its group has
	// called Barrier the same number of times this launch.
	Barrier()

	// WriteSlot stores v in the lane's own slot of the group-shared
	// scratch. Only the owning lane may write a slot; the write becomes
	// visible to the rest of the group at the next Barrier.
	WriteSlot(v T)

	// ReadSlot returns slot i of the group-shared scratch. Slots hold
	// unspecified values until their owning lane has written them and a
	// Barrier has published the write; the kernel's bound checks keep it
	// from ever reading an unpublished slot.
	ReadSlot(i int) T
}
