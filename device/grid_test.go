package device

import (
	"sync/atomic"
	"testing"
)

// TestRunVisitsEveryLaneOnce launches a grid and checks each (group,
// lane) pair executes exactly once with consistent coordinates.
func TestRunVisitsEveryLaneOnce(t *testing.T) {
	g := Grid{Groups: 7, BlockSize: 5, Workers: 3}

	visits := make([]atomic.Int32, g.Groups*g.BlockSize)
	Run(g, func(lane *Lane[int]) {
		if lane.GroupCount() != g.Groups {
			t.Errorf("GroupCount: expected %d, got %d", g.Groups, lane.GroupCount())
		}
		global := lane.GroupIndex()*g.BlockSize + lane.LocalIndex()
		if lane.GlobalIndex() != global {
			t.Errorf("GlobalIndex: expected %d, got %d", global, lane.GlobalIndex())
		}
		visits[global].Add(1)
	})

	for i := range visits {
		if got := visits[i].Load(); got != 1 {
			t.Errorf("lane %d executed %d times, expected exactly once", i, got)
		}
	}
}

// TestGroupScratchIsolated verifies groups never observe each other's
// scratch: every lane stamps its slot and reads the whole group back
// after a barrier.
func TestGroupScratchIsolated(t *testing.T) {
	g := Grid{Groups: 6, BlockSize: 4}

	Run(g, func(lane *Lane[int]) {
		lane.WriteSlot(lane.GroupIndex()*1000 + lane.LocalIndex())
		lane.Barrier()
		for slot := 0; slot < g.BlockSize; slot++ {
			want := lane.GroupIndex()*1000 + slot
			if got := lane.ReadSlot(slot); got != want {
				t.Errorf("group %d slot %d: expected %d, got %d",
					lane.GroupIndex(), slot, want, got)
			}
		}
	})
}

// TestRunDegenerateGrids verifies zero-sized grids are a no-op rather
// than a hang or panic.
func TestRunDegenerateGrids(t *testing.T) {
	for _, g := range []Grid{{Groups: 0, BlockSize: 4}, {Groups: 4, BlockSize: 0}} {
		ran := false
		Run(g, func(lane *Lane[int]) { ran = true })
		if ran {
			t.Errorf("grid %+v: body ran on a degenerate grid", g)
		}
	}
}

// TestPoolRecycles verifies Get returns a previously Put slice with its
// contents intact, and rejects wrong-length slices.
func TestPoolRecycles(t *testing.T) {
	p := NewPool[int](4)

	stale := []int{9, 9, 9, 9}
	p.Put(stale)
	got := p.Get()
	if &got[0] != &stale[0] {
		t.Error("expected the pooled slice back")
	}
	if got[0] != 9 {
		t.Errorf("pooled slice was scrubbed: expected stale 9, got %d", got[0])
	}

	fresh := p.Get()
	if len(fresh) != 4 {
		t.Errorf("fresh slice length: expected 4, got %d", len(fresh))
	}

	p.Put(make([]int, 3))
	if got := p.Get(); len(got) != 4 {
		t.Errorf("pool handed out a wrong-length slice of %d slots", len(got))
	}
}
