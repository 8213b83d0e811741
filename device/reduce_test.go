package device

import (
	"errors"
	"math/rand"
	"testing"
)

// TestReduceMatchesSerialFold compares the multi-pass reduction against
// a plain left fold across block sizes and awkward problem sizes.
func TestReduceMatchesSerialFold(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	blockSizes := []int{1, 2, 3, 7, 8, 17, 64}
	sizes := []int{1, 2, 3, 5, 63, 64, 65, 255, 257, 1000, 4096 + 7}

	for _, bs := range blockSizes {
		for _, n := range sizes {
			src := make([]int64, n)
			var want int64
			for i := range src {
				src[i] = int64(rng.Intn(2000) - 1000)
				want += src[i]
			}

			g := Grid{Groups: 4, BlockSize: bs}
			got, err := Reduce(g, src, func(a, b int64) int64 { return a + b })
			if err != nil {
				t.Fatalf("blockSize %d, n %d: %v", bs, n, err)
			}
			if got != want {
				t.Errorf("blockSize %d, n %d: expected %d, got %d", bs, n, want, got)
			}
		}
	}
}

// TestReduceMax checks a non-additive operator through multiple passes.
func TestReduceMax(t *testing.T) {
	n := 10_000
	src := make([]int, n)
	for i := range src {
		src[i] = (i * 7919) % 104729
	}
	want := src[0]
	for _, v := range src {
		if v > want {
			want = v
		}
	}

	got, err := Reduce(Grid{Groups: 8, BlockSize: 32}, src, func(a, b int) int {
		if b > a {
			return b
		}
		return a
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("expected max %d, got %d", want, got)
	}
}

// TestReduceErrors pins the recoverable error surface: empty input and
// an unusable grid.
func TestReduceErrors(t *testing.T) {
	if _, err := Reduce(Grid{Groups: 1, BlockSize: 4}, nil, func(a, b int) int { return a + b }); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("empty input: expected ErrEmptyInput, got %v", err)
	}
	if _, err := Reduce(Grid{Groups: 0, BlockSize: 4}, []int{1}, func(a, b int) int { return a + b }); err == nil {
		t.Error("zero groups: expected an error")
	}
	if _, err := Reduce(Grid{Groups: 1, BlockSize: 0}, []int{1}, func(a, b int) int { return a + b }); err == nil {
		t.Error("zero block size: expected an error")
	}
}

// TestReduceSingleElement verifies n=1 returns the sole element without
// invoking the operator at all.
func TestReduceSingleElement(t *testing.T) {
	calls := 0
	got, err := Reduce(Grid{Groups: 4, BlockSize: 8}, []int{42}, func(a, b int) int {
		calls++
		return a + b
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if calls != 0 {
		t.Errorf("operator invoked %d times for a single element", calls)
	}
}

// TestGridFor sanity-checks grid sizing.
func TestGridFor(t *testing.T) {
	g := GridFor(0, 64)
	if g.Groups < 1 {
		t.Errorf("empty input still needs one group, got %d", g.Groups)
	}
	g = GridFor(1<<20, 64)
	if g.Groups < 1 || g.BlockSize != 64 {
		t.Errorf("unexpected grid %+v", g)
	}
	if g2 := GridFor(100, 0); g2.BlockSize < 1 {
		t.Errorf("block size default missing: %+v", g2)
	}
}
