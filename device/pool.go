package device

import "sync"

// Pool recycles group scratch slices across launches to avoid per-group
// allocation churn during multi-pass reductions. Slices come back with
// their previous contents intact; kernels already treat scratch as
// uninitialized, so nothing clears them.
type Pool[T any] struct {
	size int
	mu   sync.Mutex
	free [][]T
}

// NewPool creates a pool handing out slices of blockSize slots.
func NewPool[T any](blockSize int) *Pool[T] {
	return &Pool[T]{size: blockSize}
}

// Get returns a scratch slice, reusing a returned one when available.
func (p *Pool[T]) Get() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n := len(p.free); n > 0 {
		s := p.free[n-1]
		p.free = p.free[:n-1]
		return s
	}
	return make([]T, p.size)
}

// Put hands a slice back for reuse. Slices of the wrong length are
// dropped rather than poisoning later groups.
func (p *Pool[T]) Put(s []T) {
	if len(s) != p.size {
		return
	}
	p.mu.Lock()
	p.free = append(p.free, s)
	p.mu.Unlock()
}
