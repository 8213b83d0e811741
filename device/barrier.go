package device

import "sync"

// Barrier blocks a fixed number of parties until all have arrived, then
// releases them together. It is reusable: the generation counter lets
// the same barrier separate any number of phases, which is what the
// kernel's rounds need.
type Barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	parties int
	arrived int
	phase   uint64
}

// NewBarrier creates a barrier for the given number of parties.
func NewBarrier(parties int) *Barrier {
	if parties < 1 {
		panic("device: barrier needs at least one party")
	}
	b := &Barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks until every party has called Wait for the current phase.
// The last arrival advances the phase and wakes the rest, so a party
// racing ahead into the next phase cannot be confused with a late
// arrival of the current one.
func (b *Barrier) Wait() {
	b.mu.Lock()
	phase := b.phase
	b.arrived++
	if b.arrived == b.parties {
		b.arrived = 0
		b.phase++
		b.cond.Broadcast()
		b.mu.Unlock()
		return
	}
	for phase == b.phase {
		b.cond.Wait()
	}
	b.mu.Unlock()
}
