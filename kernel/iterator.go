package kernel

// Stride walks the positions start, start+step, start+2*step, ... that
// are strictly below bound. It is how a lane visits its grid-strided
// share of the input: step is the total lane count of the grid, so all
// lanes together cover [0, bound) exactly once with no overlap.
//
// Exhaustion is a normal, representable state: Take reports it instead
// of ever yielding a position at or past the bound.
type Stride struct {
	next  int
	step  int
	bound int
}

// NewStride returns an iterator over start, start+step, ... below bound.
// step must be positive.
func NewStride(start, step, bound int) Stride {
	return Stride{next: start, step: step, bound: bound}
}

// Take returns the current position and advances by one step. The second
// result is false once the iterator is exhausted; the position is then
// meaningless and the iterator stays exhausted.
func (s *Stride) Take() (int, bool) {
	if s.next >= s.bound {
		return 0, false
	}
	pos := s.next
	s.next += s.step
	return pos, true
}

// Remaining reports how many positions are still below the bound.
func (s *Stride) Remaining() int {
	if s.next >= s.bound {
		return 0
	}
	return (s.bound - s.next + s.step - 1) / s.step
}

// Reset rewinds the iterator to a new starting position, keeping its
// step and bound.
func (s *Stride) Reset(start int) {
	s.next = start
}
