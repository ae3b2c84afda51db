// Package slideshow tracks the 1-indexed position of the slideshow over a
// listing of n images.
package slideshow

// Clamp constrains position to [1, n]. It returns 0 when n is 0.
func Clamp(position, n int) int {
	if n <= 0 {
		return 0
	}
	return max(1, min(n, position))
}

// State is the slideshow position over a listing of fixed length. The zero
// value is an empty slideshow.
type State struct {
	position int
	n        int
}

// New starts a slideshow over n images at position, clamped into range.
func New(position, n int) *State {
	return &State{
		position: Clamp(position, n),
		n:        max(0, n),
	}
}

// Position is the current 1-indexed position, or 0 for an empty listing.
func (s *State) Position() int {
	return s.position
}

// Len is the number of images the slideshow walks over.
func (s *State) Len() int {
	return s.n
}

// Index is the 0-indexed slot of the current position. ok is false for an
// empty listing.
func (s *State) Index() (idx int, ok bool) {
	if s.n == 0 {
		return 0, false
	}
	return s.position - 1, true
}

// Previous moves one image back, stopping at the first one.
func (s *State) Previous() int {
	if s.n > 0 {
		s.position = max(1, s.position-1)
	}
	return s.position
}

// Next moves one image forward, stopping at the last one.
func (s *State) Next() int {
	if s.n > 0 {
		s.position = min(s.n, s.position+1)
	}
	return s.position
}

// JumpTo moves straight to k, clamped to the listing.
func (s *State) JumpTo(k int) int {
	s.position = Clamp(k, s.n)
	return s.position
}

type Action string

const (
	ActionPrevious Action = "previous"
	ActionNext     Action = "next"
	ActionJump     Action = "jump"
)

// Apply performs a single transition. target is only read by ActionJump.
// Unknown actions leave the position alone and report false.
func (s *State) Apply(action Action, target int) (int, bool) {
	switch action {
	case ActionPrevious:
		return s.Previous(), true
	case ActionNext:
		return s.Next(), true
	case ActionJump:
		return s.JumpTo(target), true
	default:
		return s.position, false
	}
}
