package codec

import (
	"golang.org/x/text/transform"
)

// State carries conversion progress between the calls of one traversal.
//
// The zero value is the neutral state. A State binds to the Codec that first
// uses it and must not be shared between traversals, goroutines or codecs;
// call Reset before starting an unrelated traversal with the same value.
type State struct {
	owner *Codec

	// decoder side: units already decoded but not yet returned, e.g. the
	// low surrogate of a supplementary character.
	dec    transform.Transformer
	stored []uint16
	buf    [4]uint16

	// encoder side: a high surrogate waiting for its low half.
	enc  transform.Transformer
	high uint16
}

// Reset returns s to the neutral state and unbinds it from its codec.
func (s *State) Reset() {
	*s = State{}
}

// Pending reports how many units the state holds: stored decoded units plus
// a buffered high surrogate.
func (s *State) Pending() int {
	n := len(s.stored)
	if s.high != 0 {
		n++
	}
	return n
}

func (s *State) store(units []uint16) {
	if len(s.stored) == 0 {
		s.stored = s.buf[:0]
	}
	s.stored = append(s.stored, units...)
}

func (s *State) takeStored() uint16 {
	u := s.stored[0]
	s.stored = s.stored[1:]
	return u
}

func (s *State) resetDecoder() {
	if s.dec != nil {
		s.dec.Reset()
	}
	s.stored = nil
}

func (s *State) resetEncoder() {
	if s.enc != nil {
		s.enc.Reset()
	}
	s.high = 0
}
