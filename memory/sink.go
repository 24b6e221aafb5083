package memory

import (
	"encoding/binary"

	"github.com/wippyai/textcodec"
	"github.com/wippyai/textcodec/errors"
	"github.com/wippyai/textcodec/sink"
)

// Sink appends code units to a fixed region of linear memory. 16-bit units
// are stored little endian.
type Sink[U sink.Unit] struct {
	mem     textcodec.Memory
	scratch []byte
	ptr     uint32
	cap     uint32
	n       uint32
}

// NewSink returns a sink over the region of capacity units starting at ptr.
func NewSink[U sink.Unit](mem textcodec.Memory, ptr, capacity uint32) *Sink[U] {
	return &Sink[U]{mem: mem, ptr: ptr, cap: capacity}
}

// AllocSink reserves room for capacity units plus a terminator and returns
// a sink over it.
func AllocSink[U sink.Unit](mem textcodec.Memory, alloc textcodec.Allocator, capacity uint32) (*Sink[U], error) {
	size := unitSize[U]()
	ptr, err := alloc.Alloc((capacity+1)*size, size)
	if err != nil {
		return nil, err
	}
	return NewSink[U](mem, ptr, capacity), nil
}

func (s *Sink[U]) Append(units []U) error {
	if uint64(s.n)+uint64(len(units)) > uint64(s.cap) {
		return errors.OutOfBounds(errors.PhaseMemory, int(s.n), len(units), int(s.cap))
	}
	if err := s.mem.Write(s.offset(s.n), s.encode(units)); err != nil {
		return err
	}
	s.n += uint32(len(units))
	return nil
}

// Terminate writes a zero unit after the content without counting it.
// The region reserved by AllocSink always has room for it.
func (s *Sink[U]) Terminate() error {
	if unitSize[U]() == 2 {
		return s.mem.WriteU16(s.offset(s.n), 0)
	}
	return s.mem.WriteU8(s.offset(s.n), 0)
}

// Ptr returns the start of the region.
func (s *Sink[U]) Ptr() uint32 {
	return s.ptr
}

// Len returns the number of units written.
func (s *Sink[U]) Len() uint32 {
	return s.n
}

// Cap returns the capacity in units.
func (s *Sink[U]) Cap() uint32 {
	return s.cap
}

// Reset rewinds the sink to the start of its region.
func (s *Sink[U]) Reset() {
	s.n = 0
}

func (s *Sink[U]) offset(units uint32) uint32 {
	return s.ptr + units*unitSize[U]()
}

func (s *Sink[U]) encode(units []U) []byte {
	s.scratch = s.scratch[:0]
	if unitSize[U]() == 2 {
		for _, u := range units {
			s.scratch = binary.LittleEndian.AppendUint16(s.scratch, uint16(u))
		}
		return s.scratch
	}
	for _, u := range units {
		s.scratch = append(s.scratch, byte(u))
	}
	return s.scratch
}

func unitSize[U sink.Unit]() uint32 {
	if uint16(^U(0)) == 0xffff {
		return 2
	}
	return 1
}
