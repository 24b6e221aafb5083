package memory

import (
	"encoding/binary"

	"github.com/wippyai/textcodec"
)

// ReadCString reads bytes starting at ptr up to the first NUL, at most max
// bytes. The result is a copy.
func ReadCString(mem textcodec.Memory, ptr, max uint32) ([]byte, error) {
	data, err := mem.Read(ptr, readable(mem, ptr, max, 1))
	if err != nil {
		return nil, err
	}
	for i, b := range data {
		if b == 0 {
			data = data[:i]
			break
		}
	}
	return append([]byte(nil), data...), nil
}

// ReadCString16 reads little-endian 16-bit units starting at ptr up to the
// first zero unit, at most max units.
func ReadCString16(mem textcodec.Memory, ptr, max uint32) ([]uint16, error) {
	data, err := mem.Read(ptr, readable(mem, ptr, max, 2)*2)
	if err != nil {
		return nil, err
	}
	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		u := binary.LittleEndian.Uint16(data[i:])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return units, nil
}

// WriteCString copies b and a NUL terminator into freshly allocated memory.
func WriteCString(mem textcodec.Memory, alloc textcodec.Allocator, b []byte) (uint32, error) {
	s, err := AllocSink[byte](mem, alloc, uint32(len(b)))
	if err != nil {
		return 0, err
	}
	if err := s.Append(b); err != nil {
		return 0, err
	}
	return s.Ptr(), s.Terminate()
}

// WriteCString16 copies units and a zero terminator into freshly allocated
// memory.
func WriteCString16(mem textcodec.Memory, alloc textcodec.Allocator, units []uint16) (uint32, error) {
	s, err := AllocSink[uint16](mem, alloc, uint32(len(units)))
	if err != nil {
		return 0, err
	}
	if err := s.Append(units); err != nil {
		return 0, err
	}
	return s.Ptr(), s.Terminate()
}

// readable clamps a read of max units to the end of memory when the size is
// known, so a string near the end is not an error.
func readable(mem textcodec.Memory, ptr, max, size uint32) uint32 {
	sizer, ok := mem.(textcodec.MemorySizer)
	if !ok {
		return max
	}
	total := sizer.Size()
	if ptr >= total {
		return max
	}
	if avail := (total - ptr) / size; avail < max {
		return avail
	}
	return max
}
