package sink

import "sync"

const (
	// Pool limits to prevent memory bloat
	poolMaxCap  = 4096
	poolInitCap = 64
)

// Buffer is an in-memory sink. Buffers from Acquire8 and Acquire16 come
// from a pool and go back with Release; a zero Buffer is ready to use too.
type Buffer[U Unit] struct {
	units []U
}

func (b *Buffer[U]) Append(units []U) error {
	b.units = append(b.units, units...)
	return nil
}

// Units returns the collected units. The slice is only valid until the next
// Append, Reset or Release.
func (b *Buffer[U]) Units() []U {
	return b.units
}

// Len returns the number of collected units.
func (b *Buffer[U]) Len() int {
	return len(b.units)
}

// Reset empties the buffer, keeping its capacity.
func (b *Buffer[U]) Reset() {
	b.units = b.units[:0]
}

// Clone returns a copy of the collected units that outlives the buffer.
func (b *Buffer[U]) Clone() []U {
	return append([]U(nil), b.units...)
}

// Release returns a pooled buffer. The buffer must not be used afterwards.
// Buffers of other unit types are simply dropped.
func (b *Buffer[U]) Release() {
	if b == nil || cap(b.units) > poolMaxCap {
		return // reject oversized
	}
	b.Reset()
	switch p := any(b).(type) {
	case *Buffer[byte]:
		buf8Pool.Put(p)
	case *Buffer[uint16]:
		buf16Pool.Put(p)
	}
}

var buf8Pool = sync.Pool{
	New: func() any {
		return &Buffer[byte]{units: make([]byte, 0, poolInitCap)}
	},
}

var buf16Pool = sync.Pool{
	New: func() any {
		return &Buffer[uint16]{units: make([]uint16, 0, poolInitCap)}
	},
}

// Acquire8 returns an empty pooled 8-bit buffer.
func Acquire8() *Buffer[byte] {
	return buf8Pool.Get().(*Buffer[byte])
}

// Acquire16 returns an empty pooled 16-bit buffer.
func Acquire16() *Buffer[uint16] {
	return buf16Pool.Get().(*Buffer[uint16])
}
