package memory

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/textcodec"
	"github.com/wippyai/textcodec/errors"
)

// Linear wraps wazero memory to implement textcodec.Memory
type Linear struct {
	mem api.Memory
}

// Wrap adapts a wazero memory.
func Wrap(mem api.Memory) *Linear {
	return &Linear{mem: mem}
}

func (m *Linear) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseMemory, int(offset), int(length), int(m.Size()))
	}
	return data, nil
}

func (m *Linear) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseMemory, int(offset), len(data), int(m.Size()))
	}
	return nil
}

func (m *Linear) ReadU8(offset uint32) (uint8, error) {
	v, ok := m.mem.ReadByte(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseMemory, int(offset), 1, int(m.Size()))
	}
	return v, nil
}

func (m *Linear) ReadU16(offset uint32) (uint16, error) {
	v, ok := m.mem.ReadUint16Le(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseMemory, int(offset), 2, int(m.Size()))
	}
	return v, nil
}

func (m *Linear) WriteU8(offset uint32, value uint8) error {
	if !m.mem.WriteByte(offset, value) {
		return errors.OutOfBounds(errors.PhaseMemory, int(offset), 1, int(m.Size()))
	}
	return nil
}

func (m *Linear) WriteU16(offset uint32, value uint16) error {
	if !m.mem.WriteUint16Le(offset, value) {
		return errors.OutOfBounds(errors.PhaseMemory, int(offset), 2, int(m.Size()))
	}
	return nil
}

func (m *Linear) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

// Grow adds pages of 64KiB and reports whether the memory could grow.
func (m *Linear) Grow(pages uint32) bool {
	_, ok := m.mem.Grow(pages)
	return ok
}

// Compile-time check that Linear implements textcodec.Memory and MemorySizer
var _ textcodec.Memory = (*Linear)(nil)
var _ textcodec.MemorySizer = (*Linear)(nil)
