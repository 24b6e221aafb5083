package memory

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/textcodec"
	"github.com/wippyai/textcodec/errors"
)

const (
	// PageSize is the size of one WebAssembly memory page.
	PageSize = 65536

	// maxArenaPages caps arena growth: 256 pages = 16MB
	maxArenaPages = 256

	// the first bytes stay unused so that 0 is never a valid pointer
	arenaBase = 8
)

// Arena is a standalone WebAssembly linear memory with a bump allocator.
// It owns a wazero runtime and must be closed.
type Arena struct {
	rt  wazero.Runtime
	mem *Linear
	top uint32
}

// NewArena instantiates a module that exports one memory of the given
// initial size in pages.
func NewArena(ctx context.Context, pages uint32) (*Arena, error) {
	if pages == 0 || pages > maxArenaPages {
		return nil, errors.InvalidInput(errors.PhaseMemory,
			fmt.Sprintf("arena size %d pages outside 1..%d", pages, maxArenaPages))
	}

	cfg := wazero.NewRuntimeConfig().WithMemoryLimitPages(maxArenaPages)
	rt := wazero.NewRuntimeWithConfig(ctx, cfg)

	mod, err := rt.Instantiate(ctx, memoryModule(pages))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseMemory, errors.KindAllocation, err, "instantiate arena module")
	}
	mem := mod.ExportedMemory("memory")
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, errors.NilPointer(errors.PhaseMemory, "arena memory export")
	}

	Logger().Debug("arena created", zap.Uint32("pages", pages))
	return &Arena{rt: rt, mem: Wrap(mem), top: arenaBase}, nil
}

// Memory returns the arena's linear memory.
func (a *Arena) Memory() *Linear {
	return a.mem
}

// Alloc reserves size bytes aligned to align, growing the memory when
// needed.
func (a *Arena) Alloc(size, align uint32) (uint32, error) {
	if align == 0 {
		align = 1
	}
	ptr := alignTo(a.top, align)
	end := uint64(ptr) + uint64(size)
	if end > uint64(a.mem.Size()) {
		need := (end - uint64(a.mem.Size()) + PageSize - 1) / PageSize
		if end > maxArenaPages*PageSize || !a.mem.Grow(uint32(need)) {
			return 0, errors.AllocationFailed(size, align)
		}
		Logger().Debug("arena grown", zap.Uint64("pages", need), zap.Uint32("size", a.mem.Size()))
	}
	a.top = uint32(end)
	return ptr, nil
}

// Free releases the most recent allocation. Other regions stay reserved
// until Reset.
func (a *Arena) Free(ptr, size, align uint32) {
	if ptr+size == a.top {
		a.top = ptr
	}
}

// Reset releases every allocation. The memory keeps its size.
func (a *Arena) Reset() {
	a.top = arenaBase
}

// Close releases the wazero runtime.
func (a *Arena) Close(ctx context.Context) error {
	return a.rt.Close(ctx)
}

func alignTo(v, align uint32) uint32 {
	return (v + align - 1) &^ (align - 1)
}

// memoryModule encodes (module (memory (export "memory") pages)).
func memoryModule(pages uint32) []byte {
	limits := appendULEB128([]byte{0x01, 0x00}, pages) // one memory, no max
	b := []byte{
		0x00, 0x61, 0x73, 0x6d, // magic
		0x01, 0x00, 0x00, 0x00, // version
	}
	// Memory section
	b = append(b, 0x05)
	b = appendULEB128(b, uint32(len(limits)))
	b = append(b, limits...)
	// Export section: "memory" -> memory 0
	b = append(b, 0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00)
	return b
}

func appendULEB128(b []byte, v uint32) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		b = append(b, c)
		if v == 0 {
			return b
		}
	}
}

// Compile-time check that Arena implements textcodec.Allocator
var _ textcodec.Allocator = (*Arena)(nil)
