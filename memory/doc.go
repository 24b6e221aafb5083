// Package memory exposes WebAssembly linear memory, through wazero, as a
// text sink and as a source of NUL-terminated sequences.
//
// An Arena is a self-contained memory for hosts that have no module of
// their own:
//
//	a, err := memory.NewArena(ctx, 1)
//	if err != nil {
//		return err
//	}
//	defer a.Close(ctx)
//
//	s, err := memory.AllocSink[uint16](a.Memory(), a, 64)
//	err = format.Fprint[uint16](f, s, tmpl, args...)
//	err = s.Terminate()
//	units, err := memory.ReadCString16(a.Memory(), s.Ptr(), s.Cap())
//
// Wrap adapts the memory of an already instantiated wazero module.
package memory
