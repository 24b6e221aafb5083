// Package errors provides structured error types for the textcodec module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: location path, charset name, offset, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidSequence).
//		Path("args", "[1]").
//		Encoding("Shift_JIS").
//		Offset(4).
//		Detail("lead byte without trail byte").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidSequence("UTF-8", off, src[off:])
//	err := errors.ArgumentUnderflow(offset, consumed)
//
// The sentinels ErrDecode, ErrEncode and ErrArgumentUnderflow classify errors
// with the standard errors.Is.
package errors
