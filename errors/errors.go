package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode Phase = "decode" // multibyte to UTF-16
	PhaseEncode Phase = "encode" // UTF-16 to multibyte
	PhaseFormat Phase = "format" // template substitution
	PhaseLocale Phase = "locale" // encoding configuration
	PhaseMemory Phase = "memory" // linear memory access
	PhaseConfig Phase = "config" // environment loading
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidSequence    Kind = "invalid_sequence"
	KindIncompleteSequence Kind = "incomplete_sequence"
	KindUnrepresentable    Kind = "unrepresentable"
	KindArgumentUnderflow  Kind = "argument_underflow"
	KindUnknownEncoding    Kind = "unknown_encoding"
	KindAlreadyInitialized Kind = "already_initialized"
	KindNotInitialized     Kind = "not_initialized"
	KindOutOfBounds        Kind = "out_of_bounds"
	KindAllocation         Kind = "allocation"
	KindNilPointer         Kind = "nil_pointer"
	KindInvalidInput       Kind = "invalid_input"
	KindSink               Kind = "sink"
)

// Sentinels for errors.Is. A target without a Kind matches any error of the
// same Phase.
var (
	ErrDecode            = &Error{Phase: PhaseDecode}
	ErrEncode            = &Error{Phase: PhaseEncode}
	ErrArgumentUnderflow = &Error{Phase: PhaseFormat, Kind: KindArgumentUnderflow}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Encoding string
	Detail   string
	Path     []string
	Offset   int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Encoding != "" {
		b.WriteString(" (")
		b.WriteString(e.Encoding)
		b.WriteByte(')')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind == "" {
		return e.Phase == t.Phase
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// WithPath returns a copy of e with prefix prepended to its path.
// Used by callers that route a nested traversal error upward.
func (e *Error) WithPath(prefix ...string) *Error {
	c := *e
	c.Path = append(append([]string{}, prefix...), e.Path...)
	return &c
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the location path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Encoding sets the charset name
func (b *Builder) Encoding(name string) *Builder {
	b.err.Encoding = name
	return b
}

// Offset sets the unit or byte offset the error refers to
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidSequence creates a decode error for bytes that do not form a
// character in the named encoding
func InvalidSequence(encoding string, offset int, data []byte) *Error {
	preview := data
	if len(preview) > 8 {
		preview = preview[:8]
	}
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindInvalidSequence,
		Encoding: encoding,
		Offset:   offset,
		Value:    append([]byte(nil), preview...),
		Detail:   fmt.Sprintf("invalid byte sequence %x", preview),
	}
}

// IncompleteSequence creates a decode error for input that ends inside a
// multibyte character
func IncompleteSequence(encoding string, offset int, data []byte) *Error {
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindIncompleteSequence,
		Encoding: encoding,
		Offset:   offset,
		Value:    append([]byte(nil), data...),
		Detail:   fmt.Sprintf("input ends inside a character (%d trailing bytes)", len(data)),
	}
}

// Unrepresentable creates an encode error for a unit or rune the target
// encoding cannot express
func Unrepresentable(encoding string, r rune, cause error) *Error {
	return &Error{
		Phase:    PhaseEncode,
		Kind:     KindUnrepresentable,
		Encoding: encoding,
		Value:    r,
		Detail:   fmt.Sprintf("U+%04X has no representation", r),
		Cause:    cause,
	}
}

// UnpairedSurrogate creates an encode error for a surrogate half that is not
// part of a valid pair
func UnpairedSurrogate(encoding string, unit uint16) *Error {
	return &Error{
		Phase:    PhaseEncode,
		Kind:     KindInvalidSequence,
		Encoding: encoding,
		Value:    unit,
		Detail:   fmt.Sprintf("unpaired surrogate 0x%04X", unit),
	}
}

// ArgumentUnderflow creates a format error for a trigger that has no
// argument left to consume
func ArgumentUnderflow(offset, consumed int) *Error {
	return &Error{
		Phase:  PhaseFormat,
		Kind:   KindArgumentUnderflow,
		Path:   []string{"template"},
		Offset: offset,
		Value:  consumed,
		Detail: fmt.Sprintf("format trigger at offset %d has no matching argument (%d consumed)", offset, consumed),
	}
}

// UnknownEncoding creates a locale error for a charset that cannot be resolved
func UnknownEncoding(name string, cause error) *Error {
	return &Error{
		Phase:  PhaseLocale,
		Kind:   KindUnknownEncoding,
		Value:  name,
		Detail: fmt.Sprintf("charset %q is not supported", name),
		Cause:  cause,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, offset, length, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Offset: offset,
		Detail: fmt.Sprintf("%d bytes at offset %d exceed limit %d", length, offset, limit),
		Value:  offset,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(size, align uint32) *Error {
	return &Error{
		Phase:  PhaseMemory,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Detail: what + " is nil",
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// SinkFailed creates a format error for a sink that rejected output
func SinkFailed(cause error) *Error {
	return &Error{
		Phase:  PhaseFormat,
		Kind:   KindSink,
		Detail: "sink rejected output",
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
