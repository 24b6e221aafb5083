package format

import (
	"fmt"
	"strconv"
	"unicode/utf16"

	"github.com/wippyai/textcodec/errors"
)

// ArgKind is the tag of an Arg.
type ArgKind uint8

const (
	ArgString8  ArgKind = iota + 1 // host multibyte string
	ArgString16                    // UTF-16 string
	ArgNumber                      // numeric scalar
)

func (k ArgKind) String() string {
	switch k {
	case ArgString8:
		return "str8"
	case ArgString16:
		return "str16"
	case ArgNumber:
		return "number"
	default:
		return "invalid"
	}
}

type numKind uint8

const (
	numSigned numKind = iota
	numUnsigned
	numFloat32
	numFloat64
	numBool
)

// Arg is one formatting argument. The tag, not the specifier letter in the
// template, decides how it is rendered.
type Arg struct {
	s8   []byte
	s16  []uint16
	i    int64
	u    uint64
	f    float64
	kind ArgKind
	num  numKind
}

// Bytes is an 8-bit string argument in the host multibyte encoding.
func Bytes(b []byte) Arg {
	return Arg{kind: ArgString8, s8: b}
}

// Str is an 8-bit string argument holding the bytes of s unchanged.
func Str(s string) Arg {
	return Bytes([]byte(s))
}

// Units is a 16-bit string argument.
func Units(u []uint16) Arg {
	return Arg{kind: ArgString16, s16: u}
}

// UTF16 is a 16-bit string argument holding s encoded as UTF-16.
func UTF16(s string) Arg {
	return Units(utf16.Encode([]rune(s)))
}

// Int is a signed integer argument.
func Int[T ~int | ~int8 | ~int16 | ~int32 | ~int64](v T) Arg {
	return Arg{kind: ArgNumber, num: numSigned, i: int64(v)}
}

// Uint is an unsigned integer argument.
func Uint[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr](v T) Arg {
	return Arg{kind: ArgNumber, num: numUnsigned, u: uint64(v)}
}

// Float is a floating point argument.
func Float(v float64) Arg {
	return Arg{kind: ArgNumber, num: numFloat64, f: v}
}

// Float32 is a single precision floating point argument.
func Float32(v float32) Arg {
	return Arg{kind: ArgNumber, num: numFloat32, f: float64(v)}
}

// Bool is a boolean argument, rendered as 1 or 0.
func Bool(v bool) Arg {
	a := Arg{kind: ArgNumber, num: numBool}
	if v {
		a.u = 1
	}
	return a
}

// Of converts a Go value to an Arg. Strings become 8-bit strings; use UTF16
// for 16-bit ones.
func Of(v any) (Arg, error) {
	switch x := v.(type) {
	case Arg:
		return x, nil
	case string:
		return Str(x), nil
	case []byte:
		return Bytes(x), nil
	case []uint16:
		return Units(x), nil
	case int:
		return Int(x), nil
	case int8:
		return Int(x), nil
	case int16:
		return Int(x), nil
	case int32:
		return Int(x), nil
	case int64:
		return Int(x), nil
	case uint:
		return Uint(x), nil
	case uint8:
		return Uint(x), nil
	case uint16:
		return Uint(x), nil
	case uint32:
		return Uint(x), nil
	case uint64:
		return Uint(x), nil
	case float32:
		return Float32(x), nil
	case float64:
		return Float(x), nil
	case bool:
		return Bool(x), nil
	default:
		return Arg{}, errors.New(errors.PhaseFormat, errors.KindInvalidInput).
			Value(v).
			Detail("unsupported argument type %T", v).
			Build()
	}
}

// Kind returns the tag of a.
func (a Arg) Kind() ArgKind {
	return a.kind
}

// appendNumber renders a numeric argument as ASCII text.
func (a Arg) appendNumber(dst []byte) []byte {
	switch a.num {
	case numSigned:
		return strconv.AppendInt(dst, a.i, 10)
	case numUnsigned:
		return strconv.AppendUint(dst, a.u, 10)
	case numFloat32:
		return strconv.AppendFloat(dst, a.f, 'g', 6, 32)
	case numFloat64:
		return strconv.AppendFloat(dst, a.f, 'g', 6, 64)
	default:
		if a.u != 0 {
			return append(dst, '1')
		}
		return append(dst, '0')
	}
}

func (a Arg) String() string {
	switch a.kind {
	case ArgString8:
		return fmt.Sprintf("str8(%q)", a.s8)
	case ArgString16:
		return fmt.Sprintf("str16(%q)", string(utf16.Decode(a.s16)))
	case ArgNumber:
		return "number(" + string(a.appendNumber(nil)) + ")"
	default:
		return "invalid"
	}
}

// upToNUL returns the prefix of s before its first zero unit.
func upToNUL[T byte | uint16](s []T) []T {
	for i, u := range s {
		if u == 0 {
			return s[:i]
		}
	}
	return s
}
