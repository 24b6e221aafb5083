package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/textcodec/codec"
	"github.com/wippyai/textcodec/format"
)

// argList collects repeated -arg flags.
type argList []string

func (l *argList) String() string {
	return strings.Join(*l, " ")
}

func (l *argList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// Argument kinds besides the WIT primitive names.
const (
	kindStr8  = "str8"
	kindStr16 = "str16"
)

// Strings in an explicit width are lists of code units.
var (
	str8Type  = namedList(kindStr8, wit.U8{})
	str16Type = namedList(kindStr16, wit.U16{})
)

func namedList(name string, elem wit.Type) *wit.TypeDef {
	return &wit.TypeDef{Name: &name, Kind: &wit.List{Type: elem}}
}

var witKinds = func() map[string]wit.Type {
	m := make(map[string]wit.Type)
	for _, t := range []wit.Type{
		wit.Bool{},
		wit.U8{}, wit.U16{}, wit.U32{}, wit.U64{},
		wit.S8{}, wit.S16{}, wit.S32{}, wit.S64{},
		wit.F32{}, wit.F64{},
		wit.Char{}, wit.String{},
		str8Type, str16Type,
	} {
		m[witTypeStr(t)] = t
	}
	return m
}()

func kindNames() []string {
	names := []string{kindStr8, kindStr16}
	for name := range witKinds {
		if name != kindStr8 && name != kindStr16 {
			names = append(names, name)
		}
	}
	sort.Strings(names[2:])
	return names
}

func witTypeStr(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		if l, ok := v.Kind.(*wit.List); ok {
			return "list<" + witTypeStr(l.Type) + ">"
		}
		return "typedef"
	default:
		return fmt.Sprintf("%T", t)
	}
}

// typedArg is a formatting argument with the WIT type it was parsed as.
type typedArg struct {
	arg  format.Arg
	typ  wit.Type
	spec string
}

// parseArg turns "kind:value" into a formatting argument. A spec without a
// kind is an 8-bit string. 16-bit strings are decoded from the host
// encoding with c.
func parseArg(spec string, c *codec.Codec) (typedArg, error) {
	kind, value, ok := strings.Cut(spec, ":")
	t, known := witKinds[kind]
	if !ok || !known {
		// "a:b" with an unknown prefix is a plain string that contains a colon
		return typedArg{arg: format.Str(spec), typ: str8Type, spec: spec}, nil
	}

	a, err := convertTyped(value, t, c)
	if err != nil {
		return typedArg{}, fmt.Errorf("argument %q: %w", spec, err)
	}
	return typedArg{arg: a, typ: t, spec: spec}, nil
}

func convertTyped(value string, t wit.Type, c *codec.Codec) (format.Arg, error) {
	switch t {
	case str8Type:
		return format.Str(value), nil
	case str16Type:
		units, err := c.ToUTF16([]byte(value))
		if err != nil {
			return format.Arg{}, err
		}
		return format.Units(units), nil
	}
	v, err := convertArg(value, t)
	if err != nil {
		return format.Arg{}, err
	}
	if _, isChar := t.(wit.Char); isChar {
		return format.UTF16(v.(string)), nil
	}
	return format.Of(v)
}

func convertArg(value string, t wit.Type) (any, error) {
	switch t.(type) {
	case wit.String:
		return value, nil
	case wit.Char:
		if utf8.RuneCountInString(value) != 1 {
			return nil, fmt.Errorf("char needs exactly one character, got %q", value)
		}
		return value, nil
	case wit.U8:
		v, err := strconv.ParseUint(value, 10, 8)
		return uint8(v), err
	case wit.U16:
		v, err := strconv.ParseUint(value, 10, 16)
		return uint16(v), err
	case wit.U32:
		v, err := strconv.ParseUint(value, 10, 32)
		return uint32(v), err
	case wit.S8:
		v, err := strconv.ParseInt(value, 10, 8)
		return int8(v), err
	case wit.S16:
		v, err := strconv.ParseInt(value, 10, 16)
		return int16(v), err
	case wit.S32:
		v, err := strconv.ParseInt(value, 10, 32)
		return int32(v), err
	case wit.U64:
		return strconv.ParseUint(value, 10, 64)
	case wit.S64:
		return strconv.ParseInt(value, 10, 64)
	case wit.F32:
		v, err := strconv.ParseFloat(value, 32)
		return float32(v), err
	case wit.F64:
		return strconv.ParseFloat(value, 64)
	case wit.Bool:
		return strconv.ParseBool(value)
	default:
		return nil, fmt.Errorf("unsupported kind %T", t)
	}
}

func parseArgs(specs []string, c *codec.Codec) ([]typedArg, error) {
	args := make([]typedArg, 0, len(specs))
	for _, spec := range specs {
		a, err := parseArg(spec, c)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return args, nil
}

func formatArgs(typed []typedArg) []format.Arg {
	args := make([]format.Arg, len(typed))
	for i, a := range typed {
		args[i] = a.arg
	}
	return args
}
