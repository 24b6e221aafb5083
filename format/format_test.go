package format

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"
	"unicode/utf16"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/encoding/japanese"

	"github.com/wippyai/textcodec/codec"
	"github.com/wippyai/textcodec/errors"
	"github.com/wippyai/textcodec/locale"
	"github.com/wippyai/textcodec/sink"
)

func newFormatter(t testing.TB, name string, opts ...Option) *Formatter {
	t.Helper()
	l, err := locale.Parse(name)
	if err != nil {
		t.Fatal(err)
	}
	c, err := codec.New(l)
	if err != nil {
		t.Fatal(err)
	}
	return New(c, opts...)
}

func TestSprint_NarrowSink(t *testing.T) {
	f := newFormatter(t, "C.UTF-8")

	out, err := f.Sprint(Template("Test%s%d%o,test"), UTF16("tester"), Str("test"), Int(13))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "Testtestertest13,test" {
		t.Errorf("got %q", out)
	}
}

func TestSprint16_WideSink(t *testing.T) {
	f := newFormatter(t, "C.UTF-8")

	out, err := f.Sprint16(Template("Bloopp%d,doo%t"), UTF16("er"), Str("dle"))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(utf16.Decode(out)); got != "Bloopper,doodle" {
		t.Errorf("got %q", got)
	}
}

func TestFprint_Substitution(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		args []Arg
		want string
	}{
		{"no triggers", "plain text", nil, "plain text"},
		{"trigger at end", "abc%", []Arg{Str("Z")}, "abcZ"},
		{"letter is never inspected", "a%%b", []Arg{Str("X")}, "aXb"},
		{"numeric under string letter", "n=%s", []Arg{Int(-7)}, "n=-7"},
		{"string under numeric letter", "s=%d", []Arg{Str("seven")}, "s=seven"},
		{"stops at zero unit", "ab\x00%s", nil, "ab"},
		{"zero right after trigger", "ab%\x00cd", []Arg{Str("Z")}, "abZ"},
		{"argument stops at NUL", "[%s]", []Arg{Str("in\x00out")}, "[in]"},
		{"wide argument stops at zero", "[%s]", []Arg{UTF16("in\x00out")}, "[in]"},
		{"supplementary in template", "\U0001d10b%s\U0001d10b", []Arg{Str("-")}, "\U0001d10b-\U0001d10b"},
		{"supplementary argument", "<%s>", []Arg{UTF16("\U0001d10b")}, "<\U0001d10b>"},
		{"surplus ignored", "x%s", []Arg{Str("A"), Str("B"), Int(3)}, "xA"},
	}

	f := newFormatter(t, "C.UTF-8")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			narrow, err := f.Sprint(Template(tt.tmpl), tt.args...)
			if err != nil {
				t.Fatalf("narrow: %v", err)
			}
			if string(narrow) != tt.want {
				t.Errorf("narrow: got %q, want %q", narrow, tt.want)
			}

			wide, err := f.Sprint16(Template(tt.tmpl), tt.args...)
			if err != nil {
				t.Fatalf("wide: %v", err)
			}
			if got := string(utf16.Decode(wide)); got != tt.want {
				t.Errorf("wide: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFprint_AllArgumentsConsumed(t *testing.T) {
	f := newFormatter(t, "C")

	for k := 0; k <= 6; k++ {
		tmpl := strings.Repeat("<%s>", k)
		args := make([]Arg, k)
		for i := range args {
			args[i] = Int(i)
		}
		out, err := f.Sprint(Template(tmpl), args...)
		if err != nil {
			t.Fatalf("k=%d: %v", k, err)
		}
		if bytes.ContainsRune(out, '%') {
			t.Errorf("k=%d: residual trigger in %q", k, out)
		}
		if bytes.Count(out, []byte("<")) != k {
			t.Errorf("k=%d: got %q", k, out)
		}
	}
}

func TestFprint_ArgumentUnderflow(t *testing.T) {
	f := newFormatter(t, "C.UTF-8")
	tmpl := Template("a%sb%sc%sd")

	for n := 0; n < 3; n++ {
		args := make([]Arg, n)
		for i := range args {
			args[i] = Str("X")
		}

		var buf sink.Buffer[byte]
		err := Fprint[byte](f, &buf, tmpl, args...)
		if !stderrors.Is(err, errors.ErrArgumentUnderflow) {
			t.Fatalf("n=%d: err = %v, want underflow", n, err)
		}

		var e *errors.Error
		if !stderrors.As(err, &e) {
			t.Fatalf("n=%d: error type %T", n, err)
		}
		wantOffset := 1 + 3*n
		if e.Offset != wantOffset {
			t.Errorf("n=%d: Offset = %d, want %d (trigger %d)", n, e.Offset, wantOffset, n+1)
		}
		if e.Value != n {
			t.Errorf("n=%d: consumed = %v", n, e.Value)
		}

		// everything before the failing trigger has reached the sink
		prefix := strings.ReplaceAll(string(utf16.Decode(tmpl[:wantOffset])), "%s", "X")
		if string(buf.Units()) != prefix {
			t.Errorf("n=%d: sink holds %q, want %q", n, buf.Units(), prefix)
		}
	}
}

func TestFprint_UnderflowAfterPartialOutput(t *testing.T) {
	f := newFormatter(t, "C.UTF-8")

	out, err := f.Sprint16(Template("Hello %s and %s!"), Str("you"))
	if !stderrors.Is(err, errors.ErrArgumentUnderflow) {
		t.Fatalf("err = %v", err)
	}
	if got := string(utf16.Decode(out)); got != "Hello you and " {
		t.Errorf("partial output = %q", got)
	}
}

func TestFprint_SurplusLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	f := newFormatter(t, "C.UTF-8")
	if _, err := f.Sprint(Template("%s"), Str("a"), Str("b")); err != nil {
		t.Fatal(err)
	}
	if logs.FilterMessage("surplus format arguments ignored").Len() != 1 {
		t.Errorf("expected one surplus log entry, got %d", logs.Len())
	}
}

func TestWithTrigger(t *testing.T) {
	f := newFormatter(t, "C.UTF-8", WithTrigger('$'))
	if f.Trigger() != '$' {
		t.Fatalf("Trigger = %q", rune(f.Trigger()))
	}

	out, err := f.Sprint(Template("100% of $d items"), Int(5))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "100% of 5 items" {
		t.Errorf("got %q", out)
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		arg  Arg
		want string
	}{
		{Int(13), "13"},
		{Int(int8(-128)), "-128"},
		{Uint(uint64(18446744073709551615)), "18446744073709551615"},
		{Float(3.5), "3.5"},
		{Float(13), "13"},
		{Float(0.1), "0.1"},
		{Float(1e20), "1e+20"},
		{Float(1234567.0), "1.23457e+06"},
		{Float32(0.1), "0.1"},
		{Bool(true), "1"},
		{Bool(false), "0"},
	}

	f := newFormatter(t, "C.UTF-8")
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			out, err := f.Sprint(Template("%d"), tt.arg)
			if err != nil {
				t.Fatal(err)
			}
			if string(out) != tt.want {
				t.Errorf("narrow: got %q", out)
			}
			wide, err := f.Sprint16(Template("%d"), tt.arg)
			if err != nil {
				t.Fatal(err)
			}
			if got := string(utf16.Decode(wide)); got != tt.want {
				t.Errorf("wide: got %q", got)
			}
		})
	}
}

func TestFprint_HostCharset(t *testing.T) {
	f := newFormatter(t, "ja_JP.SJIS")

	out, err := f.Sprint(Template("値:%s/%s"), UTF16("水"), Int(42))
	if err != nil {
		t.Fatal(err)
	}
	want, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte("値:水/42"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, want) {
		t.Errorf("got %x, want %x", out, want)
	}

	sjis, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte("水"))
	if err != nil {
		t.Fatal(err)
	}
	wide, err := f.Sprint16(Template("[%s]"), Bytes(sjis))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(utf16.Decode(wide)); got != "[水]" {
		t.Errorf("wide got %q", got)
	}
}

func TestFprint_ShiftStateResetAroundArguments(t *testing.T) {
	f := newFormatter(t, "ja_JP.ISO-2022-JP")

	out, err := f.Sprint(Template("あ%sい"), Str("x"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out, []byte("\x1b(Bx")) {
		t.Errorf("argument not preceded by a return to ASCII: %x", out)
	}
	if !bytes.HasSuffix(out, []byte("\x1b(B")) {
		t.Errorf("output does not end in the initial state: %x", out)
	}

	units, err := f.Codec().ToUTF16(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(utf16.Decode(units)); got != "あxい" {
		t.Errorf("decoded %q", got)
	}
}

func TestFprint_Errors(t *testing.T) {
	t.Run("unrepresentable argument", func(t *testing.T) {
		f := newFormatter(t, "de_DE.ISO-8859-1")
		out, err := f.Sprint(Template("ok %s"), UTF16("a水"))
		if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindUnrepresentable}) {
			t.Fatalf("err = %v", err)
		}
		var e *errors.Error
		stderrors.As(err, &e)
		if len(e.Path) != 1 || e.Path[0] != "args[0]" {
			t.Errorf("Path = %v", e.Path)
		}
		if e.Offset != 1 {
			t.Errorf("Offset = %d, want 1", e.Offset)
		}
		if string(out) != "ok a" {
			t.Errorf("partial output %q", out)
		}
	})

	t.Run("unrepresentable template", func(t *testing.T) {
		f := newFormatter(t, "de_DE.ISO-8859-1")
		_, err := f.Sprint(Template("ab水%s"), Str("x"))
		var e *errors.Error
		if !stderrors.As(err, &e) {
			t.Fatalf("err = %v", err)
		}
		if e.Kind != errors.KindUnrepresentable || e.Path[0] != "template" || e.Offset != 2 {
			t.Errorf("got %s at %v offset %d", e.Kind, e.Path, e.Offset)
		}
	})

	t.Run("invalid argument bytes", func(t *testing.T) {
		f := newFormatter(t, "C.UTF-8")
		_, err := f.Sprint16(Template("%s %s"), Str("fine"), Str("bad\xff"))
		if !stderrors.Is(err, errors.ErrDecode) {
			t.Fatalf("err = %v", err)
		}
		var e *errors.Error
		stderrors.As(err, &e)
		if e.Path[0] != "args[1]" || e.Offset != 3 {
			t.Errorf("got %v offset %d", e.Path, e.Offset)
		}
	})

	t.Run("zero arg", func(t *testing.T) {
		f := newFormatter(t, "C.UTF-8")
		_, err := f.Sprint(Template("%s"), Arg{})
		if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseFormat, Kind: errors.KindInvalidInput}) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("sink failure", func(t *testing.T) {
		f := newFormatter(t, "C.UTF-8")
		boom := stderrors.New("disk full")
		dst := sink.Func[byte](func([]byte) error { return boom })
		err := Fprint[byte](f, dst, Template("x"))
		if !stderrors.Is(err, boom) {
			t.Fatalf("err = %v, want cause", err)
		}
		if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseFormat, Kind: errors.KindSink}) {
			t.Errorf("err = %v, want sink kind", err)
		}
	})

	t.Run("nil codec", func(t *testing.T) {
		err := Fprint[byte](New(nil), &sink.Buffer[byte]{}, Template("x"))
		if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseFormat, Kind: errors.KindNilPointer}) {
			t.Errorf("err = %v", err)
		}
	})
}

type narrowUnit byte
type wideUnit uint16

func TestFprint_NamedUnitTypes(t *testing.T) {
	f := newFormatter(t, "C.UTF-8")

	var n sink.Buffer[narrowUnit]
	if err := Fprint[narrowUnit](f, &n, Template("ß%s"), UTF16("水")); err != nil {
		t.Fatal(err)
	}
	raw := make([]byte, n.Len())
	for i, u := range n.Units() {
		raw[i] = byte(u)
	}
	if string(raw) != "ß水" {
		t.Errorf("narrow got %q", raw)
	}

	var w sink.Buffer[wideUnit]
	if err := Fprint[wideUnit](f, &w, Template("ß%s"), Str("水")); err != nil {
		t.Fatal(err)
	}
	units := make([]uint16, w.Len())
	for i, u := range w.Units() {
		units[i] = uint16(u)
	}
	if got := string(utf16.Decode(units)); got != "ß水" {
		t.Errorf("wide got %q", got)
	}
}

func TestFprint_Writer(t *testing.T) {
	f := newFormatter(t, "C.UTF-8")
	var out bytes.Buffer

	if err := Fprint[uint16](f, sink.NewUTF16Writer(&out, nil), Template("%s!"), Str("hi")); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Bytes(), []byte{'h', 0, 'i', 0, '!', 0}) {
		t.Errorf("got %x", out.Bytes())
	}
}

func TestOf(t *testing.T) {
	tests := []struct {
		in   any
		kind ArgKind
		text string
	}{
		{"s", ArgString8, `str8("s")`},
		{[]byte("b"), ArgString8, `str8("b")`},
		{[]uint16{'w'}, ArgString16, `str16("w")`},
		{int32(-3), ArgNumber, "number(-3)"},
		{uint8(200), ArgNumber, "number(200)"},
		{2.5, ArgNumber, "number(2.5)"},
		{float32(0.25), ArgNumber, "number(0.25)"},
		{true, ArgNumber, "number(1)"},
		{UTF16("x"), ArgString16, `str16("x")`},
	}
	for _, tt := range tests {
		a, err := Of(tt.in)
		if err != nil {
			t.Fatalf("Of(%#v): %v", tt.in, err)
		}
		if a.Kind() != tt.kind {
			t.Errorf("Of(%#v).Kind() = %v, want %v", tt.in, a.Kind(), tt.kind)
		}
		if a.String() != tt.text {
			t.Errorf("Of(%#v).String() = %q, want %q", tt.in, a.String(), tt.text)
		}
	}

	if _, err := Of(struct{}{}); err == nil {
		t.Error("expected error for struct")
	}
}
