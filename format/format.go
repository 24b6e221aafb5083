package format

import (
	"fmt"
	"unicode/utf16"

	"go.uber.org/zap"

	"github.com/wippyai/textcodec/codec"
	"github.com/wippyai/textcodec/errors"
	"github.com/wippyai/textcodec/sink"
)

// DefaultTrigger is the unit that introduces a substitution.
const DefaultTrigger uint16 = '%'

// Formatter substitutes arguments into UTF-16 templates. It is immutable
// and safe for concurrent use.
type Formatter struct {
	c       *codec.Codec
	trigger uint16
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithTrigger replaces the '%' trigger unit.
func WithTrigger(u uint16) Option {
	return func(f *Formatter) {
		f.trigger = u
	}
}

// New creates a formatter that transcodes through c.
func New(c *codec.Codec, opts ...Option) *Formatter {
	f := &Formatter{c: c, trigger: DefaultTrigger}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Codec returns the codec used for transcoding.
func (f *Formatter) Codec() *codec.Codec {
	return f.c
}

// Trigger returns the trigger unit.
func (f *Formatter) Trigger() uint16 {
	return f.trigger
}

// Template converts s to a UTF-16 template.
func Template(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// Fprint writes tmpl to dst, replacing each trigger and the unit following
// it with the next argument. The template ends at its first zero unit or at
// its end. Arguments left over at the end are ignored; a trigger with no
// argument left fails with errors.ErrArgumentUnderflow after everything
// before it has been written.
func Fprint[U sink.Unit](f *Formatter, dst sink.Sink[U], tmpl []uint16, args ...Arg) error {
	if f == nil || f.c == nil {
		return errors.NilPointer(errors.PhaseFormat, "formatter codec")
	}
	if dst == nil {
		return errors.NilPointer(errors.PhaseFormat, "sink")
	}
	var out emitter
	if isWide[U]() {
		out = &wide[U]{c: f.c, dst: dst}
	} else {
		out = &narrow[U]{c: f.c, dst: dst}
	}
	return f.run(out, tmpl, args)
}

// Sprint formats into host multibyte text. On failure it returns the output
// produced before the failure.
func (f *Formatter) Sprint(tmpl []uint16, args ...Arg) ([]byte, error) {
	buf := sink.Acquire8()
	defer buf.Release()
	err := Fprint[byte](f, buf, tmpl, args...)
	return buf.Clone(), err
}

// Sprint16 formats into UTF-16. On failure it returns the output produced
// before the failure.
func (f *Formatter) Sprint16(tmpl []uint16, args ...Arg) ([]uint16, error) {
	buf := sink.Acquire16()
	defer buf.Release()
	err := Fprint[uint16](f, buf, tmpl, args...)
	return buf.Clone(), err
}

func (f *Formatter) run(out emitter, tmpl []uint16, args []Arg) error {
	next := 0
	for i := 0; i < len(tmpl) && tmpl[i] != 0; i++ {
		u := tmpl[i]
		if u != f.trigger {
			if err := out.literal(u); err != nil {
				return located(err, i, "template")
			}
			continue
		}

		if err := out.flush(); err != nil {
			return located(err, i, "template")
		}
		if next == len(args) {
			return errors.ArgumentUnderflow(i, next)
		}
		if err := out.arg(args[next]); err != nil {
			return located(err, 0, fmt.Sprintf("args[%d]", next))
		}
		next++

		// the unit after the trigger is the specifier letter
		if i+1 >= len(tmpl) || tmpl[i+1] == 0 {
			break
		}
		i++
	}

	if err := out.flush(); err != nil {
		return located(err, len(tmpl), "template")
	}
	if next < len(args) {
		Logger().Debug("surplus format arguments ignored",
			zap.Int("used", next),
			zap.Int("given", len(args)))
	}
	return nil
}

func located(err error, off int, path string) error {
	if e, ok := err.(*errors.Error); ok {
		w := e.WithPath(path)
		w.Offset += off
		return w
	}
	return err
}

// isWide reports whether U is a 16-bit unit.
func isWide[U sink.Unit]() bool {
	return uint16(^U(0)) == 0xffff
}

func convert[U sink.Unit, V byte | uint16](dst []U, src []V) []U {
	for _, v := range src {
		dst = append(dst, U(v))
	}
	return dst
}

// emitter renders template pieces into one kind of sink.
type emitter interface {
	// literal queues one template unit.
	literal(u uint16) error
	// flush sends queued template output to the sink and returns the
	// template to its initial shift state.
	flush() error
	// arg renders one argument directly to the sink.
	arg(a Arg) error
}

// narrow writes host multibyte text. Template units go through one codec
// state; every argument is converted with a fresh one.
type narrow[U sink.Unit] struct {
	c       *codec.Codec
	dst     sink.Sink[U]
	st      codec.State
	pending []byte
	scratch []byte
	out     []U
}

func (n *narrow[U]) put(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	n.out = convert(n.out[:0], b)
	if err := n.dst.Append(n.out); err != nil {
		return errors.SinkFailed(err)
	}
	return nil
}

func (n *narrow[U]) literal(u uint16) error {
	var err error
	n.pending, err = n.c.EncodeUnit(n.pending, u, &n.st)
	return err
}

func (n *narrow[U]) flush() error {
	var err error
	n.pending, err = n.c.Flush(n.pending, &n.st)
	if perr := n.put(n.pending); perr != nil && err == nil {
		err = perr
	}
	n.pending = n.pending[:0]
	return err
}

func (n *narrow[U]) arg(a Arg) error {
	var err error
	switch a.kind {
	case ArgString8:
		return n.put(upToNUL(a.s8))
	case ArgString16:
		n.scratch, err = n.c.AppendMultibyte(n.scratch[:0], a.s16)
	case ArgNumber:
		var text [32]byte
		var units [32]uint16
		n.scratch, err = n.c.AppendMultibyte(n.scratch[:0], convert(units[:0], a.appendNumber(text[:0])))
	default:
		return errors.InvalidInput(errors.PhaseFormat, "zero Arg")
	}
	if perr := n.put(n.scratch); perr != nil && err == nil {
		err = perr
	}
	return err
}

// wide writes UTF-16. Template units are copied verbatim.
type wide[U sink.Unit] struct {
	c       *codec.Codec
	dst     sink.Sink[U]
	pending []U
	scratch []uint16
}

func (w *wide[U]) put(units []U) error {
	if len(units) == 0 {
		return nil
	}
	if err := w.dst.Append(units); err != nil {
		return errors.SinkFailed(err)
	}
	return nil
}

func (w *wide[U]) literal(u uint16) error {
	w.pending = append(w.pending, U(u))
	return nil
}

func (w *wide[U]) flush() error {
	err := w.put(w.pending)
	w.pending = w.pending[:0]
	return err
}

func (w *wide[U]) arg(a Arg) error {
	var err error
	switch a.kind {
	case ArgString8:
		w.scratch, err = w.c.AppendUTF16(w.scratch[:0], a.s8)
	case ArgString16:
		w.scratch = append(w.scratch[:0], upToNUL(a.s16)...)
	case ArgNumber:
		var text [32]byte
		w.scratch = convert(w.scratch[:0], a.appendNumber(text[:0]))
	default:
		return errors.InvalidInput(errors.PhaseFormat, "zero Arg")
	}
	w.pending = convert(w.pending[:0], w.scratch)
	if perr := w.flush(); perr != nil && err == nil {
		err = perr
	}
	return err
}
