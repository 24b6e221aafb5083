package sink

import (
	"encoding/binary"
	"io"
)

// Unit is the width of a sink's code units: 8-bit (multibyte text) or
// 16-bit (UTF-16).
type Unit interface {
	~byte | ~uint16
}

// Sink receives code units in order. Append may be called many times per
// formatted string; a returned error aborts the formatting.
type Sink[U Unit] interface {
	Append(units []U) error
}

// Func adapts a function to a Sink.
type Func[U Unit] func(units []U) error

func (f Func[U]) Append(units []U) error {
	return f(units)
}

// Writer is an 8-bit sink over an io.Writer, typically a console stream.
type Writer struct {
	w io.Writer
	n int64
}

// NewWriter returns an 8-bit sink writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Append(units []byte) error {
	n, err := w.w.Write(units)
	w.n += int64(n)
	return err
}

// Written returns the number of bytes written so far.
func (w *Writer) Written() int64 {
	return w.n
}

// UTF16Writer is a 16-bit sink over an io.Writer. Units are serialized in
// the configured byte order without validation, so lone surrogates pass
// through unchanged.
type UTF16Writer struct {
	w       io.Writer
	order   binary.AppendByteOrder
	scratch []byte
	n       int64
}

// NewUTF16Writer returns a 16-bit sink writing to w in the given byte order.
// A nil order means little endian.
func NewUTF16Writer(w io.Writer, order binary.AppendByteOrder) *UTF16Writer {
	if order == nil {
		order = binary.LittleEndian
	}
	return &UTF16Writer{w: w, order: order}
}

func (w *UTF16Writer) Append(units []uint16) error {
	w.scratch = w.scratch[:0]
	for _, u := range units {
		w.scratch = w.order.AppendUint16(w.scratch, u)
	}
	n, err := w.w.Write(w.scratch)
	w.n += int64(n)
	return err
}

// Written returns the number of bytes written so far.
func (w *UTF16Writer) Written() int64 {
	return w.n
}
