// Package codec converts between a host multibyte encoding and UTF-16 code
// units, one logical character at a time.
//
// A Codec is bound to a locale.Locale and is immutable. Conversion progress
// lives in a State that the caller threads through every call of one
// traversal; the zero State is the neutral (initial shift) state.
//
// # Decoding
//
// DecodeUnit reads the character at the start of its input and returns one
// code unit:
//
//	var st codec.State
//	for off := 0; ; {
//		d, err := c.DecodeUnit(src[off:], &st)
//		if err != nil {
//			return err
//		}
//		if d.Status == codec.StatusEnd {
//			break
//		}
//		units = append(units, d.Unit)
//		off += d.Size
//	}
//
// A supplementary character comes back as two steps: the high surrogate with
// the full byte count, then the low surrogate as StatusStored with Size 0.
//
// # Encoding
//
// EncodeUnit appends at most MaxLen bytes per unit. A high surrogate is held
// in the state until its low half arrives. Flush, or a zero unit, returns a
// shift encoding such as ISO-2022-JP to its initial state.
//
// # Traversals
//
// AppendUTF16, AppendMultibyte, ToUTF16 and ToMultibyte run a whole sequence
// with a fresh state. They stop at a NUL, the end of input or the first
// failure, and return what was converted so far together with the error.
// With WithBestEffort the error is logged and dropped instead.
//
// # Errors
//
// Failures are *errors.Error values in PhaseDecode or PhaseEncode:
//
//	if errors.Is(err, tcerrors.ErrDecode) { ... }
package codec
