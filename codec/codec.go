package codec

import (
	"bytes"
	"unicode/utf16"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/transform"

	"github.com/wippyai/textcodec/errors"
	"github.com/wippyai/textcodec/locale"
)

// Status classifies the outcome of DecodeUnit.
type Status uint8

const (
	// StatusUnit: Unit was decoded from Size bytes of input.
	StatusUnit Status = iota
	// StatusStored: Unit was released from the state without consuming
	// input (Size is 0), e.g. the low half of a surrogate pair.
	StatusStored
	// StatusEnd: a NUL character or the end of input was reached. Size
	// counts the bytes consumed on the way, if any.
	StatusEnd
)

func (s Status) String() string {
	switch s {
	case StatusUnit:
		return "unit"
	case StatusStored:
		return "stored"
	case StatusEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Decoded is one step of a multibyte to UTF-16 traversal.
type Decoded struct {
	Unit   uint16
	Size   int
	Status Status
}

// Codec converts between one host multibyte encoding and UTF-16 code
// units. It is immutable and safe for concurrent use; the State values it
// works with are not.
type Codec struct {
	loc        locale.Locale
	bestEffort bool
}

// Option configures a Codec.
type Option func(*Codec)

// WithBestEffort makes the string traversals stop silently at the first
// conversion failure: they return the output produced so far and a nil
// error. The dropped error is logged at warn level.
func WithBestEffort() Option {
	return func(c *Codec) {
		c.bestEffort = true
	}
}

// New creates a codec for the multibyte encoding of loc.
func New(loc locale.Locale, opts ...Option) (*Codec, error) {
	if loc.Charset == "" {
		return nil, errors.InvalidInput(errors.PhaseLocale, "locale has no charset")
	}
	if !loc.IsUTF8() && loc.Encoding == nil {
		return nil, errors.NilPointer(errors.PhaseLocale, "encoding for "+loc.Charset)
	}
	if loc.MaxLen <= 0 {
		loc.MaxLen = utf8.UTFMax
	}

	c := &Codec{loc: loc}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Locale returns the encoding configuration the codec is bound to.
func (c *Codec) Locale() locale.Locale {
	return c.loc
}

// MaxLen returns the maximum number of bytes EncodeUnit appends for one unit.
func (c *Codec) MaxLen() int {
	return c.loc.MaxLen
}

// BestEffort reports whether traversals swallow conversion errors.
func (c *Codec) BestEffort() bool {
	return c.bestEffort
}

func (c *Codec) bind(st *State) error {
	if st == nil {
		return errors.NilPointer(errors.PhaseDecode, "state")
	}
	if st.owner == nil {
		st.owner = c
		return nil
	}
	if st.owner != c {
		return errors.InvalidInput(errors.PhaseDecode, "state belongs to another codec")
	}
	return nil
}

// DecodeUnit converts the character at the start of src to one UTF-16 code
// unit. src holds the bytes remaining from the caller's cursor; the caller
// advances its cursor by Size and passes the same state to the next call.
//
// A supplementary character yields its high surrogate with the full byte
// count, and its low surrogate on the following call as StatusStored.
func (c *Codec) DecodeUnit(src []byte, st *State) (Decoded, error) {
	if err := c.bind(st); err != nil {
		return Decoded{}, err
	}
	if len(st.stored) > 0 {
		return Decoded{Unit: st.takeStored(), Status: StatusStored}, nil
	}
	if len(src) == 0 {
		return Decoded{Status: StatusEnd}, nil
	}
	if c.loc.IsUTF8() {
		return c.decodeUTF8(src, st)
	}
	return c.decodeCharset(src, st)
}

func (c *Codec) decodeUTF8(src []byte, st *State) (Decoded, error) {
	if src[0] == 0 {
		return Decoded{Size: 1, Status: StatusEnd}, nil
	}
	r, size := utf8.DecodeRune(src)
	if r == utf8.RuneError && size <= 1 {
		if !utf8.FullRune(src) {
			return Decoded{}, errors.IncompleteSequence(c.loc.Charset, 0, src)
		}
		return Decoded{}, errors.InvalidSequence(c.loc.Charset, 0, src)
	}
	return c.emit(appendUnits(nil, r), size, st), nil
}

func (c *Codec) decodeCharset(src []byte, st *State) (Decoded, error) {
	if st.dec == nil {
		st.dec = c.loc.Encoding.NewDecoder()
	}

	var out [2 * utf8.UTFMax]byte
	off := 0
	// Feed one more byte per round so the first output belongs to the
	// first character. atEOF stays false: an unfinished character at the
	// end of src is incomplete, not invalid.
	for end := 1; end <= len(src); end++ {
		nDst, nSrc, err := st.dec.Transform(out[:], src[off:end], false)
		off += nSrc
		if nDst > 0 {
			return c.decoded(out[:nDst], src[:off], st)
		}
		if err != nil && err != transform.ErrShortSrc {
			st.resetDecoder()
			return Decoded{}, errors.New(errors.PhaseDecode, errors.KindInvalidSequence).
				Encoding(c.loc.Charset).
				Value(append([]byte(nil), src[:end]...)).
				Cause(err).
				Detail("decoder rejected %x", src[:end]).
				Build()
		}
	}
	if off < len(src) {
		st.resetDecoder()
		return Decoded{}, errors.IncompleteSequence(c.loc.Charset, off, src[off:])
	}
	// only shift sequences were left
	return Decoded{Size: off, Status: StatusEnd}, nil
}

// decoded turns the UTF-8 output of an x/text decoder for the character
// spelled by raw into a step.
func (c *Codec) decoded(out, raw []byte, st *State) (Decoded, error) {
	var units []uint16
	for len(out) > 0 {
		r, n := utf8.DecodeRune(out)
		if r == utf8.RuneError && !c.spellsReplacement(raw) {
			st.resetDecoder()
			return Decoded{}, errors.InvalidSequence(c.loc.Charset, 0, raw)
		}
		if r == 0 && len(units) == 0 {
			return Decoded{Size: len(raw), Status: StatusEnd}, nil
		}
		units = appendUnits(units, r)
		out = out[n:]
	}
	return c.emit(units, len(raw), st), nil
}

// spellsReplacement reports whether raw is a genuine encoding of U+FFFD
// rather than the decoder's substitute for bad input.
func (c *Codec) spellsReplacement(raw []byte) bool {
	want, err := c.loc.Encoding.NewEncoder().Bytes([]byte(string(utf8.RuneError)))
	return err == nil && bytes.Equal(want, raw)
}

func (c *Codec) emit(units []uint16, size int, st *State) Decoded {
	if len(units) > 1 {
		st.store(units[1:])
	}
	return Decoded{Unit: units[0], Size: size, Status: StatusUnit}
}

func appendUnits(units []uint16, r rune) []uint16 {
	if r >= 0x10000 {
		hi, lo := utf16.EncodeRune(r)
		return append(units, uint16(hi), uint16(lo))
	}
	return append(units, uint16(r))
}

// EncodeUnit appends the multibyte encoding of one UTF-16 code unit to dst.
//
// A high surrogate appends nothing: it waits in the state for the low
// surrogate, and the pair is encoded as one character. A zero unit returns
// the state to the initial shift state and appends the reset sequence, if
// any, followed by a NUL byte.
func (c *Codec) EncodeUnit(dst []byte, unit uint16, st *State) ([]byte, error) {
	if err := c.bind(st); err != nil {
		return dst, err
	}

	switch {
	case st.high != 0:
		hi := st.high
		st.high = 0
		if !isLowSurrogate(unit) {
			return dst, errors.UnpairedSurrogate(c.loc.Charset, hi)
		}
		return c.encodeRune(dst, utf16.DecodeRune(rune(hi), rune(unit)), st)
	case isHighSurrogate(unit):
		st.high = unit
		return dst, nil
	case isLowSurrogate(unit):
		return dst, errors.UnpairedSurrogate(c.loc.Charset, unit)
	case unit == 0:
		dst, err := c.Flush(dst, st)
		if err != nil {
			return dst, err
		}
		return append(dst, 0), nil
	default:
		return c.encodeRune(dst, rune(unit), st)
	}
}

func (c *Codec) encodeRune(dst []byte, r rune, st *State) ([]byte, error) {
	if c.loc.IsUTF8() {
		return utf8.AppendRune(dst, r), nil
	}
	if st.enc == nil {
		st.enc = c.loc.Encoding.NewEncoder()
	}

	var in [utf8.UTFMax]byte
	n := utf8.EncodeRune(in[:], r)
	var out [16]byte
	nDst, _, err := st.enc.Transform(out[:], in[:n], false)
	if err != nil {
		st.resetEncoder()
		return dst, errors.Unrepresentable(c.loc.Charset, r, err)
	}
	return append(dst, out[:nDst]...), nil
}

// Flush appends the sequence that returns a shift encoding to its initial
// state. It fails if a high surrogate is still waiting for its pair; the
// reset sequence is appended either way.
func (c *Codec) Flush(dst []byte, st *State) ([]byte, error) {
	if err := c.bind(st); err != nil {
		return dst, err
	}

	var pendingErr error
	if st.high != 0 {
		pendingErr = errors.UnpairedSurrogate(c.loc.Charset, st.high)
		st.high = 0
	}

	if st.enc != nil {
		var out [16]byte
		nDst, _, err := st.enc.Transform(out[:], nil, true)
		st.enc.Reset()
		dst = append(dst, out[:nDst]...)
		if err != nil && pendingErr == nil {
			pendingErr = errors.Wrap(errors.PhaseEncode, errors.KindInvalidSequence, err, "reset shift state")
		}
	}
	return dst, pendingErr
}

func isHighSurrogate(u uint16) bool { return u >= 0xd800 && u < 0xdc00 }
func isLowSurrogate(u uint16) bool  { return u >= 0xdc00 && u < 0xe000 }

// AppendUTF16 decodes the multibyte sequence src with a fresh state and
// appends the code units to dst. Decoding stops at the first NUL byte, at
// the end of src, or at the first failure; on failure dst holds the units
// decoded so far.
func (c *Codec) AppendUTF16(dst []uint16, src []byte) ([]uint16, error) {
	var st State
	off := 0
	for {
		d, err := c.DecodeUnit(src[off:], &st)
		if err != nil {
			return dst, c.stop(err, off)
		}
		if d.Status == StatusEnd {
			return dst, nil
		}
		dst = append(dst, d.Unit)
		off += d.Size
	}
}

// AppendMultibyte encodes the UTF-16 sequence src with a fresh state and
// appends the bytes to dst. Encoding stops at the first zero unit or the end
// of src and always finishes in the initial shift state.
func (c *Codec) AppendMultibyte(dst []byte, src []uint16) ([]byte, error) {
	var st State
	end := len(src)
	for i, u := range src {
		if u == 0 {
			end = i
			break
		}
		var err error
		if dst, err = c.EncodeUnit(dst, u, &st); err != nil {
			dst, _ = c.Flush(dst, &st)
			return dst, c.stop(err, i)
		}
	}
	dst, err := c.Flush(dst, &st)
	if err != nil {
		return dst, c.stop(err, end)
	}
	return dst, nil
}

// ToUTF16 is AppendUTF16 into a new slice.
func (c *Codec) ToUTF16(src []byte) ([]uint16, error) {
	return c.AppendUTF16(make([]uint16, 0, len(src)), src)
}

// ToMultibyte is AppendMultibyte into a new slice.
func (c *Codec) ToMultibyte(src []uint16) ([]byte, error) {
	return c.AppendMultibyte(make([]byte, 0, len(src)*c.loc.MaxLen), src)
}

// stop positions err at the traversal offset and applies best-effort mode.
func (c *Codec) stop(err error, off int) error {
	if e, ok := err.(*errors.Error); ok {
		located := *e
		located.Offset += off
		err = &located
	}
	if c.bestEffort {
		Logger().Warn("conversion stopped early",
			zap.String("charset", c.loc.Charset),
			zap.Int("offset", off),
			zap.Error(err))
		return nil
	}
	return err
}
