package locale

import (
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/wippyai/textcodec/config"
	"github.com/wippyai/textcodec/errors"
)

// Locale is the host encoding configuration a Codec is bound to.
type Locale struct {
	// Encoding performs the conversion for non-UTF-8 charsets.
	Encoding encoding.Encoding
	// Name is the locale name as supplied, e.g. "ja_JP.eucJP".
	Name string
	// Charset is the canonical IANA name of the multibyte encoding.
	Charset string
	// MaxLen is the longest byte sequence a single UTF-16 unit can encode to.
	MaxLen int
}

// UTF8 is the locale used for "C", "POSIX" and locales without a codeset.
var UTF8 = Locale{
	Name:     "C.UTF-8",
	Charset:  "UTF-8",
	Encoding: unicode.UTF8,
	MaxLen:   utf8.UTFMax,
}

// IsUTF8 reports whether the multibyte encoding is UTF-8.
func (l Locale) IsUTF8() bool {
	return l.Charset == UTF8.Charset
}

// Stateful reports whether the encoding uses shift sequences, so a
// traversal must be flushed to return to the initial shift state.
func (l Locale) Stateful() bool {
	_, ok := statefulCharsets[l.Charset]
	return ok
}

var statefulCharsets = map[string]struct{}{
	"ISO-2022-JP": {},
	"HZ-GB-2312":  {},
}

// maxLens holds MaxLen for the multi-byte charsets x/text supports.
// Shift encodings count the escape sequence that may precede a character.
var maxLens = map[string]int{
	"UTF-8":       utf8.UTFMax,
	"Shift_JIS":   2,
	"EUC-JP":      3,
	"ISO-2022-JP": 5,
	"EUC-KR":      2,
	"GBK":         2,
	"GB2312":      2,
	"GB18030":     4,
	"HZ-GB-2312":  4,
	"Big5":        2,
}

// glibc style codeset spellings that neither index knows.
var aliases = map[string]string{
	"utf8":      "UTF-8",
	"eucjp":     "EUC-JP",
	"euckr":     "EUC-KR",
	"euccn":     "GB2312",
	"euctw":     "Big5",
	"sjis":      "Shift_JIS",
	"iso88591":  "ISO-8859-1",
	"iso88592":  "ISO-8859-2",
	"iso88595":  "ISO-8859-5",
	"iso88597":  "ISO-8859-7",
	"iso885915": "ISO-8859-15",
	"koi8r":     "KOI8-R",
	"koi8u":     "KOI8-U",
	"cp1251":    "windows-1251",
	"cp1252":    "windows-1252",
}

// Parse resolves a POSIX locale name (language_TERRITORY.codeset@modifier)
// or a bare charset name. "C", "POSIX", "" and names without a codeset
// resolve to UTF-8.
func Parse(name string) (Locale, error) {
	base, _, _ := strings.Cut(name, "@")
	if base == "" || base == "C" || base == "POSIX" {
		l := UTF8
		if name != "" {
			l.Name = name
		}
		return l, nil
	}

	if _, codeset, ok := strings.Cut(base, "."); ok {
		l, err := Lookup(codeset)
		if err != nil {
			return Locale{}, err
		}
		l.Name = name
		return l, nil
	}

	// A bare charset such as "Shift_JIS" or "ISO-8859-1".
	if l, err := Lookup(base); err == nil {
		l.Name = name
		return l, nil
	}

	l := UTF8
	l.Name = name
	return l, nil
}

// Lookup resolves a charset name to a Locale without a locale name.
func Lookup(charset string) (Locale, error) {
	if charset == "" {
		return Locale{}, errors.UnknownEncoding(charset, nil)
	}
	if alias, ok := aliases[compact(charset)]; ok {
		charset = alias
	}

	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		enc, err = htmlindex.Get(charset)
		if err != nil {
			return Locale{}, errors.UnknownEncoding(charset, err)
		}
	}

	canonical := canonicalName(enc, charset)

	if enc == encoding.Replacement || isWide(canonical) {
		return Locale{}, errors.New(errors.PhaseLocale, errors.KindUnknownEncoding).
			Value(charset).
			Detail("charset %q is not a multibyte encoding", canonical).
			Build()
	}

	return Locale{
		Encoding: enc,
		Charset:  canonical,
		MaxLen:   maxLen(canonical, enc),
	}, nil
}

// canonicalName prefers the MIME name ("ISO-8859-1" over "ISO_8859-1:1987").
func canonicalName(enc encoding.Encoding, fallback string) string {
	for _, index := range []*ianaindex.Index{ianaindex.MIME, ianaindex.IANA} {
		if name, err := index.Name(enc); err == nil && name != "" {
			return name
		}
	}
	if name, err := htmlindex.Name(enc); err == nil {
		return name
	}
	return fallback
}

func maxLen(canonical string, enc encoding.Encoding) int {
	if _, ok := enc.(*charmap.Charmap); ok {
		return 1
	}
	if n, ok := maxLens[canonical]; ok {
		return n
	}
	return utf8.UTFMax
}

func isWide(canonical string) bool {
	upper := strings.ToUpper(canonical)
	return strings.HasPrefix(upper, "UTF-16") || strings.HasPrefix(upper, "UTF-32")
}

func compact(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '-' || c == '_':
			continue
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + 'a' - 'A')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// FromEnv resolves the locale named by LC_ALL, LC_CTYPE or LANG, in that
// order, the way setlocale(LC_ALL, "") does.
func FromEnv() (Locale, error) {
	var s config.Settings
	if err := config.Load(&s); err != nil {
		return Locale{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "load locale settings")
	}
	return Parse(s.LocaleName())
}

var (
	mu      sync.RWMutex
	current *Locale
)

// Init installs l as the process-wide locale. It succeeds once; later calls
// return an already_initialized error and leave the first value in place.
func Init(l Locale) error {
	if l.Charset == "" {
		return errors.InvalidInput(errors.PhaseLocale, "locale has no charset")
	}
	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		return errors.New(errors.PhaseLocale, errors.KindAlreadyInitialized).
			Value(l.Name).
			Detail("process locale already set to %q", current.Name).
			Build()
	}
	c := l
	current = &c
	return nil
}

// InitFromEnv resolves the locale from the environment and installs it.
func InitFromEnv() (Locale, error) {
	l, err := FromEnv()
	if err != nil {
		return Locale{}, err
	}
	if err := Init(l); err != nil {
		return Locale{}, err
	}
	return l, nil
}

// Current returns the process-wide locale.
func Current() (Locale, error) {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return Locale{}, errors.NotInitialized(errors.PhaseLocale, "process locale")
	}
	return *current, nil
}
