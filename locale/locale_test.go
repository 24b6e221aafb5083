package locale

import (
	"errors"
	"testing"

	"github.com/wippyai/textcodec/config"
	tcerrors "github.com/wippyai/textcodec/errors"
)

func resetCurrent(t *testing.T) {
	t.Helper()
	mu.Lock()
	current = nil
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		current = nil
		mu.Unlock()
	})
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		charset  string
		maxLen   int
		stateful bool
	}{
		{"empty", "", "UTF-8", 4, false},
		{"C", "C", "UTF-8", 4, false},
		{"POSIX", "POSIX", "UTF-8", 4, false},
		{"C.UTF-8", "C.UTF-8", "UTF-8", 4, false},
		{"glibc utf8", "en_US.utf8", "UTF-8", 4, false},
		{"no codeset", "de_DE", "UTF-8", 4, false},
		{"modifier", "de_DE.ISO-8859-1@euro", "ISO-8859-1", 1, false},
		{"euc-jp", "ja_JP.eucJP", "EUC-JP", 3, false},
		{"sjis", "ja_JP.SJIS", "Shift_JIS", 2, false},
		{"iso-2022-jp", "ja_JP.ISO-2022-JP", "ISO-2022-JP", 5, true},
		{"euc-kr", "ko_KR.EUC-KR", "EUC-KR", 2, false},
		{"bare charset", "Shift_JIS", "Shift_JIS", 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if l.Charset != tt.charset {
				t.Errorf("Charset = %q, want %q", l.Charset, tt.charset)
			}
			if l.MaxLen != tt.maxLen {
				t.Errorf("MaxLen = %d, want %d", l.MaxLen, tt.maxLen)
			}
			if l.Stateful() != tt.stateful {
				t.Errorf("Stateful = %v, want %v", l.Stateful(), tt.stateful)
			}
			if l.Encoding == nil {
				t.Error("Encoding is nil")
			}
			if tt.input != "" && l.Name != tt.input {
				t.Errorf("Name = %q, want %q", l.Name, tt.input)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	unknown := &tcerrors.Error{Phase: tcerrors.PhaseLocale, Kind: tcerrors.KindUnknownEncoding}

	tests := []struct {
		name  string
		input string
	}{
		{"unknown codeset", "en_US.KLINGON-9"},
		{"empty codeset", "en_US."},
		{"utf-16 is not multibyte", "en_US.UTF-16"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded", tt.input)
			}
			if !errors.Is(err, unknown) {
				t.Errorf("error = %v, want unknown_encoding", err)
			}
		})
	}
}

func TestLookup_Aliases(t *testing.T) {
	for _, name := range []string{"utf8", "UTF8", "utf-8", "Utf_8"} {
		l, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if !l.IsUTF8() {
			t.Errorf("Lookup(%q).Charset = %q", name, l.Charset)
		}
	}
}

func TestInitCurrent(t *testing.T) {
	resetCurrent(t)

	if _, err := Current(); !errors.Is(err, &tcerrors.Error{Phase: tcerrors.PhaseLocale, Kind: tcerrors.KindNotInitialized}) {
		t.Fatalf("Current before Init: %v", err)
	}

	sjis, err := Parse("ja_JP.SJIS")
	if err != nil {
		t.Fatal(err)
	}
	if err := Init(sjis); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if err := Init(UTF8); !errors.Is(err, &tcerrors.Error{Phase: tcerrors.PhaseLocale, Kind: tcerrors.KindAlreadyInitialized}) {
		t.Fatalf("second Init: %v", err)
	}

	got, err := Current()
	if err != nil {
		t.Fatal(err)
	}
	if got.Charset != "Shift_JIS" {
		t.Errorf("Current().Charset = %q, second Init must not replace the first", got.Charset)
	}
}

func TestInit_RejectsEmpty(t *testing.T) {
	resetCurrent(t)
	if err := Init(Locale{}); err == nil {
		t.Fatal("Init accepted a locale without charset")
	}
}

func TestInitFromEnv(t *testing.T) {
	resetCurrent(t)
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_CTYPE", "ko_KR.EUC-KR")
	t.Setenv("LANG", "de_DE.UTF-8")
	config.ResetCache()
	t.Cleanup(config.ResetCache)

	l, err := InitFromEnv()
	if err != nil {
		t.Fatalf("InitFromEnv: %v", err)
	}
	if l.Charset != "EUC-KR" {
		t.Errorf("Charset = %q, want EUC-KR (LC_CTYPE wins over LANG)", l.Charset)
	}
	if l.Name != "ko_KR.EUC-KR" {
		t.Errorf("Name = %q", l.Name)
	}
}
