// Package locale describes the host multibyte encoding.
//
// A Locale names a charset and carries the golang.org/x/text encoding that
// implements it. Names are resolved the way the C library resolves locale
// names: the codeset after the dot selects the charset, "C" and "POSIX" mean
// UTF-8.
//
// The process-wide value is installed exactly once, before the first
// conversion, and is read-only afterwards:
//
//	l, err := locale.InitFromEnv()
//	if err != nil {
//		log.Fatal(err)
//	}
//	c, err := codec.New(l)
//
// Library code never reads the global implicitly; callers pass a Locale to
// codec.New. Current exists for programs that want to share the one value.
package locale
