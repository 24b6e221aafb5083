// Package textcodec converts text between a host multibyte encoding and
// UTF-16, and formats UTF-16 templates into either width.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	textcodec/           Root package with Memory and Allocator interfaces
//	├── locale/          Host encoding configuration (LC_ALL, LC_CTYPE, LANG)
//	├── codec/           Per-character multibyte <-> UTF-16 conversion with state
//	├── format/          Trigger-based substitution into 8-bit or 16-bit sinks
//	├── sink/            Sink interface, pooled buffers and io.Writer sinks
//	├── memory/          WebAssembly linear memory (wazero) as sink and source
//	├── config/          Environment and .env loading
//	├── errors/          Structured error types for debugging
//	└── cmd/u16printf/   Demonstration driver and interactive playground
//
// # Quick Start
//
//	l, err := locale.InitFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	c, err := codec.New(l)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	units, err := c.ToUTF16([]byte("zß水"))  // []uint16{0x7a, 0xdf, 0x6c34}
//	back, err := c.ToMultibyte(units)
//
//	f := format.New(c)
//	out, err := f.Sprint(format.Template("Test%s%d%o,test"),
//	    format.UTF16("tester"), format.Str("test"), format.Int(13))
//	fmt.Println(string(out)) // "Testtestertest13,test"
//
// # Conversion State
//
// Stateful encodings such as ISO-2022-JP carry a shift state from one
// character to the next. codec.State holds it, along with a surrogate half
// waiting for its pair. A State belongs to one traversal; the formatter
// gives every argument a fresh one.
//
// # Logging
//
// Packages log through zap and are silent by default:
//
//	codec.SetLogger(zapLogger)
//	format.SetLogger(zapLogger)
//
// # Error Handling
//
// Errors carry a Phase and Kind for classification:
//
//	if errors.Is(err, tcerrors.ErrArgumentUnderflow) {
//	    // a trigger had no argument left
//	}
package textcodec
