package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf16"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/textcodec/codec"
	"github.com/wippyai/textcodec/config"
	tcerrors "github.com/wippyai/textcodec/errors"
	"github.com/wippyai/textcodec/format"
	"github.com/wippyai/textcodec/locale"
	"github.com/wippyai/textcodec/memory"
	"github.com/wippyai/textcodec/sink"
)

type options struct {
	template    string
	envFile     string
	args        argList
	wide        bool
	arena       bool
	bestEffort  bool
	verbose     bool
	interactive bool
}

func main() {
	var opts options
	flag.StringVar(&opts.template, "template", "", "UTF-16 template to format (default: run the demos)")
	flag.Var(&opts.args, "arg", "Argument as kind:value, repeatable. Kinds: "+strings.Join(kindNames(), ", "))
	flag.StringVar(&opts.envFile, "env", "", "Load variables from this .env file first")
	flag.BoolVar(&opts.wide, "wide", false, "Format into a 16-bit sink and encode the result for display")
	flag.BoolVar(&opts.arena, "arena", false, "Format into WebAssembly linear memory and read it back")
	flag.BoolVar(&opts.bestEffort, "best-effort", false, "Stop silently at conversion errors")
	flag.BoolVar(&opts.verbose, "v", false, "Debug logging")
	flag.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI")
	flag.Parse()

	if opts.interactive && !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "Usage: u16printf -i needs a terminal on stdin")
		os.Exit(1)
	}

	if err := run(context.Background(), os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, w io.Writer, opts options) error {
	if opts.envFile != "" {
		if err := config.LoadEnv(opts.envFile); err != nil {
			return err
		}
	}
	var settings config.Settings
	if err := config.Load(&settings); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(settings.LogLevel, opts.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	codec.SetLogger(log.Named("codec"))
	format.SetLogger(log.Named("format"))
	memory.SetLogger(log.Named("memory"))

	loc, err := locale.InitFromEnv()
	if err != nil {
		// setlocale leaves the default locale in place when the name is unusable
		log.Warn("falling back to UTF-8", zap.String("locale", settings.LocaleName()), zap.Error(err))
		loc = locale.UTF8
		if err := locale.Init(loc); err != nil {
			return err
		}
	}
	log.Debug("locale", zap.String("name", loc.Name), zap.String("charset", loc.Charset), zap.Int("max_len", loc.MaxLen))

	var codecOpts []codec.Option
	if opts.bestEffort || settings.BestEffort {
		codecOpts = append(codecOpts, codec.WithBestEffort())
	}
	c, err := codec.New(loc, codecOpts...)
	if err != nil {
		return fmt.Errorf("codec: %w", err)
	}
	f := format.New(c, format.WithTrigger(triggerUnit(settings.Trigger)))

	if opts.interactive {
		return runInteractive(f, opts)
	}
	if opts.template == "" {
		return runDemos(w, f)
	}

	args, err := parseArgs(opts.args, c)
	if err != nil {
		return err
	}
	out, err := render(ctx, f, format.Template(opts.template), formatArgs(args), opts.wide, opts.arena)
	if _, werr := w.Write(append(out, '\n')); werr != nil && err == nil {
		err = werr
	}
	return err
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	return cfg.Build()
}

func triggerUnit(s string) uint16 {
	units := utf16.Encode([]rune(s))
	if len(units) == 0 {
		return format.DefaultTrigger
	}
	return units[0]
}

// render formats tmpl and returns host multibyte text ready for display.
// Output produced before a failure is returned with the error.
func render(ctx context.Context, f *format.Formatter, tmpl []uint16, args []format.Arg, wide, arena bool) ([]byte, error) {
	if arena {
		return renderArena(ctx, f, tmpl, args, wide)
	}
	if !wide {
		return f.Sprint(tmpl, args...)
	}
	units, err := f.Sprint16(tmpl, args...)
	out, encErr := f.Codec().ToMultibyte(units)
	if err == nil {
		err = encErr
	}
	return out, err
}

func renderArena(ctx context.Context, f *format.Formatter, tmpl []uint16, args []format.Arg, wide bool) ([]byte, error) {
	a, err := memory.NewArena(ctx, 1)
	if err != nil {
		return nil, err
	}
	defer a.Close(ctx)

	capacity := arenaCapacity(f.Codec().MaxLen(), tmpl, args, wide)

	if wide {
		s, err := memory.AllocSink[uint16](a.Memory(), a, capacity)
		if err != nil {
			return nil, err
		}
		ferr := format.Fprint[uint16](f, s, tmpl, args...)
		if err := s.Terminate(); err != nil {
			return nil, err
		}
		units, err := memory.ReadCString16(a.Memory(), s.Ptr(), s.Len())
		if err != nil {
			return nil, err
		}
		out, err := f.Codec().ToMultibyte(units)
		if ferr != nil {
			err = ferr
		}
		return out, err
	}

	s, err := memory.AllocSink[byte](a.Memory(), a, capacity)
	if err != nil {
		return nil, err
	}
	ferr := format.Fprint[byte](f, s, tmpl, args...)
	if err := s.Terminate(); err != nil {
		return nil, err
	}
	out, err := memory.ReadCString(a.Memory(), s.Ptr(), s.Len())
	if err != nil {
		return nil, err
	}
	return out, ferr
}

// arenaCapacity bounds the sink size in elements. A narrow sink needs up to
// maxLen bytes per template unit; a wide sink needs one element per unit.
// arg.String() is never shorter than the argument's rendering in either width.
func arenaCapacity(maxLen int, tmpl []uint16, args []format.Arg, wide bool) uint32 {
	per := maxLen
	if wide {
		per = 1
	}
	n := len(tmpl) * per
	for _, arg := range args {
		n += len(arg.String()) * per
	}
	return uint32(n + 256)
}

// runDemos decodes and encodes "zß水𝄋" and formats the two sample
// templates, once into an 8-bit sink and once into a 16-bit buffer.
func runDemos(w io.Writer, f *format.Formatter) error {
	c := f.Codec()
	out := sink.NewWriter(w)

	// multibyte -> UTF-16
	src := []byte("zß水\U0001d10b")
	var st codec.State
	for off := 0; ; {
		d, err := c.DecodeUnit(src[off:], &st)
		if err != nil {
			fmt.Fprintf(w, "decode: %v\n", err)
			break
		}
		if d.Status == codec.StatusEnd {
			break
		}
		fmt.Fprintf(w, "U+%04X(%d) ", d.Unit, d.Size)
		off += d.Size
	}
	fmt.Fprintln(w)

	// UTF-16 -> multibyte
	mb, err := c.ToMultibyte(utf16.Encode([]rune("zß水\U0001d10b")))
	if err != nil {
		fmt.Fprintf(w, "encode: %v\n", err)
	}
	if err := out.Append(append(mb, '\n')); err != nil {
		return err
	}

	err = format.Fprint[byte](f, out, format.Template("Test%s%d%o,test"),
		format.UTF16("tester"), format.Str("test"), format.Int(13))
	if err != nil {
		var e *tcerrors.Error
		if errors.As(err, &e) && e.Kind == tcerrors.KindSink {
			return err
		}
		fmt.Fprintf(w, " (%v)", err)
	}
	fmt.Fprintln(w)

	buf := sink.Acquire16()
	defer buf.Release()
	if err := format.Fprint[uint16](f, buf, format.Template("Bloopp%d,doo%t"), format.UTF16("er"), format.Str("dle")); err != nil {
		fmt.Fprintf(w, "format: %v\n", err)
	}
	mb, err = c.ToMultibyte(buf.Units())
	if err != nil {
		fmt.Fprintf(w, "encode: %v\n", err)
	}
	return out.Append(append(mb, '\n'))
}
