package cli

import (
	"flag"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/Fepozopo/tonyscale/pkg/rawarr"
	"github.com/Fepozopo/tonyscale/pkg/stdimg"
	"github.com/Fepozopo/tonyscale/pkg/tonyscale"
)

const rawOutSuffix = ".i64"

func usage(fs *flag.FlagSet) func() {
	return func() {
		w := fs.Output()
		fmt.Fprintln(w, "Usage: tonyscale [flags] <input> [output]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Equalizes an image (or a raw float64 array with -shape) into -colors levels.")
		fmt.Fprintln(w, "Outputs ending in .i64 or .i64.zst are raw int64 color indices; anything")
		fmt.Fprintln(w, "else is written as a gray image.")
		fmt.Fprintln(w)
		fs.PrintDefaults()
	}
}

// options collects everything a scaling run needs after flag parsing.
type options struct {
	bins    int
	colors  int
	shape   []int
	input   string
	output  string
	plot    string
	preview bool
}

// Run executes the tonyscale command with args (without the program name).
// stdin answers the -update confirmation prompt.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("tonyscale", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage(fs)
	var (
		bins    = fs.Int("bins", cfg.Bins, "number of histogram bins (env "+EnvBins+")")
		colors  = fs.Int("colors", cfg.Colors, "number of output color levels (env "+EnvColors+")")
		shape   = fs.String("shape", "", "treat input as a raw little-endian float64 array of this shape, e.g. 4096,4096")
		plot    = fs.String("plot", "", "write the value -> color transfer curve to this PNG")
		preview = fs.Bool("preview", false, "show the scaled image in the terminal")
		debug   = fs.Bool("debug", cfg.Debug, "debug logging to stderr (env "+EnvDebug+")")
		version = fs.Bool("version", false, "print version and exit")
		update  = fs.Bool("update", false, "check GitHub for a newer release and install it")
		yes     = fs.Bool("yes", false, "with -update, do not ask for confirmation")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	debugEnabled = *debug
	if *bins < 1 || *colors < 1 {
		return fmt.Errorf("-bins and -colors must be >= 1, got %d and %d", *bins, *colors)
	}

	if *version {
		fmt.Fprintf(stdout, "tonyscale %s\n", Version)
		return nil
	}
	if *update {
		if err := CheckForUpdates(stdout, stdin, *yes); err != nil {
			warnf("%v", err)
		}
		if fs.NArg() == 0 {
			return nil
		}
	}

	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		return fmt.Errorf("expected <input> [output], got %d arguments", fs.NArg())
	}
	opts := options{
		bins:    *bins,
		colors:  *colors,
		input:   fs.Arg(0),
		output:  fs.Arg(1),
		plot:    *plot,
		preview: *preview,
	}
	if *shape != "" {
		if opts.shape, err = rawarr.ParseShape(*shape); err != nil {
			return fmt.Errorf("invalid -shape: %w", err)
		}
	}
	if opts.output == "" {
		opts.output = defaultOutput(opts.input, opts.shape != nil)
	}
	return run(opts, stdout)
}

// defaultOutput derives the output path from the input: "img.png" becomes
// "img_scaled.png", "data.f64.zst" becomes "data.i64.zst".
func defaultOutput(input string, raw bool) string {
	zst := strings.HasSuffix(input, rawarr.ZstdSuffix)
	base := strings.TrimSuffix(input, rawarr.ZstdSuffix)
	ext := filepath.Ext(base)
	base = strings.TrimSuffix(base, ext)
	if !raw {
		return base + "_scaled.png"
	}
	out := base + rawOutSuffix
	if zst {
		out += rawarr.ZstdSuffix
	}
	return out
}

func isRawOutput(path string) bool {
	return strings.HasSuffix(strings.TrimSuffix(path, rawarr.ZstdSuffix), rawOutSuffix)
}

func run(opts options, stdout io.Writer) error {
	var (
		src *tonyscale.Array
		err error
	)
	if opts.shape != nil {
		src, err = rawarr.Load(opts.input, opts.shape)
		if err != nil {
			return err
		}
	} else {
		img, err := stdimg.Load(opts.input)
		if err != nil {
			return err
		}
		src = stdimg.ToArray(img)
	}
	debugf("loaded %s: shape %v", opts.input, src.Shape)

	m, err := tonyscale.Fit(src, &tonyscale.Options{Bins: opts.bins, Colors: opts.colors})
	if err != nil {
		return fmt.Errorf("%s: %w", opts.input, err)
	}
	lo, hi := m.Bounds()
	debugf("histogram range [%g, %g], %d bins of %g", lo, hi, m.Bins(), m.BinSize())

	out, err := m.Apply(src)
	if err != nil {
		return fmt.Errorf("%s: %w", opts.input, err)
	}

	var gray *image.Gray
	if !isRawOutput(opts.output) || opts.preview {
		g, err := stdimg.IndexToGray(out, m.Colors())
		if err != nil {
			if !isRawOutput(opts.output) {
				return fmt.Errorf("%s: %w (write a %s output instead)", opts.output, err, rawOutSuffix)
			}
			warnf("preview skipped: %v", err)
		}
		gray = g
	}

	if isRawOutput(opts.output) {
		if err := rawarr.Save(opts.output, out); err != nil {
			return err
		}
	} else if err := stdimg.Save(opts.output, gray); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Scaled %s %v -> %s (bins=%d colors=%d)\n", opts.input, src.Shape, opts.output, m.Bins(), m.Colors())

	if opts.plot != "" {
		if err := stdimg.Save(opts.plot, stdimg.RenderTransfer(m, 0, 0)); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Transfer curve -> %s\n", opts.plot)
	}
	if opts.preview && gray != nil {
		if err := PreviewImage(stdout, gray); err != nil {
			warnf("preview failed: %v", err)
		}
	}
	return nil
}
