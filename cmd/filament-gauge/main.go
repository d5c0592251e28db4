package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/filament-gauge/internal/config"
	"github.com/ironsheep/filament-gauge/internal/imaging"
	"github.com/ironsheep/filament-gauge/internal/monitor"
	"github.com/ironsheep/filament-gauge/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// errNotMeasured makes `measure` exit non-zero for a frame without a width.
var errNotMeasured = errors.New("frame not measured")

func main() {
	// Configure logging to stderr (stdout is for MCP protocol and measurements)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if !errors.Is(err, errNotMeasured) {
			log.Print(err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := "serve"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "--version", "-v", "version":
		fmt.Fprintf(stdout, "filament-gauge %s\n", Version)
		fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
		return nil
	case "--help", "-h", "help":
		printUsage(stdout)
		return nil
	}

	cfg, err := config.Load(os.Getenv)
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	if cfg.Debug() {
		log.Printf("Filament gauge v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	switch cmd {
	case "serve":
		server.Version = Version
		if err := server.New(cfg).Serve(stdin, stdout); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case "measure":
		return runMeasure(cfg, args, stdout)
	case "watch":
		return runWatch(cfg, args, stdin, stdout)
	default:
		return fmt.Errorf("unknown command %q (see --help)", cmd)
	}
}

func runMeasure(cfg config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("measure", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "print the full report as JSON")
	overlay := fs.String("overlay", "", "save an annotated frame to this path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: filament-gauge measure [-json] [-overlay path] <image>")
	}
	path := fs.Arg(0)

	img, err := imaging.OpenFrame(path, cfg.FrameWidth, cfg.FrameHeight)
	if err != nil {
		return err
	}
	report := monitor.NewPipeline(cfg).Process(monitor.Frame{Name: path, Image: img})

	if *overlay != "" {
		if err := saveOverlay(report, *overlay); err != nil {
			return err
		}
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else if err := monitor.NewLogSink(stdout).Report(context.Background(), report); err != nil {
		return err
	}

	if !report.Result.Measured() {
		log.Printf("%s: %s %s", path, report.Result.Status, report.Result.Detail)
		return errNotMeasured
	}
	return nil
}

func runWatch(cfg config.Config, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	outDir := fs.String("out", "", "write an overlay PNG per frame into this directory")
	grid := fs.Bool("grid", false, "draw a 1 mm grid on overlays")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("usage: filament-gauge watch [-out dir] [-grid] <dir|files...>")
	}

	src, err := monitor.NewDirSource(fs.Args(), cfg.FrameWidth, cfg.FrameHeight)
	if err != nil {
		return err
	}

	sinks := []monitor.Sink{monitor.NewLogSink(stdout)}
	if *outDir != "" {
		opts := imaging.DefaultOverlayOptions()
		if *grid {
			opts.GridSpacing = imaging.MillimeterGrid(cfg.Measure.CalibrationMMPerPixel)
		}
		sink, err := monitor.NewOverlaySink(*outDir, opts)
		if err != nil {
			return err
		}
		sinks = append(sinks, sink)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go monitor.CancelOnQuit(stdin, cancel)

	stats, err := monitor.Run(ctx, src, monitor.NewPipeline(cfg), sinks...)
	log.Printf("Processed %d of %d frames, %d measured", stats.Frames, src.Len(), stats.Measured)
	return err
}

func saveOverlay(r monitor.Report, path string) error {
	opts := imaging.DefaultOverlayOptions()
	for _, c := range r.Candidates {
		opts.Candidates = append(opts.Candidates, c.Line)
	}
	img, err := imaging.RenderOverlay(r.Frame.Image, r.Result, opts)
	if err != nil {
		return err
	}
	return imaging.SaveImage(img, path)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "filament-gauge - filament width from edge-detected frames")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  filament-gauge [serve]                          MCP server over stdin/stdout")
	fmt.Fprintln(w, "  filament-gauge measure [-json] [-overlay path] <image>")
	fmt.Fprintln(w, "  filament-gauge watch [-out dir] [-grid] <dir|files...>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "watch prints one \"Filament width in mm::<value>\" line per frame and")
	fmt.Fprintln(w, "stops after the current frame on Ctrl-C or a \"q\" line on stdin.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  FILAMENT_GAUGE_CALIBRATION=0.009375    Millimeters per pixel")
	fmt.Fprintln(w, "  FILAMENT_GAUGE_SCAN_ROW=240            Row where the left edge is sampled")
	fmt.Fprintln(w, "  FILAMENT_GAUGE_LEFT_BAND=20:320        Left edge band at row 0, [min:max)")
	fmt.Fprintln(w, "  FILAMENT_GAUGE_RIGHT_BAND=320:620      Right edge band at row 0, [min:max)")
	fmt.Fprintln(w, "  FILAMENT_GAUGE_FRAME_SIZE=640x480      Frames are resized to this")
	fmt.Fprintln(w, "  FILAMENT_GAUGE_CANNY_LOW=140           Canny thresholds, 0-255")
	fmt.Fprintln(w, "  FILAMENT_GAUGE_CANNY_HIGH=200")
	fmt.Fprintln(w, "  FILAMENT_GAUGE_HOUGH_THRESHOLD=100     Minimum votes for a line")
	fmt.Fprintln(w, "  FILAMENT_GAUGE_MAX_LINES=50")
	fmt.Fprintln(w, "  FILAMENT_GAUGE_LOG_LEVEL=debug         Enable debug logging")
}
