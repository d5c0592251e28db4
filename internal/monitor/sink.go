package monitor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ironsheep/filament-gauge/internal/geometry"
	"github.com/ironsheep/filament-gauge/internal/imaging"
)

// Sink consumes reports.
type Sink interface {
	Report(ctx context.Context, r Report) error
}

// LogSink writes one "Filament width in mm::<value>" line per frame.
type LogSink struct {
	W io.Writer
}

// NewLogSink returns a sink writing to w.
func NewLogSink(w io.Writer) *LogSink {
	return &LogSink{W: w}
}

func (s *LogSink) Report(_ context.Context, r Report) error {
	_, err := fmt.Fprintf(s.W, "Filament width in mm::%s\n", strconv.FormatFloat(r.Result.WidthMM, 'f', -1, 64))
	return err
}

// OverlaySink saves an annotated copy of every frame into a directory.
type OverlaySink struct {
	Dir     string
	Options imaging.OverlayOptions
}

// NewOverlaySink creates dir if needed and returns a sink writing into it.
func NewOverlaySink(dir string, opts imaging.OverlayOptions) (*OverlaySink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create overlay directory: %w", err)
	}
	return &OverlaySink{Dir: dir, Options: opts}, nil
}

func (s *OverlaySink) Report(_ context.Context, r Report) error {
	opts := s.Options
	opts.Candidates = make([]geometry.PolarLine, len(r.Candidates))
	for i, c := range r.Candidates {
		opts.Candidates[i] = c.Line
	}

	img, err := imaging.RenderOverlay(r.Frame.Image, r.Result, opts)
	if err != nil {
		return fmt.Errorf("overlay for %s: %w", r.Frame.Name, err)
	}
	return imaging.SaveImage(img, filepath.Join(s.Dir, OverlayName(r.Frame)))
}

// OverlayName returns the file name an overlay of f is saved under.
func OverlayName(f Frame) string {
	base := filepath.Base(f.Name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "frame"
	}
	return fmt.Sprintf("%06d-%s-overlay.png", f.Index, base)
}
