package imaging

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/gogpu/gg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/filament-gauge/internal/geometry"
	"github.com/ironsheep/filament-gauge/internal/measure"
)

// OverlayOptions controls what RenderOverlay draws on top of a frame.
type OverlayOptions struct {
	// Candidates are all detected lines, drawn thin under the chosen edges.
	Candidates []geometry.PolarLine

	// GridSpacing is the spacing of the reference grid in pixels. Zero
	// disables the grid.
	GridSpacing float64

	// Colors as "#RRGGBB".
	CandidateColor string
	LeftColor      string
	RightColor     string
	SegmentColor   string
	GridColor      string
	LabelColor     string
}

// DefaultOverlayOptions returns the standard palette without a grid.
func DefaultOverlayOptions() OverlayOptions {
	return OverlayOptions{
		CandidateColor: "#2E7D32",
		LeftColor:      "#00FF00",
		RightColor:     "#FF0000",
		SegmentColor:   "#FFD600",
		GridColor:      "#40A0FF",
		LabelColor:     "#FFFFFF",
	}
}

// MillimeterGrid returns the grid spacing, in pixels, for a 1 mm grid at the
// given calibration.
func MillimeterGrid(calibrationMMPerPixel float64) float64 {
	if calibrationMMPerPixel <= 0 {
		return 0
	}
	return 1 / calibrationMMPerPixel
}

// RenderOverlay draws detected lines, the chosen edges and the measurement
// segment over a copy of frame, and labels it with the width.
//
// The overlay is display output only. It never changes result.
func RenderOverlay(frame image.Image, result measure.Result, opts OverlayOptions) (*image.RGBA, error) {
	palette, err := parsePalette(opts)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContextForImage(frame)
	defer dc.Close()

	w := float64(dc.Width())
	h := float64(dc.Height())

	if opts.GridSpacing > 0 {
		g := palette.grid
		dc.SetRGBA(g.R, g.G, g.B, 0.5)
		dc.SetLineWidth(1)
		for x := opts.GridSpacing; x < w; x += opts.GridSpacing {
			dc.DrawLine(x, 0, x, h)
		}
		for y := opts.GridSpacing; y < h; y += opts.GridSpacing {
			dc.DrawLine(0, y, w, y)
		}
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("failed to draw grid: %w", err)
		}
	}

	if len(opts.Candidates) > 0 {
		dc.SetColor(palette.candidate)
		dc.SetLineWidth(1)
		for _, l := range opts.Candidates {
			drawPolarLine(dc, l, w, h)
		}
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("failed to draw candidates: %w", err)
		}
	}

	if ov := result.Overlay; ov != nil {
		strokes := []struct {
			line geometry.PolarLine
			col  colorful.Color
		}{
			{ov.LeftLine, palette.left},
			{ov.RightLine, palette.right},
		}
		for _, s := range strokes {
			dc.SetColor(s.col)
			dc.SetLineWidth(2)
			drawPolarLine(dc, s.line, w, h)
			if err := dc.Stroke(); err != nil {
				return nil, fmt.Errorf("failed to draw edge: %w", err)
			}
		}

		dc.SetColor(palette.segment)
		dc.SetLineWidth(2)
		dc.DrawLine(ov.LeftPoint.X, ov.LeftPoint.Y, ov.RightPoint.X, ov.RightPoint.Y)
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("failed to draw segment: %w", err)
		}
		dc.DrawCircle(ov.LeftPoint.X, ov.LeftPoint.Y, 4)
		dc.DrawCircle(ov.RightPoint.X, ov.RightPoint.Y, 4)
		if err := dc.Fill(); err != nil {
			return nil, fmt.Errorf("failed to draw edge points: %w", err)
		}
	}

	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("failed to flush overlay: %w", err)
	}
	out := toRGBA(dc.Image())
	drawLabel(out, 8, 18, widthLabel(result), palette.label)
	return out, nil
}

// drawPolarLine adds the visible part of l to the current path. The segment
// runs through the foot of the normal from the origin in both directions far
// enough to cross the whole frame, so vertical and horizontal lines need no
// special case.
func drawPolarLine(dc *gg.Context, l geometry.PolarLine, w, h float64) {
	cos, sin := math.Cos(l.Theta), math.Sin(l.Theta)
	x0, y0 := l.Rho*cos, l.Rho*sin
	reach := w + h + math.Abs(l.Rho)
	dc.DrawLine(x0-reach*sin, y0+reach*cos, x0+reach*sin, y0-reach*cos)
}

func widthLabel(r measure.Result) string {
	if r.Measured() {
		return fmt.Sprintf("Width: %.3f mm (%.1f px)", r.WidthMM, r.WidthPixels)
	}
	return fmt.Sprintf("Width: -- (%s)", r.Status)
}

// drawLabel writes text at (x, y) baseline with a dark backing box.
func drawLabel(img *image.RGBA, x, y int, text string, fg colorful.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: img, Src: image.NewUniform(fg), Face: face}
	width := d.MeasureString(text).Ceil()

	box := image.Rect(x-3, y-face.Ascent-2, x+width+3, y+face.Descent+2).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(colorful.Color{R: 0, G: 0, B: 0}), image.Point{}, draw.Src)

	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	return rgba
}

type overlayPalette struct {
	candidate, left, right, segment, grid, label colorful.Color
}

func parsePalette(opts OverlayOptions) (overlayPalette, error) {
	var p overlayPalette
	fields := []struct {
		name string
		hex  string
		dst  *colorful.Color
	}{
		{"candidate", opts.CandidateColor, &p.candidate},
		{"left", opts.LeftColor, &p.left},
		{"right", opts.RightColor, &p.right},
		{"segment", opts.SegmentColor, &p.segment},
		{"grid", opts.GridColor, &p.grid},
		{"label", opts.LabelColor, &p.label},
	}
	for _, f := range fields {
		c, err := colorful.Hex(f.hex)
		if err != nil {
			return overlayPalette{}, fmt.Errorf("invalid %s color %q: %w", f.name, f.hex, err)
		}
		*f.dst = c
	}
	return p, nil
}
