package measure

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/ironsheep/filament-gauge/internal/geometry"
)

func TestMeasure_ParallelEdges(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name  string
		x0    float64
		gap   float64
		theta float64
	}{
		{"300px near vertical", 100, 300, 0.001},
		{"187px near vertical", 200, 187, 0.0005},
		{"250px tilted", 150, 250, 0.02},
		{"tilted the other way", 200, 180, math.Pi - 0.02},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left := geometry.PolarLine{Rho: tt.x0 * math.Cos(tt.theta), Theta: tt.theta}
			right := geometry.PolarLine{Rho: (tt.x0 + tt.gap) * math.Cos(tt.theta), Theta: tt.theta}

			r := Measure([]geometry.PolarLine{left, right}, cfg)
			if r.Status != OK {
				t.Fatalf("Status: got %v, want ok (detail %q)", r.Status, r.Detail)
			}

			wantPixels := tt.gap * math.Abs(math.Cos(tt.theta))
			if !scalar.EqualWithinAbs(r.WidthPixels, wantPixels, 1e-6) {
				t.Errorf("WidthPixels: got %.9f, want %.9f", r.WidthPixels, wantPixels)
			}
			if !scalar.EqualWithinAbs(r.WidthMM, wantPixels*DefaultCalibrationMMPerPixel, 1e-9) {
				t.Errorf("WidthMM: got %.9f, want %.9f", r.WidthMM, wantPixels*DefaultCalibrationMMPerPixel)
			}
		})
	}
}

func TestMeasure_VerticalishMatchesRowGap(t *testing.T) {
	const gap = 250.0
	lines := []geometry.PolarLine{edge(100), edge(100 + gap)}

	r := Measure(lines, DefaultConfig())
	if !scalar.EqualWithinAbs(r.WidthMM, gap*0.009375, 1e-5) {
		t.Errorf("WidthMM: got %.9f, want %.9f", r.WidthMM, gap*0.009375)
	}
	if r.Overlay == nil {
		t.Fatal("Overlay is nil for a successful measurement")
	}
	if r.Overlay.LeftPoint.Y != DefaultScanRow {
		t.Errorf("LeftPoint.Y: got %g, want %g", r.Overlay.LeftPoint.Y, DefaultScanRow)
	}
	if r.Overlay.LeftLine != lines[0] || r.Overlay.RightLine != lines[1] {
		t.Errorf("Overlay lines: got %+v / %+v", r.Overlay.LeftLine, r.Overlay.RightLine)
	}
}

func TestMeasure_NoMeasurement(t *testing.T) {
	tests := []struct {
		name  string
		lines []geometry.PolarLine
		want  Status
	}{
		{"nil input", nil, NoDetection},
		{"empty input", []geometry.PolarLine{}, NoDetection},
		{"left only", []geometry.PolarLine{edge(100), edge(200)}, NoClassifiedPair},
		{"right only", []geometry.PolarLine{edge(400)}, NoClassifiedPair},
		{"out of band", []geometry.PolarLine{edge(5), edge(630)}, NoClassifiedPair},
		{"vertical lines", []geometry.PolarLine{{Rho: 100, Theta: 0}, {Rho: 400, Theta: 0}}, NoClassifiedPair},
		{"theta pi", []geometry.PolarLine{edge(100), {Rho: -400, Theta: math.Pi}}, NoClassifiedPair},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Measure(tt.lines, DefaultConfig())
			if r.Status != tt.want {
				t.Errorf("Status: got %v, want %v", r.Status, tt.want)
			}
			if r.WidthMM != 0 || r.WidthPixels != 0 {
				t.Errorf("width: got %g mm / %g px, want 0", r.WidthMM, r.WidthPixels)
			}
			if r.Overlay != nil {
				t.Errorf("Overlay: got %+v, want nil", r.Overlay)
			}
			if r.Measured() {
				t.Error("Measured() = true")
			}
		})
	}
}

func TestMeasure_DegenerateGeometry(t *testing.T) {
	// The right line is perpendicular to the left one, so the normal through
	// the left edge never meets it.
	theta := 0.001 + math.Pi/2
	right := geometry.PolarLine{Rho: 400 * math.Cos(theta), Theta: theta}
	if SideOf(right, DefaultConfig()) != Right {
		t.Fatalf("test line does not classify as right")
	}

	r := Measure([]geometry.PolarLine{edge(100), right}, DefaultConfig())
	if r.Status != DegenerateGeometry {
		t.Fatalf("Status: got %v, want degenerate_geometry", r.Status)
	}
	if r.WidthMM != 0 || math.IsNaN(r.WidthMM) {
		t.Errorf("WidthMM: got %g, want 0", r.WidthMM)
	}
	if !strings.Contains(r.Detail, "degenerate") {
		t.Errorf("Detail: got %q", r.Detail)
	}
}

func TestMeasure_FirstCandidateWins(t *testing.T) {
	lines := []geometry.PolarLine{
		edge(300), // left
		edge(500), // right
		edge(100), // left, ignored
		edge(600), // right, ignored
	}

	r := Measure(lines, DefaultConfig())
	if r.Status != OK {
		t.Fatalf("Status: got %v", r.Status)
	}
	if r.Overlay.LeftLine != lines[0] {
		t.Errorf("LeftLine: got %+v, want %+v", r.Overlay.LeftLine, lines[0])
	}
	if r.Overlay.RightLine != lines[1] {
		t.Errorf("RightLine: got %+v, want %+v", r.Overlay.RightLine, lines[1])
	}
	if !scalar.EqualWithinAbs(r.WidthPixels, 200, 1e-3) {
		t.Errorf("WidthPixels: got %g, want ~200", r.WidthPixels)
	}
}

func TestMeasure_Idempotent(t *testing.T) {
	lines := []geometry.PolarLine{edge(90), edge(5), edge(410.5), edge(130)}
	cfg := DefaultConfig()

	first := Measure(lines, cfg)
	second := Measure(lines, cfg)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated Measure differs (-first +second):\n%s", diff)
	}
	if math.Float64bits(first.WidthMM) != math.Float64bits(second.WidthMM) {
		t.Errorf("WidthMM bits differ: %x vs %x", math.Float64bits(first.WidthMM), math.Float64bits(second.WidthMM))
	}
}

func TestMeasure_CustomCalibration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CalibrationMMPerPixel = 0.01

	r := Measure([]geometry.PolarLine{edge(100), edge(400)}, cfg)
	if !scalar.EqualWithinAbs(r.WidthMM, 3.0, 1e-5) {
		t.Errorf("WidthMM: got %g, want ~3.0", r.WidthMM)
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero calibration", func(c *Config) { c.CalibrationMMPerPixel = 0 }},
		{"negative scan row", func(c *Config) { c.ScanRow = -1 }},
		{"empty left band", func(c *Config) { c.LeftBand = Band{Min: 300, Max: 300} }},
		{"inverted right band", func(c *Config) { c.RightBand = Band{Min: 620, Max: 320} }},
		{"overlapping bands", func(c *Config) { c.LeftBand.Max = 400 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate returned nil")
			}
		})
	}
}

func TestStatus_String(t *testing.T) {
	tests := map[Status]string{
		OK:                 "ok",
		NoDetection:        "no_detection",
		NoClassifiedPair:   "no_classified_pair",
		DegenerateGeometry: "degenerate_geometry",
		Status(99):         "unknown",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("String: got %s, want %s", s.String(), want)
		}
	}
}
