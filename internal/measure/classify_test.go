package measure

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/filament-gauge/internal/geometry"
)

// edge returns a near-vertical line crossing row 0 at x0.
func edge(x0 float64) geometry.PolarLine {
	const theta = 0.001
	return geometry.PolarLine{Rho: x0 * math.Cos(theta), Theta: theta}
}

func TestBand_Contains(t *testing.T) {
	b := Band{Min: 20, Max: 320}

	tests := []struct {
		x    float64
		want bool
	}{
		{19.999, false},
		{20, true},
		{170, true},
		{319.999, true},
		{320, false},
	}

	for _, tt := range tests {
		if got := b.Contains(tt.x); got != tt.want {
			t.Errorf("Contains(%g): got %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestSideOf(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		line geometry.PolarLine
		want Side
	}{
		{"left band", edge(150), Left},
		{"right band", edge(450), Right},
		{"far left", edge(5), Unclassified},
		{"far right", edge(630), Unclassified},
		{"off frame", edge(-80), Unclassified},
		{"theta zero", geometry.PolarLine{Rho: 150, Theta: 0}, Unclassified},
		{"theta pi", geometry.PolarLine{Rho: -450, Theta: math.Pi}, Unclassified},
		{"horizontal", geometry.PolarLine{Rho: 100, Theta: math.Pi / 2}, Unclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SideOf(tt.line, cfg); got != tt.want {
				t.Errorf("SideOf: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSideAt_BandBoundaries(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		x    float64
		want Side
	}{
		{19.5, Unclassified},
		{20, Left},
		{319.75, Left},
		{320, Right},
		{619.75, Right},
		{620, Unclassified},
	}

	for _, tt := range tests {
		if got := SideAt(tt.x, cfg); got != tt.want {
			t.Errorf("x=%g: got %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestClassify_PreservesDetectorOrder(t *testing.T) {
	lines := []geometry.PolarLine{
		edge(400),                            // 0 right
		edge(100),                            // 1 left
		geometry.PolarLine{Rho: 1, Theta: 0}, // 2 degenerate
		edge(250),                            // 3 left
		edge(700),                            // 4 off frame
		edge(600),                            // 5 right
	}

	got := Classify(lines, DefaultConfig())
	want := Classification{Left: []int{1, 3}, Right: []int{0, 5}}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Classify mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_Empty(t *testing.T) {
	got := Classify(nil, DefaultConfig())
	if len(got.Left) != 0 || len(got.Right) != 0 {
		t.Errorf("Classify(nil): got %+v, want empty", got)
	}
}

func TestSide_String(t *testing.T) {
	tests := map[Side]string{
		Left:         "left",
		Right:        "right",
		Unclassified: "unclassified",
	}
	for side, want := range tests {
		if side.String() != want {
			t.Errorf("String: got %s, want %s", side.String(), want)
		}
	}
}
