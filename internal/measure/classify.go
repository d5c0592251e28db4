package measure

import (
	"github.com/ironsheep/filament-gauge/internal/geometry"
)

// Side identifies which filament edge a line belongs to.
type Side int

const (
	Unclassified Side = iota
	Left
	Right
)

// String returns the lowercase side name.
func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unclassified"
	}
}

// MarshalText encodes the side by name so JSON results are readable.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Classification holds indices into the classified line slice, in the order
// the detector reported them.
type Classification struct {
	Left  []int `json:"left"`
	Right []int `json:"right"`
}

// TopCrossing returns the x coordinate where l crosses row 0.
func TopCrossing(l geometry.PolarLine) (float64, error) {
	c, err := l.Cartesian()
	if err != nil {
		return 0, err
	}
	return c.XAtY(0)
}

// SideOf classifies a single line. Lines with no finite crossing of row 0 are
// Unclassified.
func SideOf(l geometry.PolarLine, cfg Config) Side {
	x, err := TopCrossing(l)
	if err != nil {
		return Unclassified
	}
	return SideAt(x, cfg)
}

// SideAt classifies a row-0 crossing at x. A crossing exactly on a shared
// bound belongs to the band that starts there.
func SideAt(x float64, cfg Config) Side {
	switch {
	case cfg.LeftBand.Contains(x):
		return Left
	case cfg.RightBand.Contains(x):
		return Right
	default:
		return Unclassified
	}
}

// Classify partitions lines into left and right edge candidates.
func Classify(lines []geometry.PolarLine, cfg Config) Classification {
	var c Classification
	for i, l := range lines {
		switch SideOf(l, cfg) {
		case Left:
			c.Left = append(c.Left, i)
		case Right:
			c.Right = append(c.Right, i)
		}
	}
	return c
}
