package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerate is returned when a conversion or intersection would divide by
// zero.
var ErrDegenerate = errors.New("degenerate geometry")

const (
	// sinEpsilon bounds |sin θ| below which a polar line has no finite slope.
	// sin(π) evaluates to ~1.2e-16, not 0.
	sinEpsilon = 1e-9

	// slopeEpsilon bounds |m| (or a slope difference) below which a division
	// by it is rejected.
	slopeEpsilon = 1e-12
)

// PolarLine is an infinite line in Hough normal form.
type PolarLine struct {
	Rho   float64 `json:"rho"`   // Signed perpendicular distance from the origin, in pixels
	Theta float64 `json:"theta"` // Angle of the normal, in radians
}

// CartesianLine is a line in slope/intercept form: y = Slope·x + Intercept.
type CartesianLine struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Point2D is a point in pixel coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (l PolarLine) sin() (float64, error) {
	s := math.Sin(l.Theta)
	if math.Abs(s) < sinEpsilon {
		return 0, fmt.Errorf("polar line (rho=%g, theta=%g) is parallel to the x axis normal: %w",
			l.Rho, l.Theta, ErrDegenerate)
	}
	return s, nil
}

// Slope returns -cos θ / sin θ.
func (l PolarLine) Slope() (float64, error) {
	s, err := l.sin()
	if err != nil {
		return 0, err
	}
	return -math.Cos(l.Theta) / s, nil
}

// Intercept returns the y-intercept ρ / sin θ.
func (l PolarLine) Intercept() (float64, error) {
	s, err := l.sin()
	if err != nil {
		return 0, err
	}
	return l.Rho / s, nil
}

// Cartesian converts the line to slope/intercept form.
func (l PolarLine) Cartesian() (CartesianLine, error) {
	m, err := l.Slope()
	if err != nil {
		return CartesianLine{}, err
	}
	c, err := l.Intercept()
	if err != nil {
		return CartesianLine{}, err
	}
	return CartesianLine{Slope: m, Intercept: c}, nil
}

// Contains reports whether p lies on the line within tol pixels.
func (l PolarLine) Contains(p Point2D, tol float64) bool {
	d := p.X*math.Cos(l.Theta) + p.Y*math.Sin(l.Theta) - l.Rho
	return math.Abs(d) <= tol
}

// XAtY returns the x coordinate where the line crosses row y.
//
// Horizontal lines (zero slope) never cross a single x for a given row and
// yield ErrDegenerate.
func (c CartesianLine) XAtY(y float64) (float64, error) {
	if math.Abs(c.Slope) < slopeEpsilon {
		return 0, fmt.Errorf("horizontal line y=%g has no x for row %g: %w", c.Intercept, y, ErrDegenerate)
	}
	return (y - c.Intercept) / c.Slope, nil
}

// PointAtY returns the point on the line at row y.
func (c CartesianLine) PointAtY(y float64) (Point2D, error) {
	x, err := c.XAtY(y)
	if err != nil {
		return Point2D{}, err
	}
	return Point2D{X: x, Y: y}, nil
}

// YAtX evaluates the line at column x.
func (c CartesianLine) YAtX(x float64) float64 {
	return c.Slope*x + c.Intercept
}
