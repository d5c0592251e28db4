package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Gap is the perpendicular cross-gap between two edge lines.
type Gap struct {
	// Left is the point on the left edge at the scan row.
	Left Point2D `json:"left"`

	// Right is where the normal through Left meets the right edge.
	Right Point2D `json:"right"`

	// Pixels is the Euclidean distance from Left to Right.
	Pixels float64 `json:"pixels"`
}

// Normal returns the line through p perpendicular to l.
func Normal(p Point2D, l CartesianLine) (CartesianLine, error) {
	if math.Abs(l.Slope) < slopeEpsilon {
		return CartesianLine{}, fmt.Errorf("normal of horizontal line at (%g,%g): %w", p.X, p.Y, ErrDegenerate)
	}
	m := -1 / l.Slope
	return CartesianLine{Slope: m, Intercept: p.Y - m*p.X}, nil
}

// Intersect returns the crossing point of a and b.
func Intersect(a, b CartesianLine) (Point2D, error) {
	denom := a.Slope - b.Slope
	if math.Abs(denom) < slopeEpsilon {
		return Point2D{}, fmt.Errorf("lines with slopes %g and %g are parallel: %w", a.Slope, b.Slope, ErrDegenerate)
	}
	x := (b.Intercept - a.Intercept) / denom
	return Point2D{X: x, Y: a.YAtX(x)}, nil
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point2D) float64 {
	return r2.Norm(r2.Sub(a.vec(), b.vec()))
}

func (p Point2D) vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// CrossGap measures the width between a left and a right edge.
//
// The left edge is sampled at scanRow, a normal to it is dropped through that
// point, and the normal is intersected with the right edge. The distance
// between the two points is the width along the true cross direction, which
// stays correct when the edges are tilted but parallel.
func CrossGap(left, right PolarLine, scanRow float64) (Gap, error) {
	l, err := left.Cartesian()
	if err != nil {
		return Gap{}, fmt.Errorf("left edge: %w", err)
	}
	r, err := right.Cartesian()
	if err != nil {
		return Gap{}, fmt.Errorf("right edge: %w", err)
	}

	pl, err := l.PointAtY(scanRow)
	if err != nil {
		return Gap{}, fmt.Errorf("left edge at row %g: %w", scanRow, err)
	}

	n, err := Normal(pl, l)
	if err != nil {
		return Gap{}, err
	}

	pr, err := Intersect(n, r)
	if err != nil {
		return Gap{}, fmt.Errorf("normal to right edge: %w", err)
	}

	d := Distance(pl, pr)
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return Gap{}, fmt.Errorf("non-finite gap between (%g,%g) and (%g,%g): %w",
			pl.X, pl.Y, pr.X, pr.Y, ErrDegenerate)
	}

	return Gap{Left: pl, Right: pr, Pixels: d}, nil
}
