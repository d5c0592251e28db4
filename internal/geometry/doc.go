// Package geometry converts Hough-style polar lines into Cartesian form and
// measures the perpendicular gap between two edge lines.
//
// # Line Forms
//
// A PolarLine (ρ, θ) is the set of points satisfying
//
//	ρ = x·cos θ + y·sin θ
//
// where ρ is the signed distance from the origin and θ the angle of the
// line's normal, in radians. The equivalent Cartesian form is
//
//	y = m·x + c,  m = -cos θ / sin θ,  c = ρ / sin θ
//
// # Coordinate System
//
// Coordinates follow the image convention used throughout the module:
//   - Origin (0, 0) at the top-left corner
//   - X increases rightward
//   - Y increases downward
//
// # Degenerate Geometry
//
// Every division in this package is guarded. When sin θ is zero (θ = 0 or
// θ = π), when a slope is zero, or when two lines are parallel, the function
// returns an error wrapping ErrDegenerate instead of producing NaN or Inf.
// Callers test for it with errors.Is.
package geometry
