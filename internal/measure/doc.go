// Package measure turns a frame's detected edge lines into a calibrated
// filament width.
//
// # Pipeline
//
//  1. Classification: each polar line is placed on the left or right edge by
//     where it crosses the top row (y = 0). Lines outside both bands, and lines
//     with no finite slope, are discarded.
//  2. Selection: the first left and first right candidate in detector order
//     are used. The Hough detector ranks lines by vote count, so the first
//     candidate on each side is the strongest one.
//  3. Geometry: the perpendicular gap between the two edges is measured at the
//     reference scan row (see geometry.CrossGap).
//  4. Calibration: the pixel gap is multiplied by the mm-per-pixel constant.
//
// # Bands
//
// Bands are half-open intervals [Min, Max). With the default bands a line
// crossing row 0 at x = 20 is Left, at x = 320 is Right, and at x = 620 is
// unclassified.
//
// # No Measurement
//
// A frame without a usable edge pair is not an error. Measure returns a
// Result with WidthMM = 0 and a Status naming the reason:
//   - NoDetection: the detector returned no lines
//   - NoClassifiedPair: lines exist but not on both sides
//   - DegenerateGeometry: the chosen edges cannot be solved without dividing
//     by zero
//
// Every frame is measured independently; nothing is carried between calls.
package measure
