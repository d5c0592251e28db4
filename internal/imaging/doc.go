// Package imaging loads, normalizes and annotates filament frames.
//
// Frames are read from disk with EXIF orientation applied, cached by path,
// and brought to the 640×480 geometry the measurement constants are written
// for. RenderOverlay draws the detected lines and the measured gap back onto
// a frame for inspection.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. This matches the geometry
// and measure packages, so overlay points can be drawn without conversion.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The other functions are
// stateless and never modify their input image.
//
// # Colors
//
// Overlay colors are given as "#RRGGBB" strings.
package imaging
