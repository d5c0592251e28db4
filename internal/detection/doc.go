// Package detection finds straight edge lines in filament frames.
//
// It is the vision stage in front of the measurement pipeline: a frame goes
// through Canny edge detection and the standard Hough line transform, and
// comes out as a ranked list of polar lines (ρ, θ).
//
// # Algorithm Overview
//
//  1. Edge Detection: grayscale, Gaussian blur, Sobel gradients, non-maximum
//     suppression and hysteresis thresholding (DetectEdges)
//  2. Voting: every edge pixel votes for all (ρ, θ) bins it lies on
//  3. Peak Finding: bins above the vote threshold that are maxima of their
//     5×5 neighbourhood become lines
//  4. Ranking: lines are sorted by votes, strongest first
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// A line is returned as ρ = x·cos θ + y·sin θ with ρ in pixels (it may be
// negative) and θ in radians in the open range (0, π).
//
// # Angle Bins
//
// Angle bins are centred half a step away from 0 and π. A perfectly vertical
// edge therefore lands on the two bins just inside the range instead of on
// θ = 0, where a line has no slope/intercept form and would be rejected by
// the measurement stage.
//
// # Performance Considerations
//
// Voting is O(edge pixels × angle bins). For a 640×480 frame with the default
// 360 bins this is a few million additions per frame.
//
// # Limitations
//
// The defaults (Canny 140/200, 100 votes) suit a backlit filament filling the
// frame height. Low-contrast or very short edges need lower thresholds.
package detection
