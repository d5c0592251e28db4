package detection

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/ironsheep/filament-gauge/internal/geometry"
)

// Default Hough parameters. Angle bins are 0.5° wide: a full-height vertical
// edge then spreads over about 2 px of ρ in the bin nearest θ = 0 and still
// clears the vote threshold, where 1° bins would put it near the limit.
const (
	DefaultHoughThreshold = 100
	DefaultThetaSteps     = 360
	DefaultMaxLines       = 50
)

// HoughParams controls the standard Hough line transform.
type HoughParams struct {
	// Threshold is the minimum number of votes for a line. Zero or less
	// means DefaultHoughThreshold.
	Threshold int `json:"threshold"`

	// ThetaSteps is the number of angle bins over [0, π). Bin i is centred on
	// (i + 0.5)·π/ThetaSteps, so no bin sits on θ = 0 or θ = π where a line
	// has no finite slope. Zero or less means DefaultThetaSteps.
	ThetaSteps int `json:"theta_steps"`

	// MaxLines caps the number of lines returned. Zero means no cap.
	MaxLines int `json:"max_lines"`
}

// DefaultHoughParams returns the parameters used for 640×480 frames.
func DefaultHoughParams() HoughParams {
	return HoughParams{
		Threshold:  DefaultHoughThreshold,
		ThetaSteps: DefaultThetaSteps,
		MaxLines:   DefaultMaxLines,
	}
}

// LineCandidate is a polar line found by the Hough transform.
type LineCandidate struct {
	Line  geometry.PolarLine `json:"line"`
	Votes int                `json:"votes"`

	// AngleDegrees is θ in degrees, for readability.
	AngleDegrees float64 `json:"angle_degrees"`
}

// LinesResult contains detected lines ranked by votes, strongest first.
type LinesResult struct {
	Lines      []LineCandidate `json:"lines"`
	Count      int             `json:"count"`
	EdgePixels int             `json:"edge_pixels"`
}

// Polar returns the detected lines in ranked order.
func (r *LinesResult) Polar() []geometry.PolarLine {
	out := make([]geometry.PolarLine, len(r.Lines))
	for i, c := range r.Lines {
		out[i] = c.Line
	}
	return out
}

// DetectLines runs Canny edge detection followed by the Hough transform.
func DetectLines(img image.Image, cannyLow, cannyHigh int, params HoughParams) (*LinesResult, error) {
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("empty image")
	}
	edges := DetectEdges(img, cannyLow, cannyHigh)
	lines := HoughLines(edges, params)
	return &LinesResult{
		Lines:      lines,
		Count:      len(lines),
		EdgePixels: edges.Count(),
	}, nil
}

// HoughLines finds straight lines in an edge map.
//
// Each edge pixel votes for every (ρ, θ) bin it lies on, with ρ quantised to
// 1 px. Bins with at least Threshold votes that are maxima of their 5×5
// neighbourhood become lines. Lines are ordered by votes, strongest first;
// equal votes keep accumulator order (ρ ascending, then θ).
func HoughLines(edges *EdgeMap, params HoughParams) []LineCandidate {
	if params.ThetaSteps <= 0 {
		params.ThetaSteps = DefaultThetaSteps
	}
	if params.Threshold <= 0 {
		params.Threshold = DefaultHoughThreshold
	}
	numAngles := params.ThetaSteps
	width, height := edges.Width, edges.Height
	maxDist := int(math.Ceil(math.Sqrt(float64(width*width + height*height))))
	numRho := 2*maxDist + 1

	cosT := make([]float64, numAngles)
	sinT := make([]float64, numAngles)
	for t := 0; t < numAngles; t++ {
		angle := thetaAt(t, numAngles)
		cosT[t] = math.Cos(angle)
		sinT[t] = math.Sin(angle)
	}

	accumulator := make([]int, numRho*numAngles)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !edges.At(x, y) {
				continue
			}
			for t := 0; t < numAngles; t++ {
				rho := float64(x)*cosT[t] + float64(y)*sinT[t]
				r := int(math.Round(rho)) + maxDist
				if r >= 0 && r < numRho {
					accumulator[r*numAngles+t]++
				}
			}
		}
	}

	type peak struct {
		rho   int
		theta int
		votes int
	}
	peaks := make([]peak, 0)

	for r := 0; r < numRho; r++ {
		for t := 0; t < numAngles; t++ {
			votes := accumulator[r*numAngles+t]
			if votes < params.Threshold {
				continue
			}
			if isLocalMax(accumulator, numRho, numAngles, r, t) {
				peaks = append(peaks, peak{rho: r - maxDist, theta: t, votes: votes})
			}
		}
	}

	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].votes > peaks[j].votes
	})

	if params.MaxLines > 0 && len(peaks) > params.MaxLines {
		peaks = peaks[:params.MaxLines]
	}

	lines := make([]LineCandidate, len(peaks))
	for i, p := range peaks {
		theta := thetaAt(p.theta, numAngles)
		lines[i] = LineCandidate{
			Line:         geometry.PolarLine{Rho: float64(p.rho), Theta: theta},
			Votes:        p.votes,
			AngleDegrees: math.Round(theta*180/math.Pi*100) / 100,
		}
	}
	return lines
}

// thetaAt returns the centre angle of bin t.
func thetaAt(t, numAngles int) float64 {
	return (float64(t) + 0.5) * math.Pi / float64(numAngles)
}

// isLocalMax reports whether bin (r, t) is a maximum of its 5×5
// neighbourhood. Ties go to the bin that comes first in accumulator order so
// a plateau yields a single line. θ does not wrap: bins near 0 and near π
// describe lines with opposite ρ signs.
func isLocalMax(acc []int, numRho, numAngles, r, t int) bool {
	v := acc[r*numAngles+t]
	for dr := -2; dr <= 2; dr++ {
		for dt := -2; dt <= 2; dt++ {
			if dr == 0 && dt == 0 {
				continue
			}
			nr, nt := r+dr, t+dt
			if nr < 0 || nr >= numRho || nt < 0 || nt >= numAngles {
				continue
			}
			n := acc[nr*numAngles+nt]
			if n > v {
				return false
			}
			if n == v && (dr < 0 || (dr == 0 && dt < 0)) {
				return false
			}
		}
	}
	return true
}
