package measure

import "github.com/ironsheep/filament-gauge/internal/geometry"

// Status explains the outcome of a measurement.
type Status int

const (
	// OK means WidthMM holds a measurement.
	OK Status = iota
	// NoDetection means the frame produced no lines at all.
	NoDetection
	// NoClassifiedPair means lines were found but not on both edges.
	NoClassifiedPair
	// DegenerateGeometry means the chosen edges could not be solved.
	DegenerateGeometry
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case NoDetection:
		return "no_detection"
	case NoClassifiedPair:
		return "no_classified_pair"
	case DegenerateGeometry:
		return "degenerate_geometry"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Overlay carries the chosen edges and measurement points for display. It has
// no effect on the measured width.
type Overlay struct {
	LeftLine   geometry.PolarLine `json:"left_line"`
	RightLine  geometry.PolarLine `json:"right_line"`
	LeftPoint  geometry.Point2D   `json:"left_point"`
	RightPoint geometry.Point2D   `json:"right_point"`
}

// Result is the width measured on one frame.
type Result struct {
	// WidthMM is the calibrated width, or 0 when Status is not OK.
	WidthMM float64 `json:"width_mm"`

	// WidthPixels is the uncalibrated gap, or 0 when Status is not OK.
	WidthPixels float64 `json:"width_pixels"`

	Status Status `json:"status"`

	// Detail says more about a missing width when the status alone does not.
	Detail string `json:"detail,omitempty"`

	// Classification lists the candidate indices on each side.
	Classification Classification `json:"classification"`

	// Overlay is set only when Status is OK.
	Overlay *Overlay `json:"overlay,omitempty"`
}

// Measured reports whether the result holds a width.
func (r Result) Measured() bool {
	return r.Status == OK
}

// Measure computes the filament width from a frame's detected lines.
func Measure(lines []geometry.PolarLine, cfg Config) Result {
	if len(lines) == 0 {
		return Result{Status: NoDetection}
	}

	cls := Classify(lines, cfg)
	if len(cls.Left) == 0 || len(cls.Right) == 0 {
		return Result{Status: NoClassifiedPair, Classification: cls}
	}

	left := lines[cls.Left[0]]
	right := lines[cls.Right[0]]

	gap, err := geometry.CrossGap(left, right, cfg.ScanRow)
	if err != nil {
		return Result{Status: DegenerateGeometry, Detail: err.Error(), Classification: cls}
	}

	return Result{
		WidthMM:        gap.Pixels * cfg.CalibrationMMPerPixel,
		WidthPixels:    gap.Pixels,
		Status:         OK,
		Classification: cls,
		Overlay: &Overlay{
			LeftLine:   left,
			RightLine:  right,
			LeftPoint:  gap.Left,
			RightPoint: gap.Right,
		},
	}
}
