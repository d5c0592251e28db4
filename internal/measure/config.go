package measure

import "fmt"

// Defaults for a 640×480 frame spanning 6 mm × 4.5 mm.
const (
	DefaultCalibrationMMPerPixel = 0.009375
	DefaultScanRow               = 240.0
)

// Band is a half-open range [Min, Max) of x coordinates on row 0.
type Band struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether Min <= x < Max.
func (b Band) Contains(x float64) bool {
	return x >= b.Min && x < b.Max
}

// Config holds the fixed parameters of a measurement.
type Config struct {
	// CalibrationMMPerPixel converts pixel distances to millimeters.
	CalibrationMMPerPixel float64 `json:"calibration_mm_per_pixel"`

	// ScanRow is the image row at which the left edge is sampled.
	ScanRow float64 `json:"scan_row"`

	// LeftBand and RightBand classify lines by their x at row 0.
	LeftBand  Band `json:"left_band"`
	RightBand Band `json:"right_band"`
}

// DefaultConfig returns the configuration for a 640×480 frame.
func DefaultConfig() Config {
	return Config{
		CalibrationMMPerPixel: DefaultCalibrationMMPerPixel,
		ScanRow:               DefaultScanRow,
		LeftBand:              Band{Min: 20, Max: 320},
		RightBand:             Band{Min: 320, Max: 620},
	}
}

// Validate checks that the configuration can produce measurements.
func (c Config) Validate() error {
	if c.CalibrationMMPerPixel <= 0 {
		return fmt.Errorf("calibration must be positive, got %g", c.CalibrationMMPerPixel)
	}
	if c.ScanRow < 0 {
		return fmt.Errorf("scan row must not be negative, got %g", c.ScanRow)
	}
	if c.LeftBand.Min >= c.LeftBand.Max {
		return fmt.Errorf("invalid left band [%g, %g)", c.LeftBand.Min, c.LeftBand.Max)
	}
	if c.RightBand.Min >= c.RightBand.Max {
		return fmt.Errorf("invalid right band [%g, %g)", c.RightBand.Min, c.RightBand.Max)
	}
	if c.LeftBand.Max > c.RightBand.Min {
		return fmt.Errorf("left band [%g, %g) overlaps right band [%g, %g)",
			c.LeftBand.Min, c.LeftBand.Max, c.RightBand.Min, c.RightBand.Max)
	}
	return nil
}
