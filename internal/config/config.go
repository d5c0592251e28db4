// Package config assembles the runtime configuration of the gauge from
// defaults and FILAMENT_GAUGE_* environment variables.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ironsheep/filament-gauge/internal/detection"
	"github.com/ironsheep/filament-gauge/internal/imaging"
	"github.com/ironsheep/filament-gauge/internal/measure"
)

// Environment variable names.
const (
	EnvCalibration    = "FILAMENT_GAUGE_CALIBRATION"
	EnvScanRow        = "FILAMENT_GAUGE_SCAN_ROW"
	EnvLeftBand       = "FILAMENT_GAUGE_LEFT_BAND"
	EnvRightBand      = "FILAMENT_GAUGE_RIGHT_BAND"
	EnvFrameSize      = "FILAMENT_GAUGE_FRAME_SIZE"
	EnvCannyLow       = "FILAMENT_GAUGE_CANNY_LOW"
	EnvCannyHigh      = "FILAMENT_GAUGE_CANNY_HIGH"
	EnvHoughThreshold = "FILAMENT_GAUGE_HOUGH_THRESHOLD"
	EnvMaxLines       = "FILAMENT_GAUGE_MAX_LINES"
	EnvLogLevel       = "FILAMENT_GAUGE_LOG_LEVEL"
)

// Config is everything a measurement run needs besides the frames.
type Config struct {
	Measure measure.Config `json:"measure"`

	// FrameWidth and FrameHeight are the geometry frames are normalized to.
	FrameWidth  int `json:"frame_width"`
	FrameHeight int `json:"frame_height"`

	// CannyLow and CannyHigh are hysteresis thresholds on a 0-255 scale.
	CannyLow  int `json:"canny_low"`
	CannyHigh int `json:"canny_high"`

	Hough detection.HoughParams `json:"hough"`

	// LogLevel is "info" or "debug".
	LogLevel string `json:"log_level"`
}

// Default returns the configuration for the stock 640×480 setup.
func Default() Config {
	return Config{
		Measure:     measure.DefaultConfig(),
		FrameWidth:  imaging.DefaultFrameWidth,
		FrameHeight: imaging.DefaultFrameHeight,
		CannyLow:    detection.DefaultCannyLow,
		CannyHigh:   detection.DefaultCannyHigh,
		Hough:       detection.DefaultHoughParams(),
		LogLevel:    "info",
	}
}

// Load returns Default overridden by any variables getenv reports as set.
// Pass os.Getenv in production.
func Load(getenv func(string) string) (Config, error) {
	cfg := Default()

	floats := []struct {
		name string
		dst  *float64
	}{
		{EnvCalibration, &cfg.Measure.CalibrationMMPerPixel},
		{EnvScanRow, &cfg.Measure.ScanRow},
	}
	for _, f := range floats {
		if v := strings.TrimSpace(getenv(f.name)); v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return Config{}, fmt.Errorf("%s: %w", f.name, err)
			}
			*f.dst = n
		}
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{EnvCannyLow, &cfg.CannyLow},
		{EnvCannyHigh, &cfg.CannyHigh},
		{EnvHoughThreshold, &cfg.Hough.Threshold},
		{EnvMaxLines, &cfg.Hough.MaxLines},
	}
	for _, f := range ints {
		if v := strings.TrimSpace(getenv(f.name)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return Config{}, fmt.Errorf("%s: %w", f.name, err)
			}
			*f.dst = n
		}
	}

	bands := []struct {
		name string
		dst  *measure.Band
	}{
		{EnvLeftBand, &cfg.Measure.LeftBand},
		{EnvRightBand, &cfg.Measure.RightBand},
	}
	for _, b := range bands {
		if v := strings.TrimSpace(getenv(b.name)); v != "" {
			band, err := ParseBand(v)
			if err != nil {
				return Config{}, fmt.Errorf("%s: %w", b.name, err)
			}
			*b.dst = band
		}
	}

	if v := strings.TrimSpace(getenv(EnvFrameSize)); v != "" {
		w, h, err := ParseFrameSize(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvFrameSize, err)
		}
		cfg.FrameWidth, cfg.FrameHeight = w, h
	}

	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field for a usable value.
func (c Config) Validate() error {
	if err := c.Measure.Validate(); err != nil {
		return fmt.Errorf("invalid measurement config: %w", err)
	}
	if c.FrameWidth <= 0 || c.FrameHeight <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", c.FrameWidth, c.FrameHeight)
	}
	if c.Measure.ScanRow >= float64(c.FrameHeight) {
		return fmt.Errorf("scan row %g outside a %d pixel high frame", c.Measure.ScanRow, c.FrameHeight)
	}
	if c.CannyLow < 0 || c.CannyHigh > 255 || c.CannyLow > c.CannyHigh {
		return fmt.Errorf("invalid canny thresholds %d/%d", c.CannyLow, c.CannyHigh)
	}
	if c.Hough.Threshold < 1 {
		return fmt.Errorf("hough threshold must be at least 1, got %d", c.Hough.Threshold)
	}
	if c.Hough.ThetaSteps < 1 {
		return fmt.Errorf("hough theta steps must be at least 1, got %d", c.Hough.ThetaSteps)
	}
	if c.Hough.MaxLines < 0 {
		return fmt.Errorf("max lines must not be negative, got %d", c.Hough.MaxLines)
	}
	switch c.LogLevel {
	case "info", "debug":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool {
	return c.LogLevel == "debug"
}

// ParseBand parses "min:max" into a half-open band.
func ParseBand(s string) (measure.Band, error) {
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return measure.Band{}, fmt.Errorf("band %q: want min:max", s)
	}
	var b measure.Band
	var err error
	if b.Min, err = strconv.ParseFloat(strings.TrimSpace(lo), 64); err != nil {
		return measure.Band{}, fmt.Errorf("band %q: %w", s, err)
	}
	if b.Max, err = strconv.ParseFloat(strings.TrimSpace(hi), 64); err != nil {
		return measure.Band{}, fmt.Errorf("band %q: %w", s, err)
	}
	return b, nil
}

// ParseFrameSize parses "WIDTHxHEIGHT".
func ParseFrameSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("frame size %q: want WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil {
		return 0, 0, fmt.Errorf("frame size %q: %w", s, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return 0, 0, fmt.Errorf("frame size %q: %w", s, err)
	}
	return w, h, nil
}
