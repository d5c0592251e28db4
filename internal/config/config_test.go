package config

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/filament-gauge/internal/measure"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config invalid: %v", err)
	}
	if cfg.Measure.CalibrationMMPerPixel != 0.009375 {
		t.Errorf("calibration = %v, want 0.009375", cfg.Measure.CalibrationMMPerPixel)
	}
	if cfg.FrameWidth != 640 || cfg.FrameHeight != 480 {
		t.Errorf("frame = %dx%d, want 640x480", cfg.FrameWidth, cfg.FrameHeight)
	}
	if cfg.CannyLow != 140 || cfg.CannyHigh != 200 {
		t.Errorf("canny = %d/%d, want 140/200", cfg.CannyLow, cfg.CannyHigh)
	}
	if cfg.Debug() {
		t.Error("default config should not enable debug")
	}
}

func TestLoad_Empty(t *testing.T) {
	cfg, err := Load(envMap(nil))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load with no variables differs from Default (-want +got):\n%s", diff)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load(envMap(map[string]string{
		EnvCalibration:    "0.01",
		EnvScanRow:        " 300 ",
		EnvLeftBand:       "0:400",
		EnvRightBand:      "400:800",
		EnvFrameSize:      "800X600",
		EnvCannyLow:       "50",
		EnvCannyHigh:      "150",
		EnvHoughThreshold: "80",
		EnvMaxLines:       "10",
		EnvLogLevel:       "DEBUG",
	}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := Default()
	want.Measure = measure.Config{
		CalibrationMMPerPixel: 0.01,
		ScanRow:               300,
		LeftBand:              measure.Band{Min: 0, Max: 400},
		RightBand:             measure.Band{Min: 400, Max: 800},
	}
	want.FrameWidth, want.FrameHeight = 800, 600
	want.CannyLow, want.CannyHigh = 50, 150
	want.Hough.Threshold = 80
	want.Hough.MaxLines = 10
	want.LogLevel = "debug"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if !cfg.Debug() {
		t.Error("Debug() should be true")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad float", map[string]string{EnvCalibration: "abc"}, EnvCalibration},
		{"bad int", map[string]string{EnvMaxLines: "ten"}, EnvMaxLines},
		{"bad band", map[string]string{EnvLeftBand: "20-320"}, EnvLeftBand},
		{"bad band bound", map[string]string{EnvRightBand: "320:x"}, EnvRightBand},
		{"bad frame size", map[string]string{EnvFrameSize: "640"}, EnvFrameSize},
		{"negative calibration", map[string]string{EnvCalibration: "-1"}, "calibration"},
		{"overlapping bands", map[string]string{EnvLeftBand: "20:400"}, "overlaps"},
		{"scan row outside frame", map[string]string{EnvScanRow: "480"}, "scan row"},
		{"canny out of range", map[string]string{EnvCannyHigh: "300"}, "canny"},
		{"canny inverted", map[string]string{EnvCannyLow: "210"}, "canny"},
		{"zero threshold", map[string]string{EnvHoughThreshold: "0"}, "threshold"},
		{"negative max lines", map[string]string{EnvMaxLines: "-1"}, "max lines"},
		{"unknown log level", map[string]string{EnvLogLevel: "trace"}, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(envMap(tt.env))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParseBand(t *testing.T) {
	b, err := ParseBand(" 20 : 320 ")
	if err != nil {
		t.Fatalf("ParseBand failed: %v", err)
	}
	if b != (measure.Band{Min: 20, Max: 320}) {
		t.Errorf("ParseBand = %+v", b)
	}
}

func TestParseFrameSize(t *testing.T) {
	w, h, err := ParseFrameSize("1280x720")
	if err != nil {
		t.Fatalf("ParseFrameSize failed: %v", err)
	}
	if w != 1280 || h != 720 {
		t.Errorf("ParseFrameSize = %dx%d", w, h)
	}
	if _, _, err := ParseFrameSize("axb"); err == nil {
		t.Error("expected error for non-numeric size")
	}
}
