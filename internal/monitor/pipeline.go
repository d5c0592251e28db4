package monitor

import (
	"time"

	"github.com/ironsheep/filament-gauge/internal/config"
	"github.com/ironsheep/filament-gauge/internal/detection"
	"github.com/ironsheep/filament-gauge/internal/measure"
)

// Report is the outcome of one frame.
type Report struct {
	Frame Frame `json:"frame"`

	// Candidates are the detected lines, strongest first.
	Candidates []detection.LineCandidate `json:"candidates"`

	Result measure.Result `json:"result"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

// Pipeline turns a frame into a measurement.
type Pipeline struct {
	Config config.Config
}

// NewPipeline returns a pipeline using cfg.
func NewPipeline(cfg config.Config) *Pipeline {
	return &Pipeline{Config: cfg}
}

// Process detects lines in the frame and measures the gap between the
// filament edges. It never fails: a frame that cannot be measured is
// reported with a non-OK status and a width of 0.
func (p *Pipeline) Process(f Frame) Report {
	start := time.Now()
	report := Report{Frame: f}

	lines, err := detection.DetectLines(f.Image, p.Config.CannyLow, p.Config.CannyHigh, p.Config.Hough)
	if err != nil {
		report.Result = measure.Result{Status: measure.NoDetection, Detail: err.Error()}
		report.Elapsed = time.Since(start)
		return report
	}

	report.Candidates = lines.Lines
	report.Result = measure.Measure(lines.Polar(), p.Config.Measure)
	report.Elapsed = time.Since(start)
	return report
}
