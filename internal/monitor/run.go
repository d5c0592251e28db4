package monitor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
)

// Stats counts what Run did.
type Stats struct {
	Frames   int `json:"frames"`
	Measured int `json:"measured"`
}

// Run pulls frames from src until it is exhausted or ctx is canceled,
// processing and reporting each before reading the next. Cancellation is a
// normal stop and returns a nil error. Source and sink failures end the run.
func Run(ctx context.Context, src Source, p *Pipeline, sinks ...Sink) (Stats, error) {
	var stats Stats
	for {
		if ctx.Err() != nil {
			return stats, nil
		}

		frame, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return stats, nil
			}
			return stats, fmt.Errorf("source: %w", err)
		}

		report := p.Process(frame)
		stats.Frames++
		if report.Result.Measured() {
			stats.Measured++
		}
		if p.Config.Debug() {
			log.Printf("frame %d %s: %s width=%.4fmm lines=%d in %v",
				frame.Index, frame.Name, report.Result.Status, report.Result.WidthMM,
				len(report.Candidates), report.Elapsed)
		}

		// The frame is reported even if ctx was canceled meanwhile.
		for _, s := range sinks {
			if err := s.Report(context.WithoutCancel(ctx), report); err != nil {
				return stats, fmt.Errorf("sink: %w", err)
			}
		}
	}
}

// CancelOnQuit calls cancel when a line reading "q" arrives on r. It blocks
// until then or until r is exhausted, so run it in its own goroutine.
func CancelOnQuit(r io.Reader, cancel context.CancelFunc) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if strings.EqualFold(strings.TrimSpace(scanner.Text()), "q") {
			cancel()
			return
		}
	}
}
