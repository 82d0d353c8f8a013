// Package report delivers progress snapshots of an evolution run to logs, metrics, message
// subscribers, files and an HTTP status endpoint.
package report

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"time"

	"github.com/esthedebeste/evolvers/evolve"
)

// Report is a snapshot of one evaluated generation.
type Report struct {
	Run        string
	Generation int
	Stats      evolve.Stats
	Distance   int64         // best fitness expressed as distance to the goal, lower is better
	Elapsed    time.Duration // wall time since the run started
	Time       time.Time     // when the snapshot was taken
	Best       image.Image   // rendering of the best individual, may be nil
}

// Reporter receives reports. Report is called from the driving loop only, never concurrently.
type Reporter interface {
	Report(ctx context.Context, r Report) error
}

// Multi dispatches every report to each of its reporters and joins their errors.
type Multi []Reporter

// Report implements Reporter.
func (m Multi) Report(ctx context.Context, r Report) error {
	var errs []error
	for _, rep := range m {
		if err := rep.Report(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every reporter that implements io.Closer.
func (m Multi) Close() error {
	var errs []error
	for _, rep := range m {
		if c, ok := rep.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Log writes one structured line per report.
type Log struct {
	Logger *slog.Logger
}

// Report implements Reporter.
func (l Log) Report(ctx context.Context, r Report) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "generation evaluated",
		"run", r.Run,
		"generation", r.Generation,
		"distance", r.Distance,
		"best", r.Stats.Best,
		"worst", r.Stats.Worst,
		"mean", r.Stats.Mean,
		"stddev", r.Stats.StdDev,
		"elapsed", r.Elapsed.Round(time.Millisecond),
	)
	return nil
}
