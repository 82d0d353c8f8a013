package report

import (
	"context"
	"fmt"
	"image/png"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/esthedebeste/evolvers/evolve/history"
)

// ImageSaver writes the best individual of every report to Path as a PNG, overwriting it.
type ImageSaver struct {
	Path string
}

// Report implements Reporter.
func (s ImageSaver) Report(_ context.Context, r Report) error {
	if r.Best == nil {
		return nil
	}
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("failed to create image '%s': %w", s.Path, err)
	}
	if err := png.Encode(f, r.Best); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode image '%s': %w", s.Path, err)
	}
	return f.Close()
}

// History appends every report to a history store.
type History struct {
	Store *history.Store
}

// Report implements Reporter.
func (h History) Report(ctx context.Context, r Report) error {
	return h.Store.Append(ctx, history.Entry{
		Run:        r.Run,
		Generation: r.Generation,
		Best:       int64(r.Stats.Best),
		Worst:      int64(r.Stats.Worst),
		Mean:       r.Stats.Mean,
		StdDev:     r.Stats.StdDev,
		Distance:   r.Distance,
		RecordedAt: r.Time,
	})
}

// Close closes the underlying store.
func (h History) Close() error {
	return h.Store.Close()
}

// Plotter redraws a distance-over-generations chart at Path after every report.
type Plotter struct {
	Path  string
	Title string

	points plotter.XYs
}

// Report implements Reporter.
func (p *Plotter) Report(_ context.Context, r Report) error {
	p.points = append(p.points, plotter.XY{X: float64(r.Generation), Y: float64(r.Distance)})
	return p.draw()
}

func (p *Plotter) draw() error {
	chart := plot.New()
	chart.Title.Text = p.Title
	chart.X.Label.Text = "Generation"
	chart.Y.Label.Text = "Distance"

	line, err := plotter.NewLine(p.points)
	if err != nil {
		return err
	}
	chart.Add(line, plotter.NewGrid())
	chart.Legend.Add("best", line)
	chart.Legend.Top = true

	if err := chart.Save(8*vg.Inch, 4*vg.Inch, p.Path); err != nil {
		return fmt.Errorf("failed to save plot '%s': %w", p.Path, err)
	}
	return nil
}
