package report

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports the latest report as Prometheus gauges.
type Metrics struct {
	generation  prometheus.Gauge
	bestFitness prometheus.Gauge
	distance    prometheus.Gauge
	meanFitness prometheus.Gauge
	stddev      prometheus.Gauge
	reports     prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		generation:  prometheus.NewGauge(prometheus.GaugeOpts{Name: "evolvers_generation", Help: "Generation of the latest report."}),
		bestFitness: prometheus.NewGauge(prometheus.GaugeOpts{Name: "evolvers_best_fitness", Help: "Highest fitness of the latest reported generation."}),
		distance:    prometheus.NewGauge(prometheus.GaugeOpts{Name: "evolvers_best_distance", Help: "Distance to the goal of the best individual."}),
		meanFitness: prometheus.NewGauge(prometheus.GaugeOpts{Name: "evolvers_mean_fitness", Help: "Mean fitness of the latest reported generation."}),
		stddev:      prometheus.NewGauge(prometheus.GaugeOpts{Name: "evolvers_fitness_stddev", Help: "Fitness standard deviation of the latest reported generation."}),
		reports:     prometheus.NewCounter(prometheus.CounterOpts{Name: "evolvers_reports_total", Help: "Number of progress reports."}),
	}
	for _, c := range []prometheus.Collector{m.generation, m.bestFitness, m.distance, m.meanFitness, m.stddev, m.reports} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Report implements Reporter.
func (m *Metrics) Report(_ context.Context, r Report) error {
	m.generation.Set(float64(r.Generation))
	m.bestFitness.Set(float64(r.Stats.Best))
	m.distance.Set(float64(r.Distance))
	m.meanFitness.Set(r.Stats.Mean)
	m.stddev.Set(r.Stats.StdDev)
	m.reports.Inc()
	return nil
}
