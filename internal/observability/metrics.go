// Package observability records prometheus metrics for engine analyses.
package observability

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// AnalysisCollector counts analyses, their warnings and their durations.
// A nil collector records nothing.
type AnalysisCollector struct {
	gatherer prometheus.Gatherer

	Analyses           *prometheus.CounterVec
	Warnings           *prometheus.CounterVec
	Durations          *prometheus.HistogramVec
	KeplerNonConverged prometheus.Counter
}

// NewAnalysisCollector registers the metrics against reg, defaulting to
// the global registry when nil.
func NewAnalysisCollector(reg prometheus.Registerer) (*AnalysisCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	analyses, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "neoshield_analyses_total",
		Help: "Number of completed analyses, labeled by analysis kind.",
	}, []string{"analysis"}), "neoshield_analyses_total")
	if err != nil {
		return nil, err
	}

	warnings, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "neoshield_analysis_warnings_total",
		Help: "Validity warnings raised by analyses, labeled by analysis kind.",
	}, []string{"analysis"}), "neoshield_analysis_warnings_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "neoshield_analysis_duration_seconds",
		Help:    "Analysis wall time in seconds.",
		Buckets: []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
	}, []string{"analysis"}), "neoshield_analysis_duration_seconds")
	if err != nil {
		return nil, err
	}

	nonConverged := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "neoshield_kepler_nonconverged_total",
		Help: "Kepler solves that hit the iteration cap.",
	})
	if err := reg.Register(nonConverged); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(prometheus.Counter)
		if !ok {
			return nil, fmt.Errorf("collector neoshield_kepler_nonconverged_total already registered with incompatible type")
		}
		nonConverged = existing
	}

	return &AnalysisCollector{
		gatherer:           gatherer,
		Analyses:           analyses,
		Warnings:           warnings,
		Durations:          durations,
		KeplerNonConverged: nonConverged,
	}, nil
}

// Observe records one finished analysis.
func (c *AnalysisCollector) Observe(analysis string, took time.Duration, warnings int) {
	if c == nil {
		return
	}
	c.Analyses.WithLabelValues(analysis).Inc()
	c.Durations.WithLabelValues(analysis).Observe(took.Seconds())
	if warnings > 0 {
		c.Warnings.WithLabelValues(analysis).Add(float64(warnings))
	}
}

func (c *AnalysisCollector) ObserveKeplerNonConverged() {
	if c == nil {
		return
	}
	c.KeplerNonConverged.Inc()
}

// WriteText writes every gathered family in the text exposition format.
func (c *AnalysisCollector) WriteText(w io.Writer) error {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// WriteFile writes the text exposition to path.
func (c *AnalysisCollector) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.WriteText(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
