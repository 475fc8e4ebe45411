// Package metrics counts conversions in a private Prometheus registry and
// exports it in text format for a textfile collector.
package metrics

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/JaimeStill/mediaconv/pkg/convert"
)

// Outcome labels.
const (
	OutcomeSuccess     = "success"
	OutcomeUnsupported = "unsupported"
	OutcomeFormat      = "format"
	OutcomeDecode      = "decode"
	OutcomeNotFound    = "not_found"
	OutcomePersistence = "persistence"
	OutcomeTooLarge    = "too_large"
	OutcomeError       = "error"
)

// Recorder implements convert.Recorder.
type Recorder struct {
	registry    *prometheus.Registry
	conversions *prometheus.CounterVec
	payload     prometheus.Histogram
	textfile    string
	logger      *slog.Logger
}

// New creates a Recorder with its own registry.
func New(cfg *Config, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		conversions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "conversions_total",
				Help:      "Total number of conversions partitioned by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		payload: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "payload_bytes",
				Help:      "Canonical payload size of successful conversions",
				Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
			},
		),
		textfile: cfg.Textfile,
		logger:   logger.With("system", "metrics"),
	}
}

// Record counts one conversion. Unrecognized kind names are folded into
// "unknown" to bound label cardinality.
func (r *Recorder) Record(kind string, size int64, err error) {
	if _, perr := convert.ParseKind(kind); perr != nil {
		kind = "unknown"
	}

	outcome := Outcome(err)
	r.conversions.WithLabelValues(kind, outcome).Inc()
	if outcome == OutcomeSuccess {
		r.payload.Observe(float64(size))
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the registry to path, or to the configured textfile
// when path is empty. It is a no-op when neither is set.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		path = r.textfile
	}
	if path == "" {
		return nil
	}

	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	r.logger.Debug("metrics exported", "path", path)
	return nil
}

// Outcome classifies a conversion error into an outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, convert.ErrUnsupportedConversion):
		return OutcomeUnsupported
	case errors.Is(err, convert.ErrFormat):
		return OutcomeFormat
	case errors.Is(err, convert.ErrDecode):
		return OutcomeDecode
	case errors.Is(err, convert.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, convert.ErrPersistence):
		return OutcomePersistence
	case errors.Is(err, convert.ErrPayloadTooLarge):
		return OutcomeTooLarge
	default:
		return OutcomeError
	}
}
