package metrics

import (
	"context"
	"strconv"

	"github.com/Dynom/mxprobe/validator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// New registers the collectors with reg. Use prometheus.DefaultRegisterer to expose them through promhttp.Handler().
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)

	return &Collector{
		results: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mxprobe_check_total",
				Help: "Checked addresses by verdict and kind. Known kinds: none, malformed_address, no_mail_exchange_found, probe_connection_failed, probe_protocol_rejected, probe_timeout.",
			},
			[]string{
				"valid",
				"kind",
			},
		),
		codes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mxprobe_rcpt_code_total",
				Help: "Status codes returned by mail exchanges on the recipient declaration.",
			},
			[]string{
				"code",
			},
		),
		steps: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mxprobe_step_duration_seconds",
				Help:    "Duration of the individual check steps in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.100, 0.5, 1, 5, 10, 20, 30},
			},
			[]string{
				"step",
			},
		),
	}
}

type Collector struct {
	results *prometheus.CounterVec
	codes   *prometheus.CounterVec
	steps   *prometheus.HistogramVec
}

// Observe records a single result
func (c *Collector) Observe(r validator.Result) {
	c.results.WithLabelValues(strconv.FormatBool(r.Valid), r.Kind.String()).Inc()

	if r.Code > 0 {
		c.codes.WithLabelValues(strconv.Itoa(r.Code)).Inc()
	}

	for _, t := range r.Timings {
		c.steps.WithLabelValues(t.Label).Observe(t.Duration.Seconds())
	}
}

// Progress matches batch.ProgressFn, so the collector can observe a batch while it runs
func (c *Collector) Progress(_ context.Context, r validator.Result, _, _ int) {
	c.Observe(r)
}
