package observability

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/anhprgm/dev-info/internal/ports"
)

// PromObs implements ports.Observability with logrus for logs and Prometheus
// collectors looked up by metric name. Unknown names are ignored.
type PromObs struct {
	log      *logrus.Logger
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

// NewPromObs registers the dashboard metrics on reg, or on the default
// registerer when reg is nil. Metrics already present on reg are reused.
func NewPromObs(reg prometheus.Registerer, log *logrus.Logger) *PromObs {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	p := &PromObs{
		log:      log,
		counters: map[string]prometheus.Counter{},
		gauges:   map[string]prometheus.Gauge{},
		histos:   map[string]prometheus.Observer{},
	}

	for name, help := range map[string]string{
		"devinfo_samples_recorded_total":      "Samples appended to the history log.",
		"devinfo_history_append_errors_total": "History appends that failed and were dropped.",
		"devinfo_history_clears_total":        "Times the history log was cleared.",
		"devinfo_capture_errors_total":        "Sample captures that failed.",
		"devinfo_samples_exported_total":      "Samples written to an export sink.",
		"devinfo_export_errors_total":         "Export batches rejected by a sink.",
		"devinfo_benchmark_runs_total":        "Completed benchmark runs.",
		"devinfo_benchmark_failures_total":    "Benchmark runs that returned an error.",
	} {
		p.counters[name] = register(reg, prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: help}))
	}

	for name, help := range map[string]string{
		"devinfo_battery_level_percent":   "Battery level of the last recorded sample.",
		"devinfo_cpu_usage_percent":       "CPU usage of the last recorded sample.",
		"devinfo_available_ram_bytes":     "Available RAM of the last recorded sample.",
		"devinfo_history_entries":         "Entries currently held by the history log.",
		"devinfo_history_size_bytes":      "Size of the history file on disk.",
		"devinfo_benchmark_overall_score": "Overall score of the last benchmark run.",
	} {
		p.gauges[name] = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help}))
	}

	p.histos["devinfo_history_append_seconds"] = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "devinfo_history_append_seconds",
		Help:    "Latency of a single history append.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
	}))
	p.histos["devinfo_export_batch_seconds"] = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "devinfo_export_batch_seconds",
		Help:    "Latency of one export batch write.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}))
	p.histos["devinfo_benchmark_duration_seconds"] = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "devinfo_benchmark_duration_seconds",
		Help:    "Wall time of a full benchmark run.",
		Buckets: prometheus.LinearBuckets(0.25, 0.25, 12),
	}))

	return p
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (p *PromObs) Logger() *logrus.Logger { return p.log }

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	p.entry(fields).Info(msg)
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	p.entry(fields).WithError(err).Error(msg)
}

func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	p.entry(fields).WithError(err).WithField("critical", true).Error(msg)
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func (p *PromObs) entry(fields []ports.Field) *logrus.Entry {
	f := make(logrus.Fields, len(fields))
	for _, kv := range fields {
		f[kv.Key] = kv.Value
	}
	return p.log.WithFields(f)
}

var _ ports.Observability = (*PromObs)(nil)
