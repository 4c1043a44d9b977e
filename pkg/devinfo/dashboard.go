package devinfo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anhprgm/dev-info/internal/adapters/collector"
	"github.com/anhprgm/dev-info/internal/adapters/history"
	"github.com/anhprgm/dev-info/internal/adapters/httpapi"
	"github.com/anhprgm/dev-info/internal/adapters/observability"
	"github.com/anhprgm/dev-info/internal/adapters/probe"
	"github.com/anhprgm/dev-info/internal/app/pipeline"
	"github.com/anhprgm/dev-info/internal/benchmark"
	"github.com/anhprgm/dev-info/internal/ports"
)

// DashboardOption customizes the dependencies used by Dashboard.
type DashboardOption func(*overrides)

type overrides struct {
	probe         DeviceProbe
	history       HistoryLog
	observability Observability
	clock         Clock
	collector     Collector
	runner        BenchmarkRunner
}

// WithProbe replaces the gopsutil/procfs probe, e.g. with a simulator.
func WithProbe(p DeviceProbe) DashboardOption {
	return func(o *overrides) {
		o.probe = p
	}
}

// WithHistoryLog lets callers bring their own history store.
func WithHistoryLog(h HistoryLog) DashboardOption {
	return func(o *overrides) {
		o.history = h
	}
}

// WithObservability plugs in a custom logging and metrics backend.
func WithObservability(obs Observability) DashboardOption {
	return func(o *overrides) {
		o.observability = obs
	}
}

// WithClock sets the time source used for sample timestamps and benchmark timing.
func WithClock(c Clock) DashboardOption {
	return func(o *overrides) {
		o.clock = c
	}
}

// WithCollector replaces the periodic sampler.
func WithCollector(col Collector) DashboardOption {
	return func(o *overrides) {
		o.collector = col
	}
}

// WithBenchmarkRunner replaces the built-in synthetic benchmark.
func WithBenchmarkRunner(r BenchmarkRunner) DashboardOption {
	return func(o *overrides) {
		o.runner = r
	}
}

// Dashboard wires the probe, history log, benchmark and sampler together
// and serves them over the metrics and HTTP API listeners.
type Dashboard struct {
	cfg       *Config
	policy    ports.Policy
	obs       ports.Observability
	history   ports.HistoryLog
	probe     ports.DeviceProbe
	clock     ports.Clock
	collector ports.Collector
	runner    BenchmarkRunner

	benchMu sync.Mutex

	mu          sync.Mutex
	started     bool
	cancel      context.CancelFunc
	samplerDone <-chan struct{}
	gaugeStopCh chan struct{}
	metricsSrv  *http.Server
	api         *httpapi.Server
}

// NewDashboard bootstraps the default adapters (file history log, host
// probe, ticker sampler, synthetic benchmark, logrus and Prometheus
// observability). Any of them can be replaced with a DashboardOption.
func NewDashboard(cfg *Config, opts ...DashboardOption) (*Dashboard, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o overrides
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	clock := o.clock
	if clock == nil {
		clock = ports.SystemClock{}
	}

	obs := o.observability
	if obs == nil {
		logger, err := observability.NewLogger(cfg.Log)
		if err != nil {
			return nil, err
		}
		obs = observability.NewPromObs(nil, logger)
	}

	hist := o.history
	if hist == nil {
		fl, err := history.NewFileLog(cfg.History.Dir, cfg.Policy.MaxHistoryEntries, cfg.Policy.TrimSlack)
		if err != nil {
			return nil, fmt.Errorf("history log: %w", err)
		}
		hist = fl
	}

	pr := o.probe
	if pr == nil {
		pr = probe.New(cfg.Probe, probe.WithClock(clock))
	}

	col := o.collector
	if col == nil {
		t, err := collector.NewTicker(pr, cfg.Policy.SampleInterval, obs)
		if err != nil {
			return nil, err
		}
		col = t
	}

	runner := o.runner
	if runner == nil {
		r, err := benchmark.NewRunner(cfg.Benchmark, clock)
		if err != nil {
			return nil, err
		}
		runner = r
	}

	return &Dashboard{
		cfg:       cfg,
		policy:    cfg.Policy,
		obs:       obs,
		history:   hist,
		probe:     pr,
		clock:     clock,
		collector: col,
		runner:    runner,
	}, nil
}

// Conf loads YAML from disk and builds a Dashboard from it.
func Conf(path string, opts ...DashboardOption) (*Dashboard, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return NewDashboard(cfg, opts...)
}

// Config returns the configuration the dashboard was built with.
func (d *Dashboard) Config() *Config { return d.cfg }

// Start launches the sampler and, when enabled, the metrics and API
// listeners. It returns immediately; call Run to block on a context instead.
func (d *Dashboard) Start() error {
	if d == nil {
		return fmt.Errorf("dashboard is nil")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return fmt.Errorf("dashboard already started")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done, err := pipeline.RunSamplePipeline(ctx, d.collector, d.history, d.policy, d.obs)
	if err != nil {
		cancel()
		return fmt.Errorf("start sampler: %w", err)
	}
	d.cancel = cancel
	d.samplerDone = done
	d.started = true

	if d.cfg.Metrics.Enabled() {
		if err := d.startMetrics(); err != nil {
			return errors.Join(fmt.Errorf("metrics listener: %w", err), d.stopLocked(context.Background()))
		}
	}
	if d.cfg.HTTP.Enabled() {
		api := httpapi.NewServer(d.cfg.HTTP.Addr, d, d.obs)
		if err := api.Start(); err != nil {
			return errors.Join(fmt.Errorf("api listener: %w", err), d.stopLocked(context.Background()))
		}
		d.api = api
	}

	d.gaugeStopCh = make(chan struct{})
	go d.recordHistoryGauges(d.gaugeStopCh, d.policy.SampleInterval)

	d.obs.LogInfo("dashboard_started",
		ports.Field{Key: "metrics_addr", Value: d.cfg.Metrics.Addr},
		ports.Field{Key: "http_addr", Value: d.cfg.HTTP.Addr},
		ports.Field{Key: "sample_interval", Value: d.policy.SampleInterval.String()})
	return nil
}

// Run starts the dashboard and blocks until ctx is cancelled, then shuts
// down gracefully.
func (d *Dashboard) Run(ctx context.Context) error {
	if err := d.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.Shutdown(shutdownCtx)
}

// Shutdown stops the sampler and the listeners.
func (d *Dashboard) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked(ctx)
}

func (d *Dashboard) stopLocked(ctx context.Context) error {
	if !d.started {
		return nil
	}
	d.started = false

	var errs []error

	if d.gaugeStopCh != nil {
		close(d.gaugeStopCh)
		d.gaugeStopCh = nil
	}

	if err := d.collector.Stop(); err != nil {
		errs = append(errs, err)
	}
	d.cancel()
	select {
	case <-d.samplerDone:
	case <-ctx.Done():
		errs = append(errs, fmt.Errorf("sampler drain: %w", ctx.Err()))
	}

	if d.metricsSrv != nil {
		if err := d.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
		d.metricsSrv = nil
	}
	if d.api != nil {
		if err := d.api.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
		d.api = nil
	}

	return errors.Join(errs...)
}

// APIAddr returns the bound address of the HTTP API, or "" when it is not running.
func (d *Dashboard) APIAddr() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.api == nil {
		return ""
	}
	return d.api.Addr()
}

func (d *Dashboard) startMetrics() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	lis, err := net.Listen("tcp", d.cfg.Metrics.Addr)
	if err != nil {
		return err
	}
	d.metricsSrv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	srv := d.metricsSrv
	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			d.obs.LogError("metrics_server_exited", err)
		}
	}()
	return nil
}

func (d *Dashboard) recordHistoryGauges(stop <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			stats := d.history.Stats()
			d.obs.SetGauge("devinfo_history_entries", float64(stats.Entries))
			d.obs.SetGauge("devinfo_history_size_bytes", float64(stats.SizeBytes))
		}
	}
}
