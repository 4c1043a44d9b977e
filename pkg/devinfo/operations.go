package devinfo

import (
	"context"
	"time"

	"github.com/anhprgm/dev-info/internal/app/pipeline"
	"github.com/anhprgm/dev-info/internal/ports"
)

// CaptureSample reads one sample from the probe and appends it to the
// history. It never fails; problems are logged and counted.
func (d *Dashboard) CaptureSample(ctx context.Context) {
	s, err := d.probe.Sample(ctx)
	if err != nil {
		d.obs.LogError("sample_capture_failed", err)
		d.obs.IncCounter("devinfo_capture_errors_total", 1)
		return
	}
	pipeline.RecordSample(d.history, s, d.obs)
}

// History returns the stored samples oldest first, or an empty slice when
// the log cannot be read.
func (d *Dashboard) History() []Sample {
	samples, err := d.history.ReadAll()
	if err != nil {
		d.obs.LogError("history_read_failed", err)
		return []Sample{}
	}
	return samples
}

// ClearHistory empties the history log. Failures are logged only.
func (d *Dashboard) ClearHistory() {
	if err := d.history.Clear(); err != nil {
		d.obs.LogError("history_clear_failed", err)
		return
	}
	d.obs.IncCounter("devinfo_history_clears_total", 1)
	d.obs.SetGauge("devinfo_history_entries", 0)
}

// HistoryStats reports the current size of the history log.
func (d *Dashboard) HistoryStats() HistoryStats {
	return d.history.Stats()
}

// RunBenchmark runs the benchmark once. Runs are serialized so concurrent
// callers never measure each other's load.
func (d *Dashboard) RunBenchmark(ctx context.Context) (BenchmarkResult, error) {
	d.benchMu.Lock()
	defer d.benchMu.Unlock()

	start := time.Now()
	res, err := d.runner.Run(ctx)
	if err != nil {
		d.obs.LogError("benchmark_failed", err)
		d.obs.IncCounter("devinfo_benchmark_failures_total", 1)
		return BenchmarkResult{}, err
	}
	d.obs.ObserveLatency("devinfo_benchmark_duration_seconds", time.Since(start).Seconds())
	d.obs.IncCounter("devinfo_benchmark_runs_total", 1)
	d.obs.SetGauge("devinfo_benchmark_overall_score", float64(res.OverallScore))
	d.obs.LogInfo("benchmark_completed",
		ports.Field{Key: "overall", Value: res.OverallScore},
		ports.Field{Key: "duration_ms", Value: res.DurationMillis()})
	return res, nil
}

// Export pushes the current history to sink in policy-sized batches and
// returns how many samples were written.
func (d *Dashboard) Export(ctx context.Context, sink Sink) (int, error) {
	return pipeline.RunExport(ctx, d.history, sink, d.policy, d.obs)
}

func (d *Dashboard) Device(ctx context.Context) (DeviceInfo, error) { return d.probe.Device(ctx) }

func (d *Dashboard) Hardware(ctx context.Context) (HardwareInfo, error) { return d.probe.Hardware(ctx) }

func (d *Dashboard) Battery(ctx context.Context) (BatteryInfo, error) { return d.probe.Battery(ctx) }

func (d *Dashboard) Network(ctx context.Context) (NetworkInfo, error) { return d.probe.Network(ctx) }

func (d *Dashboard) Sensors(ctx context.Context) (SensorInfo, error) { return d.probe.Sensors(ctx) }

func (d *Dashboard) Apps(ctx context.Context) (AppManagerInfo, error) { return d.probe.Apps(ctx) }

func (d *Dashboard) Display(ctx context.Context) (DisplayInfo, error) { return d.probe.Display(ctx) }

func (d *Dashboard) Camera(ctx context.Context) (CameraInfo, error) { return d.probe.Camera(ctx) }

// AppDetail returns the version, install and permission details of one
// package. Unknown packages yield an error wrapping ErrAppNotFound.
func (d *Dashboard) AppDetail(ctx context.Context, name string) (AppInfo, error) {
	return d.probe.AppDetail(ctx, name)
}

func (d *Dashboard) Monitoring(ctx context.Context) (MonitoringInfo, error) {
	return d.probe.Monitoring(ctx)
}
