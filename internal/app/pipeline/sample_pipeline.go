package pipeline

import (
	"context"
	"time"

	"github.com/anhprgm/dev-info/internal/domain"
	"github.com/anhprgm/dev-info/internal/ports"
)

// RunSamplePipeline starts the collector and drains its samples into the
// history log from a single goroutine, so the log sees one writer. The
// returned channel is closed once the drain loop has exited after ctx ends.
func RunSamplePipeline(ctx context.Context, col ports.Collector, hist ports.HistoryLog, pol ports.Policy, obs ports.Observability) (<-chan struct{}, error) {
	ch := make(chan domain.Sample, pol.BufferLen)

	if err := col.Start(ch); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case s := <-ch:
				RecordSample(hist, s, obs)
			}
		}
	}()

	return done, nil
}

// RecordSample appends one sample and refreshes the live gauges. Failures
// are logged and counted instead of returned.
func RecordSample(hist ports.HistoryLog, s domain.Sample, obs ports.Observability) bool {
	start := time.Now()
	if err := hist.Append(s); err != nil {
		obs.LogError("history_append_failed", err, ports.Field{Key: "timestamp", Value: s.Timestamp})
		obs.IncCounter("devinfo_history_append_errors_total", 1)
		return false
	}
	obs.ObserveLatency("devinfo_history_append_seconds", time.Since(start).Seconds())
	obs.IncCounter("devinfo_samples_recorded_total", 1)

	obs.SetGauge("devinfo_battery_level_percent", float64(s.BatteryLevel))
	obs.SetGauge("devinfo_cpu_usage_percent", s.CPUUsagePercent)
	obs.SetGauge("devinfo_available_ram_bytes", float64(s.AvailableRAMBytes))
	obs.SetGauge("devinfo_history_entries", float64(hist.Stats().Entries))
	return true
}
