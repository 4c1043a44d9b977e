package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/anhprgm/dev-info/internal/ports"
)

// RunExport pushes the current history to sink in batches of at most
// pol.MaxBatchSize samples, oldest first. It stops at the first failed batch
// and returns how many samples were written before it.
func RunExport(ctx context.Context, hist ports.HistoryLog, sink ports.Sink, pol ports.Policy, obs ports.Observability) (int, error) {
	samples, err := hist.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("read history: %w", err)
	}

	size := pol.MaxBatchSize
	if size <= 0 {
		size = len(samples)
	}

	written := 0
	for written < len(samples) {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		end := written + size
		if end > len(samples) {
			end = len(samples)
		}
		batch := samples[written:end]

		start := time.Now()
		if err := sink.WriteBatch(ctx, batch); err != nil {
			obs.LogError("sink_write_failed", err, ports.Field{Key: "sink", Value: sink.Name()})
			obs.IncCounter("devinfo_export_errors_total", 1)
			return written, fmt.Errorf("%s: %w", sink.Name(), err)
		}
		obs.ObserveLatency("devinfo_export_batch_seconds", time.Since(start).Seconds())
		obs.IncCounter("devinfo_samples_exported_total", float64(len(batch)))
		written = end
	}

	obs.LogInfo("history_exported", ports.Field{Key: "sink", Value: sink.Name()}, ports.Field{Key: "samples", Value: written})
	return written, nil
}
