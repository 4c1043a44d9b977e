package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anhprgm/dev-info/internal/domain"
	"github.com/anhprgm/dev-info/internal/ports"
)

func TestSamplePipelineDrainsIntoHistory(t *testing.T) {
	col := &mockCollector{samples: []domain.Sample{{Timestamp: 1}, {Timestamp: 2, BatteryLevel: 150}, {Timestamp: 3}}}
	hist := &mockHistory{}
	obs := newMockObs()

	ctx, cancel := context.WithCancel(context.Background())
	done, err := RunSamplePipeline(ctx, col, hist, ports.Policy{BufferLen: 4}, obs)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	waitFor(t, func() bool { return hist.appends() == 3 })
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("drain loop did not exit")
	}

	if got := hist.stored(); len(got) != 2 || got[1].Timestamp != 3 {
		t.Fatalf("expected invalid sample skipped, got %+v", got)
	}
	if len(obs.errorsSeen()) != 1 {
		t.Fatalf("expected one logged append failure, got %d", len(obs.errorsSeen()))
	}
	if obs.counter("devinfo_history_append_errors_total") != 1 {
		t.Fatalf("expected failure counter to be bumped")
	}
	if obs.gauge("devinfo_history_entries") != 2 {
		t.Fatalf("expected entries gauge 2, got %v", obs.gauge("devinfo_history_entries"))
	}
}

func TestSamplePipelineCollectorStartFailure(t *testing.T) {
	col := &mockCollector{startErr: errors.New("no source")}
	if _, err := RunSamplePipeline(context.Background(), col, &mockHistory{}, ports.Policy{}, newMockObs()); err == nil {
		t.Fatalf("expected start error to surface")
	}
}

func TestRunExportBatches(t *testing.T) {
	hist := &mockHistory{}
	for i := 1; i <= 7; i++ {
		_ = hist.Append(domain.Sample{Timestamp: int64(i)})
	}
	sink := &mockSink{}
	obs := newMockObs()

	n, err := RunExport(context.Background(), hist, sink, ports.Policy{MaxBatchSize: 3}, obs)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if n != 7 {
		t.Fatalf("expected 7 exported, got %d", n)
	}
	if len(sink.batches) != 3 || len(sink.batches[0]) != 3 || len(sink.batches[2]) != 1 {
		t.Fatalf("unexpected batching: %v", sink.batches)
	}
	if sink.batches[2][0].Timestamp != 7 {
		t.Fatalf("expected oldest-first ordering")
	}
	if obs.counter("devinfo_samples_exported_total") != 7 {
		t.Fatalf("expected exported counter 7")
	}
}

func TestRunExportStopsOnSinkError(t *testing.T) {
	hist := &mockHistory{}
	for i := 1; i <= 5; i++ {
		_ = hist.Append(domain.Sample{Timestamp: int64(i)})
	}
	sink := &mockSink{failOn: 2}
	obs := newMockObs()

	n, err := RunExport(context.Background(), hist, sink, ports.Policy{MaxBatchSize: 2}, obs)
	if err == nil {
		t.Fatalf("expected sink error")
	}
	if n != 2 {
		t.Fatalf("expected 2 samples written before failure, got %d", n)
	}
	if len(obs.errorsSeen()) == 0 {
		t.Fatalf("expected failure to be logged")
	}
}

func TestRunExportEmptyHistory(t *testing.T) {
	sink := &mockSink{}
	n, err := RunExport(context.Background(), &mockHistory{}, sink, ports.Policy{MaxBatchSize: 10}, newMockObs())
	if err != nil || n != 0 || len(sink.batches) != 0 {
		t.Fatalf("expected no-op export, got n=%d err=%v batches=%d", n, err, len(sink.batches))
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

type mockCollector struct {
	samples  []domain.Sample
	startErr error
}

func (m *mockCollector) Start(out chan<- domain.Sample) error {
	if m.startErr != nil {
		return m.startErr
	}
	go func() {
		for _, s := range m.samples {
			out <- s
		}
	}()
	return nil
}

func (m *mockCollector) Stop() error { return nil }

type mockHistory struct {
	mu    sync.Mutex
	data  []domain.Sample
	calls int
}

func (m *mockHistory) Append(s domain.Sample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err := s.Validate(); err != nil {
		return err
	}
	m.data = append(m.data, s)
	return nil
}

func (m *mockHistory) ReadAll() ([]domain.Sample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Sample{}, m.data...), nil
}

func (m *mockHistory) Clear() error { return nil }

func (m *mockHistory) Stats() ports.HistoryStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ports.HistoryStats{Entries: len(m.data)}
}

func (m *mockHistory) appends() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockHistory) stored() []domain.Sample {
	s, _ := m.ReadAll()
	return s
}

type mockSink struct {
	batches [][]domain.Sample
	failOn  int
}

func (m *mockSink) WriteBatch(_ context.Context, batch []domain.Sample) error {
	if m.failOn > 0 && len(m.batches)+1 == m.failOn {
		return errors.New("connection refused")
	}
	m.batches = append(m.batches, append([]domain.Sample{}, batch...))
	return nil
}

func (m *mockSink) Name() string { return "mock" }

type mockObs struct {
	mu       sync.Mutex
	errors   []error
	counters map[string]float64
	gauges   map[string]float64
}

func newMockObs() *mockObs {
	return &mockObs{counters: map[string]float64{}, gauges: map[string]float64{}}
}

func (m *mockObs) LogInfo(string, ...ports.Field) {}
func (m *mockObs) LogError(_ string, err error, _ ...ports.Field) {
	m.mu.Lock()
	m.errors = append(m.errors, err)
	m.mu.Unlock()
}
func (m *mockObs) LogCritical(string, error, ...ports.Field) {}
func (m *mockObs) IncCounter(name string, v float64) {
	m.mu.Lock()
	m.counters[name] += v
	m.mu.Unlock()
}
func (m *mockObs) ObserveLatency(string, float64) {}
func (m *mockObs) SetGauge(name string, v float64) {
	m.mu.Lock()
	m.gauges[name] = v
	m.mu.Unlock()
}

func (m *mockObs) errorsSeen() []error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]error(nil), m.errors...)
}

func (m *mockObs) counter(name string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name]
}

func (m *mockObs) gauge(name string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gauges[name]
}
