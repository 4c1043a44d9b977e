package collector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anhprgm/dev-info/internal/domain"
	"github.com/anhprgm/dev-info/internal/ports"
)

type stubSource struct {
	mu    sync.Mutex
	calls int
	fail  map[int]bool
}

func (s *stubSource) Sample(context.Context) (domain.Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail[s.calls] {
		return domain.Sample{}, errors.New("battery unavailable")
	}
	return domain.Sample{Timestamp: int64(s.calls), BatteryLevel: 50}, nil
}

type stubObs struct {
	mu       sync.Mutex
	errors   int
	counters map[string]float64
}

func (o *stubObs) LogInfo(string, ...ports.Field) {}
func (o *stubObs) LogError(string, error, ...ports.Field) {
	o.mu.Lock()
	o.errors++
	o.mu.Unlock()
}
func (o *stubObs) LogCritical(string, error, ...ports.Field) {}
func (o *stubObs) IncCounter(name string, v float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.counters == nil {
		o.counters = map[string]float64{}
	}
	o.counters[name] += v
}
func (o *stubObs) ObserveLatency(string, float64) {}
func (o *stubObs) SetGauge(string, float64)       {}

func TestTickerEmitsSamplesAndSkipsFailures(t *testing.T) {
	src := &stubSource{fail: map[int]bool{2: true}}
	obs := &stubObs{}
	tk, err := NewTicker(src, 5*time.Millisecond, obs)
	if err != nil {
		t.Fatalf("new ticker: %v", err)
	}

	out := make(chan domain.Sample, 8)
	if err := tk.Start(out); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := tk.Start(out); err == nil {
		t.Fatalf("expected second start to fail")
	}

	var got []domain.Sample
	deadline := time.After(2 * time.Second)
	for len(got) < 3 {
		select {
		case s := <-out:
			got = append(got, s)
		case <-deadline:
			t.Fatalf("timed out, got %d samples", len(got))
		}
	}
	if err := tk.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}

	if got[0].Timestamp != 1 || got[1].Timestamp != 3 {
		t.Fatalf("expected failed capture to be skipped, got %+v", got)
	}
	obs.mu.Lock()
	defer obs.mu.Unlock()
	if obs.errors == 0 || obs.counters["devinfo_capture_errors_total"] == 0 {
		t.Fatalf("expected capture failure to be reported")
	}
}

func TestTickerStopUnblocksFullChannel(t *testing.T) {
	tk, err := NewTicker(&stubSource{}, time.Millisecond, nil)
	if err != nil {
		t.Fatalf("new ticker: %v", err)
	}
	out := make(chan domain.Sample)
	if err := tk.Start(out); err != nil {
		t.Fatalf("start: %v", err)
	}

	done := make(chan struct{})
	go func() {
		_ = tk.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("stop blocked on an undrained channel")
	}
	if err := tk.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}

func TestNewTickerValidates(t *testing.T) {
	if _, err := NewTicker(nil, time.Second, nil); err == nil {
		t.Fatalf("expected nil source to be rejected")
	}
	if _, err := NewTicker(&stubSource{}, 0, nil); err == nil {
		t.Fatalf("expected zero interval to be rejected")
	}
}
