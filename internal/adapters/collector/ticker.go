package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/anhprgm/dev-info/internal/domain"
	"github.com/anhprgm/dev-info/internal/ports"
)

// Ticker captures one sample per interval from a SampleSource and pushes it
// to the pipeline channel. The first capture happens immediately on Start.
type Ticker struct {
	src      ports.SampleSource
	interval time.Duration
	obs      ports.Observability

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

func NewTicker(src ports.SampleSource, interval time.Duration, obs ports.Observability) (*Ticker, error) {
	if src == nil {
		return nil, errors.New("sample source is required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be > 0, got %s", interval)
	}
	return &Ticker{src: src, interval: interval, obs: obs}, nil
}

func (t *Ticker) Start(out chan<- domain.Sample) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return errors.New("ticker collector already started")
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.started = true

	t.wg.Add(1)
	go t.loop(ctx, out)
	return nil
}

func (t *Ticker) Stop() error {
	t.mu.Lock()
	if !t.started {
		t.mu.Unlock()
		return nil
	}
	cancel := t.cancel
	t.started = false
	t.cancel = nil
	t.mu.Unlock()

	cancel()
	t.wg.Wait()
	return nil
}

func (t *Ticker) loop(ctx context.Context, out chan<- domain.Sample) {
	defer t.wg.Done()

	tick := time.NewTicker(t.interval)
	defer tick.Stop()

	for {
		if !t.capture(ctx, out) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
	}
}

// capture reports false once the ticker is stopping.
func (t *Ticker) capture(ctx context.Context, out chan<- domain.Sample) bool {
	cctx, cancel := context.WithTimeout(ctx, t.interval)
	s, err := t.src.Sample(cctx)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		if t.obs != nil {
			t.obs.LogError("sample capture failed", err)
			t.obs.IncCounter("devinfo_capture_errors_total", 1)
		}
		return true
	}

	select {
	case <-ctx.Done():
		return false
	case out <- s:
		return true
	}
}

var _ ports.Collector = (*Ticker)(nil)
