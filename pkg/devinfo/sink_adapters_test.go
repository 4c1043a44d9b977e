package devinfo

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewCallbackSink(t *testing.T) {
	var received []Sample
	sink := NewCallbackSink("cb", func(batch []Sample) error {
		received = append(received, batch...)
		return nil
	})

	input := Sample{Timestamp: 1718000000000, BatteryLevel: 64, AvailableRAMBytes: 1 << 30, CPUUsagePercent: 3.5}
	batch := []Sample{input}
	if err := sink.WriteBatch(context.Background(), batch); err != nil {
		t.Fatalf("WriteBatch returned error: %v", err)
	}
	if len(received) != 1 || received[0] != input {
		t.Fatalf("mismatched sample payload: %+v", received)
	}

	batch[0].BatteryLevel = 1
	if received[0].BatteryLevel != 64 {
		t.Fatalf("expected callback to receive a copy of the batch")
	}
	if sink.Name() != "cb" {
		t.Fatalf("unexpected name %q", sink.Name())
	}
}

func TestNewCallbackSinkNilHandler(t *testing.T) {
	sink := NewCallbackSink("", nil)
	if sink.Name() != "callback" {
		t.Fatalf("expected default name, got %q", sink.Name())
	}
	if err := sink.WriteBatch(context.Background(), []Sample{{Timestamp: 1}}); err == nil {
		t.Fatalf("expected error when callback is nil")
	}
}

func TestNewChannelSink(t *testing.T) {
	sink, ch, closeFn := NewChannelSink("chan", 1)
	defer closeFn()

	input := Sample{Timestamp: 7, BatteryLevel: 20}
	errCh := make(chan error, 1)

	go func() {
		errCh <- sink.WriteBatch(context.Background(), []Sample{input})
	}()

	var batch []Sample
	select {
	case batch = <-ch:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel batch")
	}

	if err := <-errCh; err != nil {
		t.Fatalf("WriteBatch returned error: %v", err)
	}
	if len(batch) != 1 || batch[0] != input {
		t.Fatalf("unexpected batch data: %+v", batch)
	}

	closeFn()
	if err := sink.WriteBatch(context.Background(), []Sample{input}); !errors.Is(err, ErrChannelSinkClosed) {
		t.Fatalf("expected ErrChannelSinkClosed, got %v", err)
	}
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel to be closed")
	}
}

func TestChannelSinkHonorsContext(t *testing.T) {
	sink, _, closeFn := NewChannelSink("chan", 0)
	defer closeFn()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := sink.WriteBatch(ctx, []Sample{{Timestamp: 1}}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error for unread channel, got %v", err)
	}
}
