package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anhprgm/dev-info/internal/domain"
)

type stubBackend struct {
	history  []domain.Sample
	benchErr  error
	detailErr error
	cleared   int
}

func (s *stubBackend) Device(context.Context) (domain.DeviceInfo, error) {
	return domain.DeviceInfo{DeviceName: "pixel-8", Model: "Pixel 8"}, nil
}
func (s *stubBackend) Hardware(context.Context) (domain.HardwareInfo, error) {
	return domain.HardwareInfo{}, errors.New("storage unavailable")
}
func (s *stubBackend) Battery(context.Context) (domain.BatteryInfo, error) {
	return domain.BatteryInfo{Present: true, Level: 64, ChargingStatus: "Charging"}, nil
}
func (s *stubBackend) Network(context.Context) (domain.NetworkInfo, error) {
	return domain.NetworkInfo{ConnectionType: domain.ConnectionDisconnected}, nil
}
func (s *stubBackend) Sensors(context.Context) (domain.SensorInfo, error) {
	return domain.SensorInfo{}, nil
}
func (s *stubBackend) Apps(context.Context) (domain.AppManagerInfo, error) {
	return domain.AppManagerInfo{TotalApps: 1, UserApps: 1, Apps: []domain.AppInfo{{PackageName: "org.example.notes"}}}, nil
}
func (s *stubBackend) Display(context.Context) (domain.DisplayInfo, error) {
	return domain.DisplayInfo{Available: true, Resolution: "1080 x 2400", DensityDPI: 420, DensityBucket: "xhdpi", RefreshRateHz: 120}, nil
}
func (s *stubBackend) Camera(context.Context) (domain.CameraInfo, error) {
	return domain.CameraInfo{CameraCount: 1, Cameras: []domain.Camera{{ID: "0", Facing: domain.FacingBack, FlashAvailable: true, SensorOrientation: 90}}}, nil
}
func (s *stubBackend) AppDetail(_ context.Context, name string) (domain.AppInfo, error) {
	if s.detailErr != nil {
		return domain.AppInfo{}, s.detailErr
	}
	return domain.AppInfo{PackageName: name, VersionName: "1.4.2", VersionCode: 42, Permissions: []string{"android.permission.INTERNET"}}, nil
}
func (s *stubBackend) History() []domain.Sample { return s.history }
func (s *stubBackend) ClearHistory()            { s.cleared++; s.history = nil }
func (s *stubBackend) RunBenchmark(context.Context) (domain.BenchmarkResult, error) {
	if s.benchErr != nil {
		return domain.BenchmarkResult{}, s.benchErr
	}
	return domain.NewBenchmarkResult(800, 600, 400, time.Second), nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and feeds the resulting command's message back in.
func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	next, cmd := m.Update(key(k))
	m = next.(Model)
	if cmd != nil {
		if msg := cmd(); msg != nil {
			if _, isBatch := msg.(tea.BatchMsg); !isBatch {
				next, _ = m.Update(msg)
				m = next.(Model)
			}
		}
	}
	return m
}

func TestTabNavigation(t *testing.T) {
	m := New(&stubBackend{}, time.Second)

	m = press(t, m, "tab")
	if m.tab != tabHardware {
		t.Fatalf("expected hardware tab, got %d", m.tab)
	}
	m = press(t, m, "shift+tab")
	m = press(t, m, "shift+tab")
	if m.tab != tabBenchmark {
		t.Fatalf("expected wrap-around to benchmark, got %d", m.tab)
	}
	m = press(t, m, "3")
	if m.tab != tabBattery {
		t.Fatalf("expected battery tab, got %d", m.tab)
	}
	if view := m.View(); !strings.Contains(view, "64%") || !strings.Contains(view, "Charging") {
		t.Fatalf("expected battery details in view:\n%s", view)
	}
}

func TestInfoErrorIsShown(t *testing.T) {
	m := press(t, New(&stubBackend{}, time.Second), "2")
	if view := m.View(); !strings.Contains(view, "storage unavailable") {
		t.Fatalf("expected error in view:\n%s", view)
	}
}

func TestHistoryEmptyShowsNoData(t *testing.T) {
	m := press(t, New(&stubBackend{}, time.Second), "9")
	if view := m.View(); !strings.Contains(view, "no data yet") {
		t.Fatalf("expected empty-state message:\n%s", view)
	}
}

func TestHistoryShowsSparklinesAndClears(t *testing.T) {
	b := &stubBackend{history: []domain.Sample{
		{Timestamp: 1, BatteryLevel: 90, CPUUsagePercent: 10, AvailableRAMBytes: 2 << 30},
		{Timestamp: 2, BatteryLevel: 80, CPUUsagePercent: 50, AvailableRAMBytes: 1 << 30},
	}}
	m := press(t, New(b, time.Second), "9")
	view := m.View()
	if !strings.Contains(view, "2 samples") || !strings.Contains(view, "█") {
		t.Fatalf("expected sparklines:\n%s", view)
	}

	m = press(t, m, "c")
	if b.cleared != 1 || !strings.Contains(m.View(), "no data yet") {
		t.Fatalf("expected cleared history, view:\n%s", m.View())
	}
}

func TestBenchmarkFailureState(t *testing.T) {
	m := New(&stubBackend{benchErr: errors.New("workload panicked")}, time.Second)

	next, cmd := m.Update(key("b"))
	m = next.(Model)
	if m.bench != benchRunning || m.tab != tabBenchmark || cmd == nil {
		t.Fatalf("expected running benchmark on its tab")
	}
	if !strings.Contains(m.View(), "running benchmark") {
		t.Fatalf("expected running state:\n%s", m.View())
	}

	next, _ = m.Update(m.runBenchmark()())
	m = next.(Model)
	view := m.View()
	if m.bench != benchFailed || !strings.Contains(view, "benchmark failed: workload panicked") {
		t.Fatalf("expected explicit failure:\n%s", view)
	}
	if strings.Contains(view, "Overall") {
		t.Fatalf("failed benchmark must not show scores:\n%s", view)
	}
}

func TestBenchmarkSuccessShowsScores(t *testing.T) {
	m := New(&stubBackend{}, time.Second)
	next, _ := m.Update(key("b"))
	m = next.(Model)
	next, _ = m.Update(m.runBenchmark()())
	m = next.(Model)

	view := m.View()
	for _, want := range []string{"700", "550", "1000 ms"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestAppsTableRows(t *testing.T) {
	m := press(t, New(&stubBackend{}, time.Second), "8")
	if rows := m.apps.Rows(); len(rows) != 1 || rows[0][0] != "org.example.notes" || rows[0][1] != "user" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestAppDetailOpensAndCloses(t *testing.T) {
	m := press(t, New(&stubBackend{}, time.Second), "8")
	m = press(t, m, "enter")
	if m.appDetail == nil || m.appDetail.PackageName != "org.example.notes" {
		t.Fatalf("expected detail for selected row, got %+v", m.appDetail)
	}
	view := m.View()
	for _, want := range []string{"1.4.2 (42)", "android.permission.INTERNET"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}

	m = press(t, m, "esc")
	if m.appDetail != nil || !strings.Contains(m.View(), "1 apps (0 system, 1 user)") {
		t.Fatalf("expected table after esc:\n%s", m.View())
	}
}

func TestAppDetailErrorIsShown(t *testing.T) {
	b := &stubBackend{detailErr: errors.New("app not found: org.example.notes")}
	m := press(t, New(b, time.Second), "8")
	m = press(t, m, "enter")
	if view := m.View(); !strings.Contains(view, "app details: app not found") {
		t.Fatalf("expected detail error in view:\n%s", view)
	}
}

func TestDisplayAndCameraTabs(t *testing.T) {
	m := press(t, New(&stubBackend{}, time.Second), "6")
	if m.tab != tabDisplay {
		t.Fatalf("expected display tab, got %d", m.tab)
	}
	if view := m.View(); !strings.Contains(view, "1080 x 2400") || !strings.Contains(view, "420 dpi (xhdpi)") || !strings.Contains(view, "120 Hz") {
		t.Fatalf("expected display metrics in view:\n%s", view)
	}

	m = press(t, m, "7")
	if view := m.View(); !strings.Contains(view, "Back, flash, 90°") {
		t.Fatalf("expected camera row in view:\n%s", view)
	}

	m = press(t, m, "0")
	if m.tab != tabBenchmark || !strings.Contains(m.View(), "[0] Benchmark") {
		t.Fatalf("expected 0 to select the benchmark tab:\n%s", m.View())
	}
}

func TestQuit(t *testing.T) {
	_, cmd := New(&stubBackend{}, time.Second).Update(key("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestSparkline(t *testing.T) {
	if got := sparkline([]float64{0, 50, 100}, 10); got != "▁▅█" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := sparkline([]float64{3, 3, 3}, 10); got != "▁▁▁" {
		t.Fatalf("flat series should render the floor, got %q", got)
	}
	if got := sparkline([]float64{1, 2, 3, 4}, 2); len([]rune(got)) != 2 {
		t.Fatalf("expected width clamp, got %q", got)
	}
}

func TestHumanBytes(t *testing.T) {
	if got := humanBytes(512); got != "512 B" {
		t.Fatalf("got %s", got)
	}
	if got := humanBytes(3 << 30); got != "3.0 GiB" {
		t.Fatalf("got %s", got)
	}
}
