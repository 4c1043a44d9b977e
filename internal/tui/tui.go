package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/anhprgm/dev-info/internal/domain"
)

// Backend is the dashboard the UI renders.
type Backend interface {
	Device(ctx context.Context) (domain.DeviceInfo, error)
	Hardware(ctx context.Context) (domain.HardwareInfo, error)
	Battery(ctx context.Context) (domain.BatteryInfo, error)
	Network(ctx context.Context) (domain.NetworkInfo, error)
	Sensors(ctx context.Context) (domain.SensorInfo, error)
	Display(ctx context.Context) (domain.DisplayInfo, error)
	Camera(ctx context.Context) (domain.CameraInfo, error)
	Apps(ctx context.Context) (domain.AppManagerInfo, error)
	AppDetail(ctx context.Context, name string) (domain.AppInfo, error)

	History() []domain.Sample
	ClearHistory()
	RunBenchmark(ctx context.Context) (domain.BenchmarkResult, error)
}

type tab int

const (
	tabDevice tab = iota
	tabHardware
	tabBattery
	tabNetwork
	tabSensors
	tabDisplay
	tabCamera
	tabApps
	tabHistory
	tabBenchmark
	tabCount
)

var tabNames = [tabCount]string{"Device", "Hardware", "Battery", "Network", "Sensors", "Display", "Camera", "Apps", "History", "Benchmark"}

// tabKey is the digit that selects t; the tenth tab sits on 0.
func tabKey(t tab) string {
	return string(rune('0' + (int(t)+1)%10))
}

type benchState int

const (
	benchIdle benchState = iota
	benchRunning
	benchDone
	benchFailed
)

const loadTimeout = 10 * time.Second

type tickMsg time.Time

type infoMsg struct {
	tab   tab
	value any
	err   error
}

type historyMsg []domain.Sample

type appDetailMsg struct {
	app domain.AppInfo
	err error
}

type benchMsg struct {
	res domain.BenchmarkResult
	err error
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("57")).Bold(true)
	activeTab   = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Bold(true)
	inactiveTab = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("240"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(22)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("160")).Bold(true).Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	baseStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
)

type Model struct {
	b        Backend
	interval time.Duration

	tab  tab
	info map[tab]any
	errs map[tab]error

	history []domain.Sample

	bench       benchState
	benchResult domain.BenchmarkResult
	benchErr    error
	spinner     spinner.Model

	apps      table.Model
	appDetail *domain.AppInfo
	appErr    error

	width  int
	height int
}

// New builds the UI model. interval drives the periodic refresh of the
// visible tab and should follow the sampling interval.
func New(b Backend, interval time.Duration) Model {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Package", Width: 48},
			{Title: "Kind", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(true)
	t.SetStyles(s)

	return Model{
		b:        b,
		interval: interval,
		info:     make(map[tab]any),
		errs:     make(map[tab]error),
		spinner:  sp,
		apps:     t,
	}
}

func Run(b Backend, interval time.Duration) error {
	p := tea.NewProgram(New(b, interval), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.refresh())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refresh loads whatever the visible tab shows.
func (m Model) refresh() tea.Cmd {
	b := m.b
	switch m.tab {
	case tabHistory:
		return func() tea.Msg { return historyMsg(b.History()) }
	case tabBenchmark:
		return nil
	}

	current := m.tab
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		var (
			v   any
			err error
		)
		switch current {
		case tabDevice:
			v, err = b.Device(ctx)
		case tabHardware:
			v, err = b.Hardware(ctx)
		case tabBattery:
			v, err = b.Battery(ctx)
		case tabNetwork:
			v, err = b.Network(ctx)
		case tabSensors:
			v, err = b.Sensors(ctx)
		case tabDisplay:
			v, err = b.Display(ctx)
		case tabCamera:
			v, err = b.Camera(ctx)
		case tabApps:
			v, err = b.Apps(ctx)
		}
		return infoMsg{tab: current, value: v, err: err}
	}
}

func (m Model) runBenchmark() tea.Cmd {
	b := m.b
	return func() tea.Msg {
		res, err := b.RunBenchmark(context.Background())
		return benchMsg{res: res, err: err}
	}
}

func (m Model) loadAppDetail(name string) tea.Cmd {
	b := m.b
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		app, err := b.AppDetail(ctx, name)
		return appDetailMsg{app: app, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "right", "l":
			return m.switchTo((m.tab + 1) % tabCount)
		case "shift+tab", "left", "h":
			return m.switchTo((m.tab + tabCount - 1) % tabCount)
		case "1", "2", "3", "4", "5", "6", "7", "8", "9", "0":
			return m.switchTo(tab((msg.String()[0] - '0' + 9) % 10))
		case "enter":
			if m.tab != tabApps {
				break
			}
			if sel := m.apps.SelectedRow(); len(sel) > 0 {
				return m, m.loadAppDetail(sel[0])
			}
			return m, nil
		case "esc":
			if m.tab == tabApps {
				m.appDetail, m.appErr = nil, nil
				return m, nil
			}
		case "r":
			return m, m.refresh()
		case "b":
			if m.bench == benchRunning {
				return m, nil
			}
			m.tab = tabBenchmark
			m.bench = benchRunning
			m.benchErr = nil
			return m, tea.Batch(m.spinner.Tick, m.runBenchmark())
		case "c":
			b := m.b
			return m, func() tea.Msg {
				b.ClearHistory()
				return historyMsg(b.History())
			}
		}
	case tickMsg:
		return m, tea.Batch(m.tick(), m.refresh())
	case infoMsg:
		if msg.err != nil {
			m.errs[msg.tab] = msg.err
			return m, nil
		}
		delete(m.errs, msg.tab)
		m.info[msg.tab] = msg.value
		if apps, ok := msg.value.(domain.AppManagerInfo); ok {
			m.apps.SetRows(appRows(apps))
		}
		return m, nil
	case historyMsg:
		m.history = msg
		return m, nil
	case appDetailMsg:
		if msg.err != nil {
			m.appDetail, m.appErr = nil, msg.err
			return m, nil
		}
		app := msg.app
		m.appDetail, m.appErr = &app, nil
		return m, nil
	case benchMsg:
		if msg.err != nil {
			m.bench = benchFailed
			m.benchErr = msg.err
			m.benchResult = domain.BenchmarkResult{}
			return m, nil
		}
		m.bench = benchDone
		m.benchResult = msg.res
		return m, nil
	case spinner.TickMsg:
		if m.bench != benchRunning {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if h := m.height - 12; h > 3 {
			m.apps.SetHeight(h)
		}
		return m, nil
	}

	if m.tab == tabApps {
		m.apps, cmd = m.apps.Update(msg)
	}
	return m, cmd
}

func (m Model) switchTo(t tab) (tea.Model, tea.Cmd) {
	m.tab = t
	return m, m.refresh()
}

func appRows(info domain.AppManagerInfo) []table.Row {
	rows := make([]table.Row, 0, len(info.Apps))
	for _, a := range info.Apps {
		kind := "user"
		if a.System {
			kind = "system"
		}
		rows = append(rows, table.Row{a.PackageName, kind})
	}
	return rows
}
