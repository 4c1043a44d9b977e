package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/anhprgm/dev-info/internal/domain"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("dev-info") + "\n\n")
	for i, name := range tabNames {
		label := fmt.Sprintf("[%s] %s", tabKey(tab(i)), name)
		if tab(i) == m.tab {
			b.WriteString(activeTab.Render(label))
		} else {
			b.WriteString(inactiveTab.Render(label))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	if err, ok := m.errs[m.tab]; ok {
		b.WriteString(errorStyle.Render("error: "+err.Error()) + "\n\n")
	}

	switch m.tab {
	case tabHistory:
		b.WriteString(m.historyView())
	case tabBenchmark:
		b.WriteString(m.benchmarkView())
	case tabApps:
		b.WriteString(m.appsView())
	default:
		b.WriteString(m.infoView())
	}

	b.WriteString(helpStyle.Render("\n  q: quit • tab/0-9: switch • r: refresh • b: benchmark • c: clear history • enter/esc: app details") + "\n")
	return b.String()
}

func row(label, value string) string {
	return labelStyle.Render(label) + value + "\n"
}

func (m Model) infoView() string {
	v, ok := m.info[m.tab]
	if !ok {
		return "loading...\n"
	}

	var b strings.Builder
	switch info := v.(type) {
	case domain.DeviceInfo:
		b.WriteString(row("Device name", info.DeviceName))
		b.WriteString(row("Manufacturer", info.Manufacturer))
		b.WriteString(row("Model", info.Model))
		b.WriteString(row("OS", info.OSVersion))
		b.WriteString(row("Kernel", info.KernelVersion))
		b.WriteString(row("Architecture", info.Architecture))
		b.WriteString(row("Uptime", info.Uptime.Truncate(time.Second).String()))
	case domain.HardwareInfo:
		b.WriteString(row("CPU", info.CPUModel))
		b.WriteString(row("Cores", fmt.Sprintf("%d @ %.0f MHz", info.CPUCores, info.CPUMhz)))
		b.WriteString(row("RAM", fmt.Sprintf("%s free of %s", humanBytes(info.AvailableRAMBytes), humanBytes(info.TotalRAMBytes))))
		b.WriteString(row("Storage", fmt.Sprintf("%s free of %s", humanBytes(info.AvailableStorageBytes), humanBytes(info.TotalStorageBytes))))
	case domain.BatteryInfo:
		if !info.Present {
			b.WriteString("no battery\n")
			break
		}
		b.WriteString(row("Level", fmt.Sprintf("%d%%", info.Level)))
		b.WriteString(row("Status", info.ChargingStatus))
		b.WriteString(row("Health", info.Health))
		b.WriteString(row("Technology", info.Technology))
		b.WriteString(row("Temperature", fmt.Sprintf("%.1f °C", info.TemperatureC)))
		b.WriteString(row("Voltage", fmt.Sprintf("%.3f V", info.VoltageV)))
	case domain.NetworkInfo:
		b.WriteString(row("Connection", info.ConnectionType))
		if info.InterfaceName != "" {
			b.WriteString(row("Interface", info.InterfaceName))
			b.WriteString(row("IP address", info.IPAddress))
		}
		b.WriteString("\n")
		for _, ni := range info.Interfaces {
			state := "down"
			if ni.Up {
				state = "up"
			}
			b.WriteString(fmt.Sprintf("  %-12s %-5s %s\n", ni.Name, state, strings.Join(ni.Addresses, ", ")))
		}
	case domain.DisplayInfo:
		if !info.Available {
			b.WriteString("no display metrics on this host\n")
			break
		}
		b.WriteString(row("Resolution", info.Resolution))
		b.WriteString(row("Density", fmt.Sprintf("%d dpi (%s)", info.DensityDPI, info.DensityBucket)))
		if info.ScreenSizeInches > 0 {
			b.WriteString(row("Screen size", fmt.Sprintf("%.2f in", info.ScreenSizeInches)))
		}
		if info.RefreshRateHz > 0 {
			b.WriteString(row("Refresh rate", fmt.Sprintf("%.0f Hz", info.RefreshRateHz)))
		}
	case domain.CameraInfo:
		if info.CameraCount == 0 {
			b.WriteString("no cameras reported\n")
			break
		}
		b.WriteString(row("Cameras", fmt.Sprintf("%d", info.CameraCount)))
		for _, c := range info.Cameras {
			flash := "no flash"
			if c.FlashAvailable {
				flash = "flash"
			}
			b.WriteString(row("Camera "+c.ID, fmt.Sprintf("%s, %s, %d°", c.Facing, flash, c.SensorOrientation)))
		}
	case domain.SensorInfo:
		if len(info.Sensors) == 0 {
			b.WriteString("no sensors reported\n")
		}
		for _, s := range info.Sensors {
			b.WriteString(row(s.Name, fmt.Sprintf("%.1f", s.Value)))
		}
	}
	return b.String()
}

func (m Model) appsView() string {
	v, ok := m.info[tabApps]
	if !ok {
		return "loading...\n"
	}
	if m.appErr != nil {
		return errorStyle.Render("app details: "+m.appErr.Error()) + "\n"
	}
	if a := m.appDetail; a != nil {
		var b strings.Builder
		b.WriteString(row("Package", a.PackageName))
		b.WriteString(row("Version", fmt.Sprintf("%s (%d)", a.VersionName, a.VersionCode)))
		b.WriteString(row("Installed", a.InstallTime))
		b.WriteString(row("Updated", a.UpdateTime))
		if a.SizeBytes > 0 {
			b.WriteString(row("Size", humanBytes(uint64(a.SizeBytes))))
		}
		b.WriteString(row("Permissions", fmt.Sprintf("%d", len(a.Permissions))))
		for _, p := range a.Permissions {
			b.WriteString("  " + p + "\n")
		}
		return b.String()
	}
	info := v.(domain.AppManagerInfo)
	if info.TotalApps == 0 {
		return "no package manager on this host\n"
	}
	head := fmt.Sprintf("%d apps (%d system, %d user)\n", info.TotalApps, info.SystemApps, info.UserApps)
	return head + baseStyle.Render(m.apps.View()) + "\n"
}

func (m Model) historyView() string {
	if len(m.history) == 0 {
		return "no data yet\n"
	}

	battery := make([]float64, len(m.history))
	cpu := make([]float64, len(m.history))
	ram := make([]float64, len(m.history))
	for i, s := range m.history {
		battery[i] = float64(s.BatteryLevel)
		cpu[i] = s.CPUUsagePercent
		ram[i] = float64(s.AvailableRAMBytes)
	}
	last := m.history[len(m.history)-1]

	width := m.width - 30
	if width < 10 {
		width = 60
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d samples\n\n", len(m.history)))
	b.WriteString(row("Battery", fmt.Sprintf("%s %d%%", sparkline(battery, width), last.BatteryLevel)))
	b.WriteString(row("CPU", fmt.Sprintf("%s %.1f%%", sparkline(cpu, width), last.CPUUsagePercent)))
	b.WriteString(row("Available RAM", fmt.Sprintf("%s %s", sparkline(ram, width), humanBytes(last.AvailableRAMBytes))))
	return b.String()
}

func (m Model) benchmarkView() string {
	switch m.bench {
	case benchRunning:
		return m.spinner.View() + " running benchmark...\n"
	case benchFailed:
		return errorStyle.Render("benchmark failed: "+m.benchErr.Error()) + "\n"
	case benchDone:
		r := m.benchResult
		var b strings.Builder
		b.WriteString(row("Single-core", fmt.Sprintf("%d", r.SingleCoreScore)))
		b.WriteString(row("Multi-core", fmt.Sprintf("%d", r.MultiCoreScore)))
		b.WriteString(row("Memory", fmt.Sprintf("%d", r.MemoryScore)))
		b.WriteString(row("CPU", fmt.Sprintf("%d", r.CPUScore)))
		b.WriteString(row("Overall", fmt.Sprintf("%d", r.OverallScore)))
		b.WriteString(row("Duration", fmt.Sprintf("%d ms", r.DurationMillis())))
		return b.String()
	}
	return "press b to run the benchmark\n"
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// sparkline renders the last width values scaled between their min and max.
func sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	out := make([]rune, len(values))
	top := len(sparkRunes) - 1
	for i, v := range values {
		idx := 0
		if hi > lo {
			idx = int(math.Round((v - lo) / (hi - lo) * float64(top)))
		}
		out[i] = sparkRunes[idx]
	}
	return string(out)
}

func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
