package probe

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/prometheus/procfs"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/anhprgm/dev-info/internal/domain"
	"github.com/anhprgm/dev-info/internal/ports"
)

type Config struct {
	ProcPath       string `yaml:"proc_path"`
	SysPath        string `yaml:"sys_path"`
	DiskPath       string `yaml:"disk_path"`
	PackageManager string `yaml:"package_manager"`
	// Shell prefixes the other Android tools (getprop, wm, dumpsys), e.g.
	// "adb -s emulator-5554 shell". Empty runs them locally.
	Shell string `yaml:"shell"`

	// CPUWindow is the gap between the two /proc/stat snapshots. It is
	// filled from the sampling policy.
	CPUWindow time.Duration `yaml:"-"`
}

func DefaultConfig() Config {
	return Config{
		ProcPath:       procfs.DefaultMountPoint,
		SysPath:        "/sys",
		DiskPath:       "/",
		PackageManager: "pm",
		CPUWindow:      200 * time.Millisecond,
	}
}

func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.ProcPath == "" {
		c.ProcPath = d.ProcPath
	}
	if c.SysPath == "" {
		c.SysPath = d.SysPath
	}
	if c.DiskPath == "" {
		c.DiskPath = d.DiskPath
	}
	if c.PackageManager == "" {
		c.PackageManager = d.PackageManager
	}
	if c.CPUWindow <= 0 {
		c.CPUWindow = d.CPUWindow
	}
}

// Probe reads the local host through gopsutil, /proc and /sys.
type Probe struct {
	cfg    Config
	clock  ports.Clock
	runner CommandRunner
}

type Option func(*Probe)

func WithClock(c ports.Clock) Option { return func(p *Probe) { p.clock = c } }

func WithRunner(r CommandRunner) Option { return func(p *Probe) { p.runner = r } }

func New(cfg Config, opts ...Option) *Probe {
	cfg.ApplyDefaults()
	p := &Probe{cfg: cfg, clock: ports.SystemClock{}, runner: ExecRunner{}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Probe) Sample(ctx context.Context) (domain.Sample, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return domain.Sample{}, fmt.Errorf("memory: %w", err)
	}
	usage, err := p.cpuPercent(ctx)
	if err != nil {
		return domain.Sample{}, fmt.Errorf("cpu usage: %w", err)
	}

	level := 0
	if b, err := p.Battery(ctx); err == nil && b.Present {
		level = b.Level
	}

	return domain.Sample{
		Timestamp:         p.clock.Now().UnixMilli(),
		BatteryLevel:      level,
		AvailableRAMBytes: vm.Available,
		CPUUsagePercent:   usage,
	}, nil
}

func (p *Probe) Device(ctx context.Context) (domain.DeviceInfo, error) {
	h, err := host.InfoWithContext(ctx)
	if err != nil {
		return domain.DeviceInfo{}, fmt.Errorf("host info: %w", err)
	}
	info := domain.DeviceInfo{
		DeviceName:    h.Hostname,
		Manufacturer:  h.Platform,
		Model:         h.PlatformFamily,
		OSVersion:     strings.TrimSpace(h.OS + " " + h.PlatformVersion),
		KernelVersion: h.KernelVersion,
		Architecture:  h.KernelArch,
		HostID:        h.HostID,
		Uptime:        time.Duration(h.Uptime) * time.Second,
	}
	if info.Architecture == "" {
		info.Architecture = runtime.GOARCH
	}

	// Android exposes the retail identity through system properties.
	if v := p.getprop(ctx, "ro.product.manufacturer"); v != "" {
		info.Manufacturer = v
	}
	if v := p.getprop(ctx, "ro.product.model"); v != "" {
		info.Model = v
	}
	if v := p.getprop(ctx, "ro.build.version.release"); v != "" {
		info.OSVersion = "Android " + v
	}
	return info, nil
}

func (p *Probe) Hardware(ctx context.Context) (domain.HardwareInfo, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return domain.HardwareInfo{}, fmt.Errorf("memory: %w", err)
	}
	out := domain.HardwareInfo{
		TotalRAMBytes:     vm.Total,
		AvailableRAMBytes: vm.Available,
	}

	if du, err := disk.UsageWithContext(ctx, p.cfg.DiskPath); err == nil {
		out.TotalStorageBytes = du.Total
		out.AvailableStorageBytes = du.Free
	} else {
		return out, fmt.Errorf("disk usage %s: %w", p.cfg.DiskPath, err)
	}

	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		out.CPUModel = infos[0].ModelName
		out.CPUMhz = infos[0].Mhz
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil && n > 0 {
		out.CPUCores = n
	} else {
		out.CPUCores = runtime.NumCPU()
	}
	return out, nil
}

func (p *Probe) Monitoring(ctx context.Context) (domain.MonitoringInfo, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return domain.MonitoringInfo{}, fmt.Errorf("memory: %w", err)
	}
	usage, err := p.cpuPercent(ctx)
	if err != nil {
		return domain.MonitoringInfo{}, fmt.Errorf("cpu usage: %w", err)
	}
	return domain.MonitoringInfo{
		CPUUsagePercent: usage,
		RAMUsagePercent: vm.UsedPercent,
		RAMUsedBytes:    vm.Used,
		RAMTotalBytes:   vm.Total,
		Timestamp:       p.clock.Now().UnixMilli(),
	}, nil
}

var _ ports.DeviceProbe = (*Probe)(nil)
