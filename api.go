package devinfo

import (
	"context"

	base "github.com/anhprgm/dev-info/pkg/devinfo"
)

// Re-exported errors for convenience.
var (
	ErrChannelSinkClosed = base.ErrChannelSinkClosed
	ErrAppNotFound       = base.ErrAppNotFound
)

// Export drivers.
const (
	DriverPostgres = base.DriverPostgres
	DriverSQLite   = base.DriverSQLite
	DriverS3       = base.DriverS3
)

// Type aliases so consumers can import github.com/anhprgm/dev-info directly.
type (
	Config           = base.Config
	Policy           = base.Policy
	HistoryConfig    = base.HistoryConfig
	BenchmarkConfig  = base.BenchmarkConfig
	ProbeConfig      = base.ProbeConfig
	ListenConfig     = base.ListenConfig
	LogConfig        = base.LogConfig
	ExportConfig     = base.ExportConfig
	ObjectConfig     = base.ObjectConfig
	Dashboard        = base.Dashboard
	DashboardOption  = base.DashboardOption
	Sample           = base.Sample
	BenchmarkResult  = base.BenchmarkResult
	DeviceInfo       = base.DeviceInfo
	HardwareInfo     = base.HardwareInfo
	BatteryInfo      = base.BatteryInfo
	NetworkInfo      = base.NetworkInfo
	NetworkInterface = base.NetworkInterface
	SensorInfo       = base.SensorInfo
	Sensor           = base.Sensor
	AppInfo          = base.AppInfo
	AppManagerInfo   = base.AppManagerInfo
	DisplayInfo      = base.DisplayInfo
	CameraInfo       = base.CameraInfo
	Camera           = base.Camera
	MonitoringInfo   = base.MonitoringInfo
	SampleBatchSink  = base.SampleBatchSink
	Collector        = base.Collector
	Sink             = base.Sink
	HistoryLog       = base.HistoryLog
	HistoryStats     = base.HistoryStats
	DeviceProbe      = base.DeviceProbe
	BenchmarkRunner  = base.BenchmarkRunner
	Clock            = base.Clock
	Observability    = base.Observability
	Field            = base.Field
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

func DefaultConfig() *Config {
	return base.DefaultConfig()
}

// Dashboard constructors and options.
func Conf(path string, opts ...DashboardOption) (*Dashboard, error) {
	return base.Conf(path, opts...)
}

func NewDashboard(cfg *Config, opts ...DashboardOption) (*Dashboard, error) {
	return base.NewDashboard(cfg, opts...)
}

func WithProbe(p DeviceProbe) DashboardOption {
	return base.WithProbe(p)
}

func WithHistoryLog(h HistoryLog) DashboardOption {
	return base.WithHistoryLog(h)
}

func WithObservability(obs Observability) DashboardOption {
	return base.WithObservability(obs)
}

func WithClock(c Clock) DashboardOption {
	return base.WithClock(c)
}

func WithCollector(col Collector) DashboardOption {
	return base.WithCollector(col)
}

func WithBenchmarkRunner(r BenchmarkRunner) DashboardOption {
	return base.WithBenchmarkRunner(r)
}

// Sink adapters.
func NewCallbackSink(name string, fn SampleBatchSink) Sink {
	return base.NewCallbackSink(name, fn)
}

func NewChannelSink(name string, buffer int) (Sink, <-chan []Sample, func()) {
	return base.NewChannelSink(name, buffer)
}

func OpenExportSink(ctx context.Context, cfg ExportConfig) (Sink, func() error, error) {
	return base.OpenExportSink(ctx, cfg)
}
