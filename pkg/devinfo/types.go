package devinfo

import (
	"context"

	"github.com/anhprgm/dev-info/internal/domain"
	"github.com/anhprgm/dev-info/internal/ports"
)

// Sample is one battery/CPU/RAM reading as stored in the history log.
type Sample = domain.Sample

// BenchmarkResult holds the five scores of one benchmark run.
type BenchmarkResult = domain.BenchmarkResult

type (
	DeviceInfo       = domain.DeviceInfo
	HardwareInfo     = domain.HardwareInfo
	BatteryInfo      = domain.BatteryInfo
	NetworkInfo      = domain.NetworkInfo
	NetworkInterface = domain.NetworkInterface
	SensorInfo       = domain.SensorInfo
	Sensor           = domain.Sensor
	AppInfo          = domain.AppInfo
	AppManagerInfo   = domain.AppManagerInfo
	DisplayInfo      = domain.DisplayInfo
	CameraInfo       = domain.CameraInfo
	Camera           = domain.Camera
	MonitoringInfo   = domain.MonitoringInfo
)

// ErrAppNotFound is returned by AppDetail for unknown package names.
var ErrAppNotFound = domain.ErrAppNotFound

// Collector pushes samples into the recording pipeline.
type Collector = ports.Collector

// Sink receives exported history batches.
type Sink = ports.Sink

// HistoryLog is the bounded sample store behind the history views.
type HistoryLog = ports.HistoryLog

// HistoryStats reports the size of a HistoryLog.
type HistoryStats = ports.HistoryStats

// DeviceProbe reads the device attributes shown by the dashboard.
type DeviceProbe = ports.DeviceProbe

// Clock supplies wall time to the sampler and the benchmark.
type Clock = ports.Clock

// Observability receives logs and metrics.
type Observability = ports.Observability

// Field is a structured log field used by Observability implementations.
type Field = ports.Field

// BenchmarkRunner runs the synthetic workloads once.
type BenchmarkRunner interface {
	Run(ctx context.Context) (BenchmarkResult, error)
}

// SampleBatchSink is a function that receives exported batches.
type SampleBatchSink func([]Sample) error
