package ports

import (
	"context"

	"github.com/anhprgm/dev-info/internal/domain"
)

// SampleSource captures the telemetry recorded into the history log.
type SampleSource interface {
	Sample(ctx context.Context) (domain.Sample, error)
}

// DeviceProbe reads device attributes for the dashboard views.
type DeviceProbe interface {
	SampleSource

	Device(ctx context.Context) (domain.DeviceInfo, error)
	Hardware(ctx context.Context) (domain.HardwareInfo, error)
	Battery(ctx context.Context) (domain.BatteryInfo, error)
	Network(ctx context.Context) (domain.NetworkInfo, error)
	Sensors(ctx context.Context) (domain.SensorInfo, error)
	Display(ctx context.Context) (domain.DisplayInfo, error)
	Camera(ctx context.Context) (domain.CameraInfo, error)
	Apps(ctx context.Context) (domain.AppManagerInfo, error)
	// AppDetail wraps domain.ErrAppNotFound for unknown packages.
	AppDetail(ctx context.Context, name string) (domain.AppInfo, error)
	Monitoring(ctx context.Context) (domain.MonitoringInfo, error)
}
