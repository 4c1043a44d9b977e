package domain

import (
	"errors"
	"time"
)

// ErrAppNotFound is returned for a package that is not installed.
var ErrAppNotFound = errors.New("app not found")

// DeviceInfo identifies the host the dashboard runs on.
type DeviceInfo struct {
	DeviceName    string        `json:"device_name"`
	Manufacturer  string        `json:"manufacturer"`
	Model         string        `json:"model"`
	OSVersion     string        `json:"os_version"`
	KernelVersion string        `json:"kernel_version"`
	Architecture  string        `json:"architecture"`
	HostID        string        `json:"host_id"`
	Uptime        time.Duration `json:"uptime"`
}

type HardwareInfo struct {
	TotalRAMBytes         uint64  `json:"total_ram_bytes"`
	AvailableRAMBytes     uint64  `json:"available_ram_bytes"`
	TotalStorageBytes     uint64  `json:"total_storage_bytes"`
	AvailableStorageBytes uint64  `json:"available_storage_bytes"`
	CPUModel              string  `json:"cpu_model"`
	CPUCores              int     `json:"cpu_cores"`
	CPUMhz                float64 `json:"cpu_mhz"`
}

type BatteryInfo struct {
	Present        bool    `json:"present"`
	Level          int     `json:"level"`
	ChargingStatus string  `json:"charging_status"`
	TemperatureC   float64 `json:"temperature_c"`
	VoltageV       float64 `json:"voltage_v"`
	Health         string  `json:"health"`
	Technology     string  `json:"technology"`
}

// Connection types reported in NetworkInfo.
const (
	ConnectionWiFi         = "WiFi"
	ConnectionEthernet     = "Ethernet"
	ConnectionCellular     = "Cellular"
	ConnectionOther        = "Other"
	ConnectionDisconnected = "Disconnected"
)

type NetworkInfo struct {
	ConnectionType string             `json:"connection_type"`
	InterfaceName  string             `json:"interface_name"`
	IPAddress      string             `json:"ip_address"`
	Interfaces     []NetworkInterface `json:"interfaces"`
}

type NetworkInterface struct {
	Name         string   `json:"name"`
	HardwareAddr string   `json:"hardware_addr"`
	MTU          int      `json:"mtu"`
	Up           bool     `json:"up"`
	Addresses    []string `json:"addresses"`
}

type SensorInfo struct {
	Sensors []Sensor `json:"sensors"`
}

type Sensor struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Value    float64 `json:"value"`
	High     float64 `json:"high,omitempty"`
	Critical float64 `json:"critical,omitempty"`
}

// AppInfo describes one installed package. The list view fills only
// PackageName and System; the detail fields come from a per-package lookup.
type AppInfo struct {
	PackageName string   `json:"package_name"`
	System      bool     `json:"system"`
	AppName     string   `json:"app_name,omitempty"`
	VersionName string   `json:"version_name,omitempty"`
	VersionCode int64    `json:"version_code,omitempty"`
	InstallTime string   `json:"install_time,omitempty"`
	UpdateTime  string   `json:"update_time,omitempty"`
	CodePath    string   `json:"code_path,omitempty"`
	SizeBytes   int64    `json:"size_bytes,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

type AppManagerInfo struct {
	TotalApps  int       `json:"total_apps"`
	SystemApps int       `json:"system_apps"`
	UserApps   int       `json:"user_apps"`
	Apps       []AppInfo `json:"apps"`
}

// DisplayInfo is the primary display. Available is false on hosts without a
// window manager.
type DisplayInfo struct {
	Available        bool    `json:"available"`
	WidthPixels      int     `json:"width_pixels"`
	HeightPixels     int     `json:"height_pixels"`
	Resolution       string  `json:"resolution"`
	DensityDPI       int     `json:"density_dpi"`
	DensityBucket    string  `json:"density_bucket"`
	XDPI             float64 `json:"xdpi"`
	YDPI             float64 `json:"ydpi"`
	ScreenSizeInches float64 `json:"screen_size_inches"`
	RefreshRateHz    float64 `json:"refresh_rate_hz"`
}

// Camera lens facings reported in Camera.
const (
	FacingBack     = "Back"
	FacingFront    = "Front"
	FacingExternal = "External"
	FacingUnknown  = "Unknown"
)

type CameraInfo struct {
	CameraCount int      `json:"camera_count"`
	Cameras     []Camera `json:"cameras"`
}

type Camera struct {
	ID                string `json:"id"`
	Facing            string `json:"facing"`
	FlashAvailable    bool   `json:"flash_available"`
	SensorOrientation int    `json:"sensor_orientation"`
}

type MonitoringInfo struct {
	CPUUsagePercent float64 `json:"cpu_usage_percent"`
	RAMUsagePercent float64 `json:"ram_usage_percent"`
	RAMUsedBytes    uint64  `json:"ram_used_bytes"`
	RAMTotalBytes   uint64  `json:"ram_total_bytes"`
	Timestamp       int64   `json:"timestamp"`
}
