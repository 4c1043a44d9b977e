package devinfo

import (
	"github.com/anhprgm/dev-info/internal/adapters/observability"
	"github.com/anhprgm/dev-info/internal/adapters/probe"
	"github.com/anhprgm/dev-info/internal/adapters/sink"
	"github.com/anhprgm/dev-info/internal/app/config"
	"github.com/anhprgm/dev-info/internal/benchmark"
	"github.com/anhprgm/dev-info/internal/ports"
)

// Config re-exports the root configuration struct so callers can build or
// adjust it programmatically.
type Config = config.Config

type (
	// Policy controls sampling cadence and history bounds.
	Policy = ports.Policy
	// HistoryConfig locates the history file.
	HistoryConfig = config.HistoryConfig
	// BenchmarkConfig sizes the workloads and holds the score baselines.
	BenchmarkConfig = benchmark.Config
	// ProbeConfig points the probe at /proc, /sys and the package manager.
	ProbeConfig = probe.Config
	// ListenConfig configures the metrics and API listeners.
	ListenConfig = config.ListenConfig
	// LogConfig configures logrus and file rotation.
	LogConfig = observability.LogConfig
	// ExportConfig selects the export driver.
	ExportConfig = config.ExportConfig
	// ObjectConfig configures the S3-compatible export target.
	ObjectConfig = sink.ObjectConfig
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return config.Default()
}
