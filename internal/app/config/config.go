package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/anhprgm/dev-info/internal/adapters/history"
	"github.com/anhprgm/dev-info/internal/adapters/observability"
	"github.com/anhprgm/dev-info/internal/adapters/probe"
	"github.com/anhprgm/dev-info/internal/adapters/sink"
	"github.com/anhprgm/dev-info/internal/benchmark"
	"github.com/anhprgm/dev-info/internal/ports"
)

// Off disables a listener when used as an address.
const Off = "off"

// Export drivers.
const (
	DriverPostgres = sink.DialectPostgres
	DriverSQLite   = sink.DialectSQLite
	DriverS3       = "s3"
)

type Config struct {
	Policy    ports.Policy            `yaml:"policy"`
	History   HistoryConfig           `yaml:"history"`
	Benchmark benchmark.Config        `yaml:"benchmark"`
	Probe     probe.Config            `yaml:"probe"`
	Metrics   ListenConfig            `yaml:"metrics"`
	HTTP      ListenConfig            `yaml:"http"`
	Log       observability.LogConfig `yaml:"log"`
	Export    ExportConfig            `yaml:"export"`
}

type HistoryConfig struct {
	Dir string `yaml:"dir"`
}

type ListenConfig struct {
	Addr string `yaml:"addr"`
}

// Enabled reports whether a listener should be started.
func (l ListenConfig) Enabled() bool { return l.Addr != "" && l.Addr != Off }

type ExportConfig struct {
	Driver string            `yaml:"driver"`
	DSN    string            `yaml:"dsn"`
	Table  string            `yaml:"table"`
	Object sink.ObjectConfig `yaml:"object"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default is the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Validate re-checks a config that was modified after Load.
func (c *Config) Validate() error { return c.validate() }

func (c *Config) applyDefaults() {
	if c.Policy.SampleInterval == 0 {
		c.Policy.SampleInterval = 2 * time.Second
	}
	if c.Policy.CPUWindow == 0 {
		c.Policy.CPUWindow = 200 * time.Millisecond
	}
	if c.Policy.MaxHistoryEntries == 0 {
		c.Policy.MaxHistoryEntries = history.DefaultMaxEntries
	}
	if c.Policy.BufferLen == 0 {
		c.Policy.BufferLen = 16
	}
	if c.Policy.MaxBatchSize == 0 {
		c.Policy.MaxBatchSize = 500
	}
	if c.History.Dir == "" {
		c.History.Dir = "./data"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Export.Table == "" {
		c.Export.Table = "device_history"
	}
	if c.Export.Object.Prefix == "" {
		c.Export.Object.Prefix = "devinfo"
	}

	c.Benchmark.ApplyDefaults()
	c.Probe.CPUWindow = c.Policy.CPUWindow
	c.Probe.ApplyDefaults()
	c.Log.ApplyDefaults()
}

func (c *Config) validate() error {
	var errs []error
	if c.Policy.SampleInterval <= 0 {
		errs = append(errs, errors.New("policy.sample_interval must be > 0"))
	}
	if c.Policy.CPUWindow <= 0 {
		errs = append(errs, errors.New("policy.cpu_window must be > 0"))
	}
	if c.Policy.MaxHistoryEntries <= 0 {
		errs = append(errs, errors.New("policy.max_entries must be > 0"))
	}
	if c.Policy.TrimSlack < 0 {
		errs = append(errs, errors.New("policy.trim_slack must be >= 0"))
	}
	if c.Policy.BufferLen < 0 || c.Policy.MaxBatchSize <= 0 {
		errs = append(errs, errors.New("policy.buffer_len must be >= 0 and policy.max_batch_size > 0"))
	}
	if c.History.Dir == "" {
		errs = append(errs, errors.New("history.dir is required"))
	}
	if err := c.Benchmark.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("benchmark config: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log config: %w", err))
	}
	if err := c.Export.validate(); err != nil {
		errs = append(errs, fmt.Errorf("export config: %w", err))
	}
	return errors.Join(errs...)
}

func (e *ExportConfig) validate() error {
	switch e.Driver {
	case "":
		return nil
	case DriverPostgres, DriverSQLite:
		if e.DSN == "" {
			return fmt.Errorf("dsn is required for driver %s", e.Driver)
		}
	case DriverS3:
		if e.Object.Endpoint == "" || e.Object.Bucket == "" {
			return errors.New("object.endpoint and object.bucket are required for driver s3")
		}
	default:
		return fmt.Errorf("unknown driver %q", e.Driver)
	}
	return nil
}
