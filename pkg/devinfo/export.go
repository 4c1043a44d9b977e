package devinfo

import (
	"context"
	"fmt"

	"github.com/anhprgm/dev-info/internal/adapters/sink"
	"github.com/anhprgm/dev-info/internal/app/config"
)

// Export drivers accepted in ExportConfig.Driver.
const (
	DriverPostgres = config.DriverPostgres
	DriverSQLite   = config.DriverSQLite
	DriverS3       = config.DriverS3
)

// OpenExportSink builds the sink selected by cfg.Driver and prepares its
// target (table or bucket). The returned close function releases the
// underlying connection and is safe to call once.
func OpenExportSink(ctx context.Context, cfg ExportConfig) (Sink, func() error, error) {
	switch cfg.Driver {
	case DriverPostgres, DriverSQLite:
		s, err := sink.OpenSQLSink(cfg.Driver, cfg.DSN, cfg.Table)
		if err != nil {
			return nil, nil, err
		}
		if err := s.EnsureSchema(ctx); err != nil {
			_ = s.Close()
			return nil, nil, err
		}
		return s, s.Close, nil
	case DriverS3:
		s, err := sink.OpenObjectSink(cfg.Object)
		if err != nil {
			return nil, nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, nil, err
		}
		return s, func() error { return nil }, nil
	case "":
		return nil, nil, fmt.Errorf("export.driver is not configured")
	default:
		return nil, nil, fmt.Errorf("unknown export driver %q", cfg.Driver)
	}
}
