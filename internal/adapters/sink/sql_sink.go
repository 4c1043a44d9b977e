package sink

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/anhprgm/dev-info/internal/domain"
	"github.com/anhprgm/dev-info/internal/ports"
)

// Dialect names match the database/sql driver names registered by lib/pq
// and modernc.org/sqlite.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type SQLSink struct {
	db        *sql.DB
	dialect   string
	tableName string
}

func NewSQLSink(db *sql.DB, dialect, table string) (*SQLSink, error) {
	switch dialect {
	case DialectPostgres, DialectSQLite:
	default:
		return nil, fmt.Errorf("unsupported sql dialect %q", dialect)
	}
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &SQLSink{db: db, dialect: dialect, tableName: table}, nil
}

// OpenSQLSink opens a connection pool for dialect and wraps it.
func OpenSQLSink(dialect, dsn, table string) (*SQLSink, error) {
	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	s, err := NewSQLSink(db, dialect, table)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLSink) Name() string { return s.dialect }

func (s *SQLSink) Close() error { return s.db.Close() }

func (s *SQLSink) EnsureSchema(ctx context.Context) error {
	cpuType := "DOUBLE PRECISION"
	if s.dialect == DialectSQLite {
		cpuType = "REAL"
	}
	q := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (ts BIGINT PRIMARY KEY, battery_level INTEGER NOT NULL, available_ram_bytes BIGINT NOT NULL, cpu_usage_percent %s NOT NULL)",
		s.tableName, cpuType)
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// WriteBatch inserts samples idempotently keyed on their timestamp, so a
// repeated export leaves existing rows untouched.
func (s *SQLSink) WriteBatch(ctx context.Context, samples []domain.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(s.tableName)
	b.WriteString(" (ts, battery_level, available_ram_bytes, cpu_usage_percent) VALUES ")

	args := make([]any, 0, len(samples)*4)
	for i, smp := range samples {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(s.row(len(args)))
		args = append(args,
			smp.Timestamp,
			int64(smp.BatteryLevel),
			int64(smp.AvailableRAMBytes),
			smp.CPUUsagePercent,
		)
	}

	b.WriteString(" ON CONFLICT (ts) DO NOTHING")

	_, err := s.db.ExecContext(ctx, b.String(), args...)
	return err
}

func (s *SQLSink) row(offset int) string {
	if s.dialect == DialectSQLite {
		return "(?,?,?,?)"
	}
	return fmt.Sprintf("($%d,$%d,$%d,$%d)", offset+1, offset+2, offset+3, offset+4)
}

var _ ports.Sink = (*SQLSink)(nil)
