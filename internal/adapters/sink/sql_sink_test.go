package sink

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/anhprgm/dev-info/internal/domain"
)

func testSamples() []domain.Sample {
	return []domain.Sample{
		{Timestamp: 1718000000000, BatteryLevel: 80, AvailableRAMBytes: 2048, CPUUsagePercent: 12.5},
		{Timestamp: 1718000002000, BatteryLevel: 79, AvailableRAMBytes: 1024, CPUUsagePercent: 40},
	}
}

func TestSQLSinkWriteBatchPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	sink, err := NewSQLSink(db, DialectPostgres, "samples")
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}

	expectedQuery := regexp.QuoteMeta("INSERT INTO samples (ts, battery_level, available_ram_bytes, cpu_usage_percent) VALUES ($1,$2,$3,$4),($5,$6,$7,$8) ON CONFLICT (ts) DO NOTHING")
	mock.ExpectExec(expectedQuery).
		WithArgs(int64(1718000000000), int64(80), int64(2048), 12.5, int64(1718000002000), int64(79), int64(1024), 40.0).
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := sink.WriteBatch(context.Background(), testSamples()); err != nil {
		t.Fatalf("write batch: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLSinkWriteBatchSQLitePlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	sink, err := NewSQLSink(db, DialectSQLite, "history")
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}

	expectedQuery := regexp.QuoteMeta("INSERT INTO history (ts, battery_level, available_ram_bytes, cpu_usage_percent) VALUES (?,?,?,?),(?,?,?,?) ON CONFLICT (ts) DO NOTHING")
	mock.ExpectExec(expectedQuery).WillReturnResult(sqlmock.NewResult(0, 2))

	if err := sink.WriteBatch(context.Background(), testSamples()); err != nil {
		t.Fatalf("write batch: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLSinkWriteBatchNoSamples(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	sink, _ := NewSQLSink(db, DialectPostgres, "samples")
	if err := sink.WriteBatch(context.Background(), nil); err != nil {
		t.Fatalf("expected nil error for empty batch, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLSinkEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	sink, _ := NewSQLSink(db, DialectPostgres, "samples")
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS samples (ts BIGINT PRIMARY KEY")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := sink.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLSinkRejectsBadConfig(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	if _, err := NewSQLSink(db, "mysql", "samples"); err == nil {
		t.Fatalf("expected unsupported dialect to be rejected")
	}
	if _, err := NewSQLSink(db, DialectPostgres, "samples; DROP TABLE x"); err == nil {
		t.Fatalf("expected invalid table name to be rejected")
	}
}

func TestSQLSinkSQLiteIdempotentExport(t *testing.T) {
	sink, err := OpenSQLSink(DialectSQLite, filepath.Join(t.TempDir(), "history.db"), "samples")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer sink.Close()

	ctx := context.Background()
	if err := sink.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := sink.WriteBatch(ctx, testSamples()); err != nil {
			t.Fatalf("write batch %d: %v", i, err)
		}
	}

	var n int
	if err := sink.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM samples").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows after repeated export, got %d", n)
	}
}

func TestSQLSinkName(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sink, _ := NewSQLSink(db, DialectPostgres, "samples")
	if sink.Name() != "postgres" {
		t.Fatalf("expected sink name postgres, got %s", sink.Name())
	}
}
