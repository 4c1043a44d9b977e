package ports

import "github.com/anhprgm/dev-info/internal/domain"

// HistoryLog is the bounded, persisted, chronological store of samples.
type HistoryLog interface {
	Append(s domain.Sample) error
	ReadAll() ([]domain.Sample, error)
	Clear() error
	Stats() HistoryStats
}

type HistoryStats struct {
	Entries   int
	SizeBytes int64
}
