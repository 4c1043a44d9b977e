package ports

import (
	"context"

	"github.com/anhprgm/dev-info/internal/domain"
)

type Sink interface {
	WriteBatch(ctx context.Context, samples []domain.Sample) error
	Name() string
}
