package ports

import "github.com/anhprgm/dev-info/internal/domain"

type Collector interface {
	Start(out chan<- domain.Sample) error
	Stop() error
}
