//go:build !linux

package probe

import (
	"context"

	"github.com/anhprgm/dev-info/internal/domain"
)

// Battery reports no battery outside Linux and Android.
func (p *Probe) Battery(ctx context.Context) (domain.BatteryInfo, error) {
	return domain.BatteryInfo{}, ctx.Err()
}
