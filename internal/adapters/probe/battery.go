//go:build linux

package probe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/prometheus/procfs/sysfs"

	"github.com/anhprgm/dev-info/internal/domain"
)

func (p *Probe) Battery(ctx context.Context) (domain.BatteryInfo, error) {
	if err := ctx.Err(); err != nil {
		return domain.BatteryInfo{}, err
	}
	fs, err := sysfs.NewFS(p.cfg.SysPath)
	if err != nil {
		return domain.BatteryInfo{}, err
	}
	supplies, err := fs.PowerSupplyClass()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.BatteryInfo{}, nil
		}
		return domain.BatteryInfo{}, fmt.Errorf("power supplies: %w", err)
	}
	return batteryFromSupplies(supplies), nil
}

// batteryFromSupplies picks the first supply of type Battery by name.
func batteryFromSupplies(supplies sysfs.PowerSupplyClass) domain.BatteryInfo {
	names := make([]string, 0, len(supplies))
	for name := range supplies {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ps := supplies[name]
		if !strings.EqualFold(ps.Type, "Battery") {
			continue
		}
		if ps.Present != nil && *ps.Present == 0 {
			continue
		}

		b := domain.BatteryInfo{
			Present:        true,
			ChargingStatus: orUnknown(ps.Status),
			Health:         orUnknown(ps.Health),
			Technology:     orUnknown(ps.Technology),
		}
		if ps.Capacity != nil {
			b.Level = clampPercent(int(*ps.Capacity))
		}
		// temp is in tenths of a degree, voltage_now in microvolts
		if ps.Temp != nil {
			b.TemperatureC = float64(*ps.Temp) / 10
		}
		if ps.VoltageNow != nil {
			b.VoltageV = float64(*ps.VoltageNow) / 1e6
		}
		return b
	}
	return domain.BatteryInfo{}
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
