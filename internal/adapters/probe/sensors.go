package probe

import (
	"context"
	"fmt"
	"sort"

	"github.com/shirou/gopsutil/v4/sensors"

	"github.com/anhprgm/dev-info/internal/domain"
)

func (p *Probe) Sensors(ctx context.Context) (domain.SensorInfo, error) {
	temps, err := sensors.TemperaturesWithContext(ctx)
	// gopsutil returns partial readings alongside warnings
	if err != nil && len(temps) == 0 {
		return domain.SensorInfo{Sensors: []domain.Sensor{}}, fmt.Errorf("temperatures: %w", err)
	}
	return sensorsFromTemperatures(temps), nil
}

func sensorsFromTemperatures(temps []sensors.TemperatureStat) domain.SensorInfo {
	out := make([]domain.Sensor, 0, len(temps))
	for _, t := range temps {
		out = append(out, domain.Sensor{
			Name:     t.SensorKey,
			Type:     "temperature",
			Value:    t.Temperature,
			High:     t.High,
			Critical: t.Critical,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return domain.SensorInfo{Sensors: out}
}
