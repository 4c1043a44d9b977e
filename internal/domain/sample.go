package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSample is returned when a sample violates its field ranges.
var ErrInvalidSample = errors.New("invalid sample")

const sampleFields = 4

// Sample is one timestamped capture of battery/RAM/CPU telemetry.
type Sample struct {
	Timestamp         int64   `json:"timestamp"` // epoch milliseconds
	BatteryLevel      int     `json:"battery_level"`
	AvailableRAMBytes uint64  `json:"available_ram_bytes"`
	CPUUsagePercent   float64 `json:"cpu_usage_percent"`
}

func (s Sample) Validate() error {
	if s.BatteryLevel < 0 || s.BatteryLevel > 100 {
		return fmt.Errorf("%w: battery level %d out of range", ErrInvalidSample, s.BatteryLevel)
	}
	if s.CPUUsagePercent < 0 || s.CPUUsagePercent > 100 || s.CPUUsagePercent != s.CPUUsagePercent {
		return fmt.Errorf("%w: cpu usage %v out of range", ErrInvalidSample, s.CPUUsagePercent)
	}
	return nil
}

// Line encodes the sample as timestamp,batteryLevel,availableRamBytes,cpuUsagePercent
// without a trailing newline.
func (s Sample) Line() string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(s.Timestamp, 10))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(s.BatteryLevel))
	b.WriteByte(',')
	b.WriteString(strconv.FormatUint(s.AvailableRAMBytes, 10))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(s.CPUUsagePercent, 'f', -1, 64))
	return b.String()
}

// ParseSampleLine decodes a line produced by Sample.Line.
func ParseSampleLine(line string) (Sample, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != sampleFields {
		return Sample{}, fmt.Errorf("%w: expected %d fields, got %d", ErrInvalidSample, sampleFields, len(parts))
	}

	ts, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: timestamp: %v", ErrInvalidSample, err)
	}
	battery, err := strconv.Atoi(parts[1])
	if err != nil {
		return Sample{}, fmt.Errorf("%w: battery: %v", ErrInvalidSample, err)
	}
	ram, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: ram: %v", ErrInvalidSample, err)
	}
	cpu, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: cpu: %v", ErrInvalidSample, err)
	}

	s := Sample{
		Timestamp:         ts,
		BatteryLevel:      battery,
		AvailableRAMBytes: ram,
		CPUUsagePercent:   cpu,
	}
	if err := s.Validate(); err != nil {
		return Sample{}, err
	}
	return s, nil
}
