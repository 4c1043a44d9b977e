package domain

import (
	"encoding/json"
	"time"
)

// BenchmarkResult is the outcome of one benchmark run. It is never persisted.
type BenchmarkResult struct {
	SingleCoreScore int
	MultiCoreScore  int
	MemoryScore     int
	CPUScore        int
	OverallScore    int
	Duration        time.Duration
}

// NewBenchmarkResult derives the aggregate scores with truncating integer averages.
func NewBenchmarkResult(single, multi, memory int, duration time.Duration) BenchmarkResult {
	cpu := (single + multi) / 2
	if duration < 0 {
		duration = 0
	}
	return BenchmarkResult{
		SingleCoreScore: single,
		MultiCoreScore:  multi,
		MemoryScore:     memory,
		CPUScore:        cpu,
		OverallScore:    (cpu + memory) / 2,
		Duration:        duration,
	}
}

func (r BenchmarkResult) DurationMillis() int64 {
	return r.Duration.Milliseconds()
}

type benchmarkResultJSON struct {
	SingleCoreScore int   `json:"single_core_score"`
	MultiCoreScore  int   `json:"multi_core_score"`
	MemoryScore     int   `json:"memory_score"`
	CPUScore        int   `json:"cpu_score"`
	OverallScore    int   `json:"overall_score"`
	DurationMillis  int64 `json:"duration_ms"`
}

func (r BenchmarkResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(benchmarkResultJSON{
		SingleCoreScore: r.SingleCoreScore,
		MultiCoreScore:  r.MultiCoreScore,
		MemoryScore:     r.MemoryScore,
		CPUScore:        r.CPUScore,
		OverallScore:    r.OverallScore,
		DurationMillis:  r.DurationMillis(),
	})
}

func (r *BenchmarkResult) UnmarshalJSON(b []byte) error {
	var raw benchmarkResultJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = BenchmarkResult{
		SingleCoreScore: raw.SingleCoreScore,
		MultiCoreScore:  raw.MultiCoreScore,
		MemoryScore:     raw.MemoryScore,
		CPUScore:        raw.CPUScore,
		OverallScore:    raw.OverallScore,
		Duration:        time.Duration(raw.DurationMillis) * time.Millisecond,
	}
	return nil
}
