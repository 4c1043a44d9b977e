package benchmark

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/anhprgm/dev-info/internal/domain"
	"github.com/anhprgm/dev-info/internal/ports"
)

// MaxScore is the upper clamp for every sub-score.
const MaxScore = 1000

// cancellation is polled once per this many loop iterations.
const checkEvery = 1 << 16

// Config holds the fixed workload sizes and the calibration baselines. A
// baseline is the elapsed time, in milliseconds, that scores exactly MaxScore.
type Config struct {
	SingleCoreIterations int     `yaml:"single_core_iterations"`
	MultiCoreIterations  int     `yaml:"multi_core_iterations"`
	MemoryArraySize      int     `yaml:"memory_array_size"`
	MemoryPasses         int     `yaml:"memory_passes"`
	Workers              int     `yaml:"workers"`
	BaselineSingleMs     float64 `yaml:"baseline_single_ms"`
	BaselineMultiMs      float64 `yaml:"baseline_multi_ms"`
	BaselineMemoryMs     float64 `yaml:"baseline_memory_ms"`
}

// DefaultConfig is calibrated against a mid-range ARM64 handset.
func DefaultConfig() Config {
	return Config{
		SingleCoreIterations: 2_000_000,
		MultiCoreIterations:  2_000_000,
		MemoryArraySize:      1_000_000,
		MemoryPasses:         5,
		BaselineSingleMs:     60,
		BaselineMultiMs:      90,
		BaselineMemoryMs:     12,
	}
}

func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.SingleCoreIterations == 0 {
		c.SingleCoreIterations = d.SingleCoreIterations
	}
	if c.MultiCoreIterations == 0 {
		c.MultiCoreIterations = d.MultiCoreIterations
	}
	if c.MemoryArraySize == 0 {
		c.MemoryArraySize = d.MemoryArraySize
	}
	if c.MemoryPasses == 0 {
		c.MemoryPasses = d.MemoryPasses
	}
	if c.BaselineSingleMs == 0 {
		c.BaselineSingleMs = d.BaselineSingleMs
	}
	if c.BaselineMultiMs == 0 {
		c.BaselineMultiMs = d.BaselineMultiMs
	}
	if c.BaselineMemoryMs == 0 {
		c.BaselineMemoryMs = d.BaselineMemoryMs
	}
}

func (c *Config) Validate() error {
	if c.SingleCoreIterations <= 0 || c.MultiCoreIterations <= 0 {
		return errors.New("iterations must be > 0")
	}
	if c.MemoryArraySize <= 0 || c.MemoryPasses <= 0 {
		return errors.New("memory_array_size and memory_passes must be > 0")
	}
	if c.Workers < 0 {
		return errors.New("workers must be >= 0")
	}
	if c.BaselineSingleMs <= 0 || c.BaselineMultiMs <= 0 || c.BaselineMemoryMs <= 0 {
		return errors.New("baselines must be > 0")
	}
	return nil
}

// Runner times the three synthetic workloads.
type Runner struct {
	cfg   Config
	clock ports.Clock

	single workload
	multi  workload
	mem    workload

	mu       sync.Mutex
	checksum float64
}

type workload func(context.Context) (float64, error)

func NewRunner(cfg Config, clock ports.Clock) (*Runner, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("benchmark config: %w", err)
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	r := &Runner{cfg: cfg, clock: clock}
	r.single, r.multi, r.mem = r.singleCore, r.multiCore, r.memory
	return r, nil
}

// Run executes single-core, multi-core and memory workloads in sequence. It is
// CPU bound and blocks for about a second on typical hardware.
func (r *Runner) Run(ctx context.Context) (domain.BenchmarkResult, error) {
	start := r.clock.Now()

	singleElapsed, err := r.timed(ctx, r.single)
	if err != nil {
		return domain.BenchmarkResult{}, fmt.Errorf("single-core: %w", err)
	}
	multiElapsed, err := r.timed(ctx, r.multi)
	if err != nil {
		return domain.BenchmarkResult{}, fmt.Errorf("multi-core: %w", err)
	}
	memElapsed, err := r.timed(ctx, r.mem)
	if err != nil {
		return domain.BenchmarkResult{}, fmt.Errorf("memory: %w", err)
	}

	return domain.NewBenchmarkResult(
		Score(r.cfg.BaselineSingleMs, singleElapsed),
		Score(r.cfg.BaselineMultiMs, multiElapsed),
		Score(r.cfg.BaselineMemoryMs, memElapsed),
		r.clock.Now().Sub(start),
	), nil
}

// Checksum returns the workload output accumulated across runs.
func (r *Runner) Checksum() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.checksum
}

// Score maps elapsed time to clamp(round(baselineMs/elapsedMs*1000), 0, 1000).
// Non-positive elapsed times are treated as too fast to measure.
func Score(baselineMs float64, elapsed time.Duration) int {
	if elapsed <= 0 {
		return MaxScore
	}
	ms := float64(elapsed) / float64(time.Millisecond)
	score := math.Round(baselineMs / ms * 1000)
	if score > MaxScore || math.IsInf(score, 1) {
		return MaxScore
	}
	if score < 0 || math.IsNaN(score) {
		return 0
	}
	return int(score)
}

func (r *Runner) timed(ctx context.Context, fn workload) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	begin := r.clock.Now()
	sum, err := guard(ctx, fn)
	if err != nil {
		return 0, err
	}
	elapsed := r.clock.Now().Sub(begin)

	r.mu.Lock()
	r.checksum += sum
	r.mu.Unlock()
	return elapsed, nil
}

func (r *Runner) singleCore(ctx context.Context) (float64, error) {
	return floatLoop(ctx, r.cfg.SingleCoreIterations)
}

func (r *Runner) multiCore(ctx context.Context) (float64, error) {
	workers := r.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers < 1 {
		workers = 1
	}

	sums := make([]float64, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			sums[w], errs[w] = guard(ctx, func(ctx context.Context) (float64, error) {
				return floatLoop(ctx, r.cfg.MultiCoreIterations)
			})
		}(w)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return 0, err
	}
	var total float64
	for _, s := range sums {
		total += s
	}
	return total, nil
}

func (r *Runner) memory(ctx context.Context) (float64, error) {
	data := make([]int64, r.cfg.MemoryArraySize)
	for i := range data {
		data[i] = int64(i)
	}

	var sum int64
	for pass := 0; pass < r.cfg.MemoryPasses; pass++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		for _, v := range data {
			sum += v
		}
	}
	return float64(sum), nil
}

func floatLoop(ctx context.Context, iterations int) (float64, error) {
	var acc float64
	for i := 0; i < iterations; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		x := float64(i)
		acc += math.Sqrt(x) + math.Pow(x, 0.75)
	}
	return acc, nil
}

// guard converts a panic in fn into an error so a broken workload never
// yields a result.
func guard(ctx context.Context, fn workload) (sum float64, err error) {
	defer func() {
		if p := recover(); p != nil {
			sum = 0
			err = fmt.Errorf("workload panicked: %v", p)
		}
	}()
	return fn(ctx)
}
