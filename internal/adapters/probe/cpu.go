package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/procfs"
)

func (p *Probe) cpuPercent(ctx context.Context) (float64, error) {
	fs, err := procfs.NewFS(p.cfg.ProcPath)
	if err != nil {
		return 0, err
	}
	before, err := fs.Stat()
	if err != nil {
		return 0, fmt.Errorf("read stat: %w", err)
	}

	t := time.NewTimer(p.cfg.CPUWindow)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-t.C:
	}

	after, err := fs.Stat()
	if err != nil {
		return 0, fmt.Errorf("read stat: %w", err)
	}
	return cpuUsage(before.CPUTotal, after.CPUTotal), nil
}

// cpuUsage is the busy share of the time elapsed between two snapshots, in
// percent. Idle and iowait count as not busy.
func cpuUsage(prev, cur procfs.CPUStat) float64 {
	idle := (cur.Idle + cur.Iowait) - (prev.Idle + prev.Iowait)
	total := cpuTotal(cur) - cpuTotal(prev)
	if total <= 0 {
		return 0
	}
	usage := (total - idle) / total * 100
	switch {
	case usage < 0:
		return 0
	case usage > 100:
		return 100
	}
	return usage
}

// guest time is already folded into user and nice.
func cpuTotal(s procfs.CPUStat) float64 {
	return s.User + s.Nice + s.System + s.Idle + s.Iowait + s.IRQ + s.SoftIRQ + s.Steal
}
