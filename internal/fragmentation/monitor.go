// Package fragmentation supplies the host policy spec.md §4.5 and §9
// leave unspecified: when to call Compact. It periodically samples the
// fragmentation ratio and compacts once it crosses a threshold.
package fragmentation

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Compactor is the subset of host.Host the monitor needs. It is an
// interface, not host.Host directly, so tests can exercise the monitor
// against a fake without standing up a real selector.
type Compactor interface {
	FragmentationRatio() float64
	Compact() uint64
}

type monitor struct {
	c         Compactor
	period    time.Duration
	threshold float64
}

func (m *monitor) run(ctx context.Context, logger *zap.Logger) {
	ticker := time.NewTicker(m.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ratio := m.c.FragmentationRatio()
			logger.Debug("fragmentation check", zap.Float64("ratio", ratio), zap.Float64("threshold", m.threshold))
			if ratio >= m.threshold {
				reclaimed := m.c.Compact()
				logger.Info("compacted by monitor", zap.Uint64("reclaimed", reclaimed), zap.Float64("ratio_before", ratio))
			}
		}
	}
}

// Monitor periodically checks c's fragmentation ratio and calls Compact
// once it reaches threshold (a value in (0, 1]). It returns immediately;
// the check loop runs in its own goroutine until ctx is canceled.
func Monitor(ctx context.Context, logger *zap.Logger, c Compactor, period time.Duration, threshold float64) {
	m := &monitor{c: c, period: period, threshold: threshold}
	go m.run(ctx, logger)
}
