package transport

import (
	"context"
	"log/slog"
	"time"
)

// TickInterval is the preview tick period. Sixty ticks per second is
// more than the display needs; the playhead advances by measured
// elapsed time, so a slow machine drops frames without drifting.
const TickInterval = 16 * time.Millisecond

// Loop runs the real-time preview driver until ctx is cancelled. Each
// tick measures the wall-clock time since the previous tick and feeds
// it to Tick, so playback speed is exact regardless of scheduling
// jitter. While guard reports an export in progress the loop idles
// without ticking. A nil guard disables the check.
func (t *Transport) Loop(ctx context.Context, guard *ExportGuard) error {
	slog.Info("preview loop starting", "interval", TickInterval)

	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("preview loop stopping", "reason", ctx.Err())
			return ctx.Err()
		case now := <-ticker.C:
			elapsed := now.Sub(last).Seconds()
			last = now
			if guard != nil && guard.Exporting() {
				continue
			}
			t.Tick(elapsed)
		}
	}
}
