package transport

import (
	"log/slog"
	"sync/atomic"

	"github.com/elloloop/auteur.one/internal/timeline"
)

// ExportGuard serializes export runs against the preview loop. Only
// one export may hold the guard at a time, and the Loop driver idles
// while it is held.
type ExportGuard struct {
	exporting atomic.Bool
}

// TryAcquire claims the guard. It fails with an export-in-progress
// error when another export already holds it.
func (g *ExportGuard) TryAcquire() error {
	if !g.exporting.CompareAndSwap(false, true) {
		return timeline.NewExportError(timeline.ErrCodeExportInProgress,
			"an export is already running", true, nil)
	}
	slog.Debug("export guard acquired")
	return nil
}

// Release returns the guard. Safe to call from a deferred cleanup even
// when the acquire failed.
func (g *ExportGuard) Release() {
	if g.exporting.CompareAndSwap(true, false) {
		slog.Debug("export guard released")
	}
}

// Exporting reports whether an export currently holds the guard.
func (g *ExportGuard) Exporting() bool {
	return g.exporting.Load()
}
