package app

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/statview/internal/query"
)

const defaultGCInterval = time.Minute

// StartJanitor launches a background goroutine that evicts unused cache
// entries at a fixed cadence. It returns immediately and stops with ctx.
func StartJanitor(ctx context.Context, client *query.Client, interval time.Duration, logger *log.Logger) {
	if interval <= 0 {
		interval = defaultGCInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := client.GC(now); n > 0 && logger != nil {
					logger.Debug("evicted cache entries", "count", n)
				}
			}
		}
	}()
}
