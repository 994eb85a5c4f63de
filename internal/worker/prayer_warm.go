package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/hyperengineering/lantern/internal/prayer"
	"github.com/hyperengineering/lantern/internal/types"
)

// PrayerSource defines the prayer operations needed by the warm worker.
type PrayerSource interface {
	Times(ctx context.Context, q prayer.Query) (prayer.Times, error)
	Prune(ctx context.Context, before types.DayKey) int
}

// PrayerWarmWorker keeps today's and tomorrow's prayer times cached and
// drops cache entries for past days.
type PrayerWarmWorker struct {
	source   PrayerSource
	place    prayer.Query
	today    func() types.DayKey
	interval time.Duration
}

// NewPrayerWarmWorker creates a worker for the location in place. today
// supplies the current calendar day.
func NewPrayerWarmWorker(source PrayerSource, place prayer.Query, today func() types.DayKey, interval time.Duration) *PrayerWarmWorker {
	return &PrayerWarmWorker{
		source:   source,
		place:    place,
		today:    today,
		interval: interval,
	}
}

// Run starts the worker loop. Warms the cache immediately on start,
// then on each interval. Respects context cancellation for graceful shutdown.
func (w *PrayerWarmWorker) Run(ctx context.Context) {
	slog.Info("worker started",
		"component", "worker",
		"worker", "prayer-warm",
		"city", w.place.City,
		"interval", w.interval.String(),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.warm(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped",
				"component", "worker",
				"worker", "prayer-warm",
				"reason", "context_cancelled",
			)
			return
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

// warm fetches any uncached days and prunes stale entries, logging failures.
func (w *PrayerWarmWorker) warm(ctx context.Context) {
	today := w.today()

	for _, day := range []types.DayKey{today, today.AddDays(1)} {
		q := w.place
		q.Date = day
		if _, err := w.source.Times(ctx, q); err != nil {
			// Check if it's a context cancellation (graceful shutdown)
			if ctx.Err() != nil {
				return
			}
			slog.Warn("prayer warm failed",
				"component", "worker",
				"action", "prayer_warm_failed",
				"date", day,
				"error", err,
			)
		}
	}

	if n := w.source.Prune(ctx, today); n > 0 {
		slog.Info("prayer cache pruned",
			"component", "worker",
			"action", "prayer_prune",
			"removed", n,
		)
	}
}
