package prayer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hyperengineering/lantern/internal/persist"
	"github.com/hyperengineering/lantern/internal/types"
)

// CacheKeyPrefix starts every cached prayer-times record key.
const CacheKeyPrefix = "ramadan_prayer_times_"

// CacheKey returns the record key for one city and date.
func CacheKey(city string, day types.DayKey) string {
	return CacheKeyPrefix + city + "_" + string(day)
}

// Service answers prayer-time lookups from the cache, falling back to the
// Fetcher. Only successful lookups are cached.
type Service struct {
	fetcher Fetcher
	persist *persist.Adapter
	logger  *slog.Logger
}

// NewService creates a Service.
func NewService(f Fetcher, a *persist.Adapter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher: f,
		persist: a,
		logger:  logger.With("component", "prayer"),
	}
}

// Cached returns the cached times for q, if any.
func (s *Service) Cached(ctx context.Context, q Query) (Times, bool) {
	t := persist.Load(ctx, s.persist, CacheKey(q.City, q.Date), Times{})
	if t.Validate() != nil {
		return Times{}, false
	}
	return t, true
}

// Times returns the prayer times for q.
func (s *Service) Times(ctx context.Context, q Query) (Times, error) {
	if t, ok := s.Cached(ctx, q); ok {
		return t, nil
	}

	t, err := s.fetcher.Fetch(ctx, q)
	if err != nil {
		s.logger.Warn("prayer times lookup failed",
			"city", q.City,
			"date", q.Date,
			"error", err,
		)
		return Times{}, err
	}

	s.persist.Save(ctx, CacheKey(q.City, q.Date), t)
	s.logger.Debug("prayer times cached",
		"city", q.City,
		"date", q.Date,
	)
	return t, nil
}

// Prune deletes cached entries dated before the given day and returns how
// many were removed.
func (s *Service) Prune(ctx context.Context, before types.DayKey) int {
	removed := 0
	for _, key := range s.persist.Keys(ctx, CacheKeyPrefix) {
		i := strings.LastIndexByte(key, '_')
		if i < 0 {
			continue
		}
		day, err := types.ParseDayKey(key[i+1:])
		if err != nil || day >= before {
			continue
		}
		if s.persist.Delete(ctx, key) {
			removed++
		}
	}
	return removed
}
