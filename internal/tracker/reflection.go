package tracker

import (
	"context"

	"github.com/hyperengineering/lantern/internal/persist"
	"github.com/hyperengineering/lantern/internal/types"
)

// ReflectionLog holds one free-text journal entry per day.
type ReflectionLog struct {
	entries map[types.DayKey]string
	persist *persist.Adapter
	today   func() types.DayKey
}

// LoadReflections restores the reflection log from storage.
func LoadReflections(ctx context.Context, a *persist.Adapter, today func() types.DayKey) *ReflectionLog {
	entries := persist.Load(ctx, a, persist.KeyReflections, map[types.DayKey]string{})
	if entries == nil {
		entries = map[types.DayKey]string{}
	}
	return &ReflectionLog{
		entries: entries,
		persist: a,
		today:   today,
	}
}

// Get returns the entry for day, or "" when none was written.
func (r *ReflectionLog) Get(day types.DayKey) string {
	return r.entries[day]
}

// Set replaces today's entry and writes the log through.
func (r *ReflectionLog) Set(ctx context.Context, text string) {
	r.entries[r.today()] = text
	r.persist.Save(ctx, persist.KeyReflections, r.entries)
}
