package tracker

import (
	"context"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/hyperengineering/lantern/internal/persist"
	"github.com/hyperengineering/lantern/internal/types"
)

// Ledger records which task ids were completed on which day. Only the
// current day is ever mutated; past days are read-only history.
type Ledger struct {
	days    map[types.DayKey]mapset.Set[string]
	persist *persist.Adapter
	today   func() types.DayKey
}

// LoadLedger restores the ledger from storage. today supplies the day that
// Toggle mutates.
func LoadLedger(ctx context.Context, a *persist.Adapter, today func() types.DayKey) *Ledger {
	return &Ledger{
		days:    persist.LoadSets[types.DayKey](ctx, a, persist.KeyCompleted),
		persist: a,
		today:   today,
	}
}

// IsComplete reports whether id is marked done on day.
func (l *Ledger) IsComplete(day types.DayKey, id string) bool {
	set, ok := l.days[day]
	return ok && set.Contains(id)
}

// Toggle flips id on the current day and returns its new state. The full
// ledger is written through after every toggle.
func (l *Ledger) Toggle(ctx context.Context, id string) bool {
	day := l.today()
	set, ok := l.days[day]
	if !ok {
		set = mapset.NewThreadUnsafeSet[string]()
		l.days[day] = set
	}

	var done bool
	if set.Contains(id) {
		set.Remove(id)
	} else {
		set.Add(id)
		done = true
	}

	l.persist.Save(ctx, persist.KeyCompleted, persist.ToSerializable(l.days))
	return done
}

// CompletedCount returns the number of ids marked on day, including ids no
// longer in the registry.
func (l *Ledger) CompletedCount(day types.DayKey) int {
	if set, ok := l.days[day]; ok {
		return set.Cardinality()
	}
	return 0
}

// CompletedSet returns a sorted copy of the ids marked on day.
func (l *Ledger) CompletedSet(day types.DayKey) []string {
	set, ok := l.days[day]
	if !ok {
		return []string{}
	}
	ids := set.ToSlice()
	sort.Strings(ids)
	return ids
}

// Days returns every day with a stored entry, oldest first.
func (l *Ledger) Days() []types.DayKey {
	keys := make([]types.DayKey, 0, len(l.days))
	for day := range l.days {
		keys = append(keys, day)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
