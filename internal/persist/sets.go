package persist

import (
	"context"
	"encoding/json"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// ToSerializable converts per-day id sets into sorted id slices for JSON.
// Empty sets are kept so that a day that was touched stays recorded.
func ToSerializable[K ~string](days map[K]mapset.Set[string]) map[string][]string {
	out := make(map[string][]string, len(days))
	for day, set := range days {
		ids := []string{}
		if set != nil {
			ids = set.ToSlice()
		}
		sort.Strings(ids)
		out[string(day)] = ids
	}
	return out
}

// FromSerializable rebuilds per-day id sets. Duplicate and empty ids are
// dropped; ordering is not significant.
func FromSerializable[K ~string](days map[string][]string) map[K]mapset.Set[string] {
	out := make(map[K]mapset.Set[string], len(days))
	for day, ids := range days {
		out[K(day)] = newSet(ids)
	}
	return out
}

// LoadSets reads a per-day set record with partial-failure isolation: a day
// whose entry is not a list of strings is skipped, the others load. A record
// that is not a JSON object at all yields an empty map.
func LoadSets[K ~string](ctx context.Context, a *Adapter, key string) map[K]mapset.Set[string] {
	out := map[K]mapset.Set[string]{}

	raw, ok := a.Raw(ctx, key)
	if !ok {
		return out
	}

	var days map[string]json.RawMessage
	if err := json.Unmarshal(raw, &days); err != nil {
		a.logger.Warn("record unreadable, using default",
			"action", "load",
			"key", key,
			"error", err,
		)
		return out
	}

	for day, entry := range days {
		var ids []string
		if err := json.Unmarshal(entry, &ids); err != nil {
			a.logger.Warn("skipping malformed day entry",
				"action", "load",
				"key", key,
				"day", day,
				"error", err,
			)
			continue
		}
		out[K(day)] = newSet(ids)
	}
	return out
}

func newSet(ids []string) mapset.Set[string] {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, id := range ids {
		if id != "" {
			set.Add(id)
		}
	}
	return set
}
