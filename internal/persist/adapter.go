// Package persist is the boundary between in-memory tracker state and the
// durable key-value store. Reads never fail: missing or unreadable records
// resolve to a caller-supplied default. Writes are best-effort: failures are
// logged and swallowed so that in-memory state stays authoritative.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hyperengineering/lantern/internal/store"
)

// Fixed record keys.
const (
	KeyCompleted   = "ramadan_completed"
	KeyCustomTasks = "ramadan_custom_tasks"
	KeyReflections = "ramadan_reflections"
)

// Adapter wraps a store.KV with JSON encoding and defensive recovery.
type Adapter struct {
	kv     store.KV
	logger *slog.Logger
}

// New creates an Adapter over kv. A nil logger falls back to slog.Default().
func New(kv store.KV, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		kv:     kv,
		logger: logger.With("component", "persist"),
	}
}

// Raw returns the stored bytes for key and whether a usable value exists.
// A JSON null counts as absent.
func (a *Adapter) Raw(ctx context.Context, key string) ([]byte, bool) {
	v, err := a.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			a.logger.Warn("record read failed, using default",
				"action", "load",
				"key", key,
				"error", err,
			)
		}
		return nil, false
	}
	raw := bytes.TrimSpace([]byte(v))
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false
	}
	return raw, true
}

// Load decodes the record stored under key into a T. Any read or parse
// failure yields def.
func Load[T any](ctx context.Context, a *Adapter, key string, def T) T {
	raw, ok := a.Raw(ctx, key)
	if !ok {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		a.logger.Warn("record unreadable, using default",
			"action", "load",
			"key", key,
			"error", err,
		)
		return def
	}
	return v
}

// Save encodes value and writes it under key. It reports whether the write
// landed; callers are free to ignore the result.
func (a *Adapter) Save(ctx context.Context, key string, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		a.logger.Error("record encode failed",
			"action", "save",
			"key", key,
			"error", err,
		)
		return false
	}
	if err := a.kv.Put(ctx, key, string(data)); err != nil {
		a.logger.Warn("record write failed, keeping in-memory state",
			"action", "save",
			"key", key,
			"error", err,
		)
		return false
	}
	return true
}

// Delete removes key, logging failures.
func (a *Adapter) Delete(ctx context.Context, key string) bool {
	if err := a.kv.Delete(ctx, key); err != nil {
		a.logger.Warn("record delete failed",
			"action", "delete",
			"key", key,
			"error", err,
		)
		return false
	}
	return true
}

// Keys lists keys with the given prefix. Failures yield an empty list.
func (a *Adapter) Keys(ctx context.Context, prefix string) []string {
	keys, err := a.kv.Keys(ctx, prefix)
	if err != nil {
		a.logger.Warn("record listing failed",
			"action", "keys",
			"prefix", prefix,
			"error", err,
		)
		return []string{}
	}
	return keys
}
