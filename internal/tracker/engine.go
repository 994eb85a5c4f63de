// Package tracker holds the state engine of the Ramadan habit tracker: the
// task registry, the per-day completion ledger, the reflection log and the
// progress aggregation derived from them.
//
// An Engine is not safe for concurrent use. Callers that share one across
// goroutines must serialize access.
package tracker

import (
	"context"
	"time"

	"github.com/hyperengineering/lantern/internal/persist"
	"github.com/hyperengineering/lantern/internal/types"
)

// Clock returns the current instant.
type Clock func() time.Time

// Engine composes the registry, ledger and reflection log over one
// persistence adapter, a clock and a tracking window.
type Engine struct {
	window   Window
	loc      *time.Location
	clock    Clock
	registry *Registry
	ledger   *Ledger
	notes    *ReflectionLog
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides time.Now.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLocation sets the time zone that defines calendar days.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithWindow sets the tracking window.
func WithWindow(w Window) Option {
	return func(e *Engine) { e.window = w }
}

// New loads all persisted state through a and returns a ready engine.
// Unreadable records start empty.
func New(ctx context.Context, a *persist.Adapter, opts ...Option) *Engine {
	e := &Engine{
		window: DefaultWindow(),
		loc:    time.Local,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.registry = LoadRegistry(ctx, a)
	e.ledger = LoadLedger(ctx, a, e.Today)
	e.notes = LoadReflections(ctx, a, e.Today)
	return e
}

// Now returns the clock's current instant in the engine's time zone.
func (e *Engine) Now() time.Time {
	return e.clock().In(e.loc)
}

// Today returns the key of the current calendar day.
func (e *Engine) Today() types.DayKey {
	return types.DayKeyOf(e.clock(), e.loc)
}

// DayNumber returns today's 1-based position in the window.
func (e *Engine) DayNumber() int {
	return e.window.DayNumber(e.Today())
}

// Window returns the tracking window.
func (e *Engine) Window() Window { return e.window }

// Location returns the time zone that defines calendar days.
func (e *Engine) Location() *time.Location { return e.loc }

// Registry returns the task registry.
func (e *Engine) Registry() *Registry { return e.registry }

// Ledger returns the completion ledger.
func (e *Engine) Ledger() *Ledger { return e.ledger }

// Reflections returns the reflection log.
func (e *Engine) Reflections() *ReflectionLog { return e.notes }

// Tasks returns every task in registry order.
func (e *Engine) Tasks() []types.Task { return e.registry.All() }

// AddTask creates a custom personal task.
func (e *Engine) AddTask(ctx context.Context, label, icon string) (types.Task, bool) {
	return e.registry.Add(ctx, label, icon)
}

// RemoveTask deletes a custom task. Existing ledger entries for it are kept.
func (e *Engine) RemoveTask(ctx context.Context, id string) bool {
	return e.registry.Remove(ctx, id)
}

// Toggle flips id on today and returns its new state.
func (e *Engine) Toggle(ctx context.Context, id string) bool {
	return e.ledger.Toggle(ctx, id)
}

// SetReflection replaces today's reflection.
func (e *Engine) SetReflection(ctx context.Context, text string) {
	e.notes.Set(ctx, text)
}

// TodaySummary summarizes today's completion across all tasks.
func (e *Engine) TodaySummary() types.Summary {
	return TodaySummary(e.registry.All(), e.ledger, e.Today())
}

// CategorySummary summarizes today's completion within c.
func (e *Engine) CategorySummary(c types.Category) types.Summary {
	return CategorySummary(e.registry.All(), e.ledger, e.Today(), c)
}

// DailySummaries returns the 30 progress records of the window.
func (e *Engine) DailySummaries() []types.ProgressRecord {
	return DailySummaries(e.window, e.registry.All(), e.ledger)
}

// Overview bundles today's summaries with the window's progress records.
func (e *Engine) Overview() types.Overview {
	tasks := e.registry.All()
	today := e.Today()
	return types.Overview{
		Today:      today,
		DayNumber:  e.window.DayNumber(today),
		WindowDays: WindowDays,
		Overall:    TodaySummary(tasks, e.ledger, today),
		Categories: CategoryBreakdown(tasks, e.ledger, today),
		Days:       DailySummaries(e.window, tasks, e.ledger),
	}
}

// DayView returns the read-only state of day. DayNumber is set only for
// days inside the window.
func (e *Engine) DayView(day types.DayKey) types.DayView {
	v := types.DayView{
		Day:        day,
		Completed:  e.ledger.CompletedSet(day),
		Reflection: e.notes.Get(day),
	}
	if e.window.Contains(day) {
		v.DayNumber = e.window.DayNumber(day)
	}
	return v
}
