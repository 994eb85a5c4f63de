package tracker

import (
	"context"
	"strings"

	"github.com/hyperengineering/lantern/internal/persist"
	"github.com/hyperengineering/lantern/internal/types"
	"github.com/oklog/ulid/v2"
)

// CustomIDPrefix marks ids generated for user-created tasks.
const CustomIDPrefix = "custom_"

// DefaultIcon is used when a custom task is added without one.
const DefaultIcon = "📌"

var builtinTasks = []types.Task{
	{ID: "fajr", Category: types.CategoryWorship, Label: "Fajr Salah", Icon: "🌙"},
	{ID: "dhuhr", Category: types.CategoryWorship, Label: "Dhuhr Salah", Icon: "☀️"},
	{ID: "asr", Category: types.CategoryWorship, Label: "Asr Salah", Icon: "🌤"},
	{ID: "maghrib", Category: types.CategoryWorship, Label: "Maghrib Salah", Icon: "🌅"},
	{ID: "isha", Category: types.CategoryWorship, Label: "Isha Salah", Icon: "⭐"},
	{ID: "tarawih", Category: types.CategoryWorship, Label: "Tarawih Prayer", Icon: "🤲"},
	{ID: "quran5", Category: types.CategoryWorship, Label: "Quran – 5 pages", Icon: "📖"},
	{ID: "dhikr", Category: types.CategoryWorship, Label: "Morning Dhikr", Icon: "💫"},

	{ID: "suhoor", Category: types.CategoryHealth, Label: "Eat Suhoor", Icon: "🥣"},
	{ID: "iftar", Category: types.CategoryHealth, Label: "Break Fast (Iftar)", Icon: "🍽"},
	{ID: "water", Category: types.CategoryHealth, Label: "Drink 8 glasses", Icon: "💧"},
	{ID: "sleep", Category: types.CategoryHealth, Label: "Sleep by 11 PM", Icon: "😴"},

	{ID: "gratitude", Category: types.CategoryPersonal, Label: "Write gratitude", Icon: "✍️"},
	{ID: "charity", Category: types.CategoryPersonal, Label: "Give charity", Icon: "🤝"},
}

var builtinIDs = func() map[string]bool {
	m := make(map[string]bool, len(builtinTasks))
	for _, t := range builtinTasks {
		m[t.ID] = true
	}
	return m
}()

// BuiltinTasks returns a copy of the fixed task set in declaration order.
func BuiltinTasks() []types.Task {
	out := make([]types.Task, len(builtinTasks))
	copy(out, builtinTasks)
	return out
}

// IsBuiltin reports whether id names a built-in task.
func IsBuiltin(id string) bool {
	return builtinIDs[id]
}

// Registry is the universe of trackable tasks: the built-ins followed by
// user-created personal tasks in creation order.
type Registry struct {
	custom  []types.Task
	persist *persist.Adapter
	newID   func() string
}

// LoadRegistry restores the custom task list. Entries that could not have
// been produced by Add (wrong prefix, blank label, duplicate id) are dropped.
func LoadRegistry(ctx context.Context, a *persist.Adapter) *Registry {
	stored := persist.Load(ctx, a, persist.KeyCustomTasks, []types.Task{})

	r := &Registry{
		custom:  make([]types.Task, 0, len(stored)),
		persist: a,
		newID:   newCustomID,
	}
	seen := map[string]bool{}
	for _, t := range stored {
		label := strings.TrimSpace(t.Label)
		if !strings.HasPrefix(t.ID, CustomIDPrefix) || label == "" || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		r.custom = append(r.custom, types.Task{
			ID:       t.ID,
			Category: types.CategoryPersonal,
			Label:    label,
			Icon:     iconOrDefault(t.Icon),
		})
	}
	return r
}

// All returns every task: built-ins first, then custom tasks.
func (r *Registry) All() []types.Task {
	out := make([]types.Task, 0, len(builtinTasks)+len(r.custom))
	out = append(out, builtinTasks...)
	out = append(out, r.custom...)
	return out
}

// Custom returns the user-created tasks in creation order.
func (r *Registry) Custom() []types.Task {
	out := make([]types.Task, len(r.custom))
	copy(out, r.custom)
	return out
}

// ByCategory returns the tasks in category c, in registry order.
func (r *Registry) ByCategory(c types.Category) []types.Task {
	var out []types.Task
	for _, t := range r.All() {
		if t.Category == c {
			out = append(out, t)
		}
	}
	return out
}

// Get looks a task up by id.
func (r *Registry) Get(id string) (types.Task, bool) {
	for _, t := range r.All() {
		if t.ID == id {
			return t, true
		}
	}
	return types.Task{}, false
}

// Len returns the size of the task universe.
func (r *Registry) Len() int {
	return len(builtinTasks) + len(r.custom)
}

// Add appends a personal task. It is a no-op returning false when label is
// blank after trimming.
func (r *Registry) Add(ctx context.Context, label, icon string) (types.Task, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return types.Task{}, false
	}

	task := types.Task{
		ID:       r.uniqueID(),
		Category: types.CategoryPersonal,
		Label:    label,
		Icon:     iconOrDefault(icon),
	}
	r.custom = append(r.custom, task)
	r.save(ctx)
	return task, true
}

// Remove deletes the custom task with the given id. Built-in and unknown ids
// are ignored. It reports whether a task was removed.
func (r *Registry) Remove(ctx context.Context, id string) bool {
	for i, t := range r.custom {
		if t.ID != id {
			continue
		}
		r.custom = append(r.custom[:i:i], r.custom[i+1:]...)
		r.save(ctx)
		return true
	}
	return false
}

func (r *Registry) save(ctx context.Context) {
	r.persist.Save(ctx, persist.KeyCustomTasks, r.custom)
}

func (r *Registry) uniqueID() string {
	for {
		id := r.newID()
		if _, taken := r.Get(id); !taken {
			return id
		}
	}
}

func newCustomID() string {
	return CustomIDPrefix + ulid.Make().String()
}

func iconOrDefault(icon string) string {
	if icon = strings.TrimSpace(icon); icon == "" {
		return DefaultIcon
	}
	return icon
}
