package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/hyperengineering/lantern/internal/prayer"
	"github.com/hyperengineering/lantern/internal/tracker"
	"github.com/hyperengineering/lantern/internal/types"
	"github.com/hyperengineering/lantern/internal/validation"
)

// Handler implements the API handlers. The engine is single-threaded, so
// every handler that touches it holds mu.
type Handler struct {
	mu      sync.Mutex
	engine  *tracker.Engine
	prayer  *prayer.Service
	place   prayer.Query
	version string
}

// NewHandler creates a new Handler. place supplies the default city, country
// and method for prayer-time lookups; its Date is ignored. A nil prayer
// service disables the prayer-times endpoint.
func NewHandler(e *tracker.Engine, p *prayer.Service, place prayer.Query, version string) *Handler {
	return &Handler{
		engine:  e,
		prayer:  p,
		place:   place,
		version: version,
	}
}

// PrayerTimesResponse is the body of GET /api/v1/prayer-times.
type PrayerTimesResponse struct {
	City    string            `json:"city"`
	Country string            `json:"country"`
	Method  int               `json:"method"`
	Date    types.DayKey      `json:"date"`
	Times   prayer.Times      `json:"times"`
	Display map[string]string `json:"display"`
	Next    string            `json:"next"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteProblem(w, r, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return false
	}
	return true
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	resp := types.HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Today:     h.engine.Today(),
		DayNumber: h.engine.DayNumber(),
		TaskCount: h.engine.Registry().Len(),
	}
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

// ListTasks handles GET /api/v1/tasks
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	tasks := h.engine.Tasks()
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, types.TaskListResponse{Tasks: tasks, Total: len(tasks)})
}

// AddTask handles POST /api/v1/tasks
func (h *Handler) AddTask(w http.ResponseWriter, r *http.Request) {
	var req types.AddTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validation.ValidateAddTask(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", errs)
		return
	}

	h.mu.Lock()
	task, ok := h.engine.AddTask(r.Context(), req.Label, req.Icon)
	h.mu.Unlock()

	if !ok {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{
			{Field: "label", Message: "is required"},
		})
		return
	}

	slog.Info("custom task added", "component", "api", "task_id", task.ID)
	writeJSON(w, http.StatusCreated, task)
}

// RemoveTask handles DELETE /api/v1/tasks/{id}
func (h *Handler) RemoveTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if tracker.IsBuiltin(id) {
		WriteProblemConflict(w, r, fmt.Sprintf("Built-in task %q cannot be removed", id))
		return
	}

	h.mu.Lock()
	removed := h.engine.RemoveTask(r.Context(), id)
	h.mu.Unlock()

	if removed {
		slog.Info("custom task removed", "component", "api", "task_id", id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Today handles GET /api/v1/days/today
func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	view := h.engine.DayView(h.engine.Today())
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, view)
}

// Day handles GET /api/v1/days/{day}
func (h *Handler) Day(w http.ResponseWriter, r *http.Request) {
	day, err := types.ParseDayKey(chi.URLParam(r, "day"))
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Day must be a calendar date in YYYY-MM-DD form")
		return
	}

	h.mu.Lock()
	view := h.engine.DayView(day)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, view)
}

// Toggle handles POST /api/v1/days/today/tasks/{id}/toggle
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.mu.Lock()
	if _, ok := h.engine.Registry().Get(id); !ok {
		h.mu.Unlock()
		WriteProblem(w, r, http.StatusNotFound, fmt.Sprintf("Task %q not found", id))
		return
	}
	done := h.engine.Toggle(r.Context(), id)
	today := h.engine.Today()
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, types.ToggleResponse{TaskID: id, Day: today, Complete: done})
}

// SetReflection handles PUT /api/v1/days/today/reflection
func (h *Handler) SetReflection(w http.ResponseWriter, r *http.Request) {
	var req types.ReflectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validation.ValidateReflection(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", errs)
		return
	}

	h.mu.Lock()
	h.engine.SetReflection(r.Context(), req.Text)
	view := h.engine.DayView(h.engine.Today())
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, view)
}

// Progress handles GET /api/v1/progress
func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	overview := h.engine.Overview()
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, overview)
}

// PrayerTimes handles GET /api/v1/prayer-times
func (h *Handler) PrayerTimes(w http.ResponseWriter, r *http.Request) {
	if h.prayer == nil {
		WriteProblem(w, r, http.StatusServiceUnavailable, "Prayer times are disabled")
		return
	}

	q, errs := h.prayerQuery(r)
	if len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request contains invalid parameters", errs)
		return
	}

	h.mu.Lock()
	if q.Date == "" {
		q.Date = h.engine.Today()
	}
	now := h.engine.Now()
	h.mu.Unlock()

	times, err := h.prayer.Times(r.Context(), q)
	if err != nil {
		MapError(w, r, err)
		return
	}

	display := make(map[string]string, len(prayer.Names))
	for _, e := range times.Entries() {
		display[e.Name] = prayer.Format12h(e.Time)
	}

	writeJSON(w, http.StatusOK, PrayerTimesResponse{
		City:    q.City,
		Country: q.Country,
		Method:  q.Method,
		Date:    q.Date,
		Times:   times,
		Display: display,
		Next:    prayer.NextPrayer(times, now),
	})
}

func (h *Handler) prayerQuery(r *http.Request) (prayer.Query, []validation.ValidationError) {
	params := r.URL.Query()
	q := prayer.Query{City: h.place.City, Country: h.place.Country, Method: h.place.Method}

	var c validation.Collector
	if v := strings.TrimSpace(params.Get("city")); v != "" {
		q.City = v
	}
	if v := strings.TrimSpace(params.Get("country")); v != "" {
		q.Country = v
	}
	if v := params.Get("method"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			c.Add(&validation.ValidationError{Field: "method", Message: "must be an integer"})
		} else {
			c.Add(validation.ValidateMinInt("method", m, 0))
			q.Method = m
		}
	}
	if v := params.Get("date"); v != "" {
		if verr := validation.ValidateDayKey("date", v); verr != nil {
			c.Add(verr)
		} else {
			q.Date = types.DayKey(v)
		}
	}

	c.Add(validation.ValidateRequired("city", q.City))
	validation.ValidateText(&c, "city", q.City, validation.MaxCityLength)
	validation.ValidateText(&c, "country", q.Country, validation.MaxCityLength)
	return q, c.Errors()
}
