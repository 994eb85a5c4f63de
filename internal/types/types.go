package types

// Category classifies a trackable task.
type Category string

const (
	CategoryWorship  Category = "worship"
	CategoryHealth   Category = "health"
	CategoryPersonal Category = "personal"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryWorship, CategoryHealth, CategoryPersonal}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryWorship, CategoryHealth, CategoryPersonal:
		return true
	default:
		return false
	}
}

// Task is a trackable daily item.
type Task struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Icon     string   `json:"icon"`
}

// ProgressRecord is the derived completion state of one day of the window.
type ProgressRecord struct {
	DayNumber       int     `json:"day_number"`
	DateKey         DayKey  `json:"date_key"`
	CompletedCount  int     `json:"completed_count"`
	TotalCount      int     `json:"total_count"`
	CompletionRatio float64 `json:"completion_ratio"`
}

// Summary is a done/total pair with its ratio in [0,1].
type Summary struct {
	DoneCount  int     `json:"done_count"`
	TotalCount int     `json:"total_count"`
	Ratio      float64 `json:"ratio"`
}

// CategorySummary is a Summary restricted to one category.
type CategorySummary struct {
	Category Category `json:"category"`
	Summary
}

// Overview bundles everything a dashboard needs for the current moment.
type Overview struct {
	Today      DayKey            `json:"today"`
	DayNumber  int               `json:"day_number"`
	WindowDays int               `json:"window_days"`
	Overall    Summary           `json:"overall"`
	Categories []CategorySummary `json:"categories"`
	Days       []ProgressRecord  `json:"days"`
}

// DayView is the read-only state of a single day.
type DayView struct {
	Day        DayKey   `json:"day"`
	DayNumber  int      `json:"day_number,omitempty"`
	Completed  []string `json:"completed"`
	Reflection string   `json:"reflection"`
}

// --- API request/response types ---

// AddTaskRequest is the body of POST /api/v1/tasks.
type AddTaskRequest struct {
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

// TaskListResponse wraps the registry contents.
type TaskListResponse struct {
	Tasks []Task `json:"tasks"`
	Total int    `json:"total"`
}

// ToggleResponse reports the state of a task after a toggle.
type ToggleResponse struct {
	TaskID   string `json:"task_id"`
	Day      DayKey `json:"day"`
	Complete bool   `json:"complete"`
}

// ReflectionRequest is the body of PUT /api/v1/days/today/reflection.
type ReflectionRequest struct {
	Text string `json:"text"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Today     DayKey `json:"today"`
	DayNumber int    `json:"day_number"`
	TaskCount int    `json:"task_count"`
}
