package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hyperengineering/lantern/internal/types"
)

// Field limits for user-supplied text.
const (
	MaxLabelLength      = 120
	MaxIconLength       = 8
	MaxReflectionLength = 10000
	MaxCityLength       = 100
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Collector accumulates validation errors without failing on first.
type Collector struct {
	errors []ValidationError
}

// Add appends a validation error to the collector if non-nil.
func (c *Collector) Add(err *ValidationError) {
	if err != nil {
		c.errors = append(c.errors, *err)
	}
}

// HasErrors returns true if the collector has accumulated any errors.
func (c *Collector) HasErrors() bool {
	return len(c.errors) > 0
}

// Errors returns all accumulated validation errors.
func (c *Collector) Errors() []ValidationError {
	return c.errors
}

// ValidateUTF8 returns an error if the value is not valid UTF-8.
func ValidateUTF8(field, value string) *ValidationError {
	if !utf8.ValidString(value) {
		return &ValidationError{
			Field:   field,
			Message: "must be valid UTF-8",
		}
	}
	return nil
}

// ValidateNoNullBytes returns an error if the value contains null bytes.
func ValidateNoNullBytes(field, value string) *ValidationError {
	if strings.Contains(value, "\x00") {
		return &ValidationError{
			Field:   field,
			Message: "must not contain null bytes",
		}
	}
	return nil
}

// ValidateMaxLength returns an error if the value exceeds max runes.
func ValidateMaxLength(field, value string, max int) *ValidationError {
	if utf8.RuneCountInString(value) > max {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("exceeds maximum length of %d characters", max),
		}
	}
	return nil
}

// ValidateRequired returns an error if the value is empty or whitespace-only.
func ValidateRequired(field, value string) *ValidationError {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   field,
			Message: "is required",
		}
	}
	return nil
}

// ValidateDayKey returns an error if the value is not a YYYY-MM-DD date.
func ValidateDayKey(field, value string) *ValidationError {
	if _, err := types.ParseDayKey(value); err != nil {
		return &ValidationError{
			Field:   field,
			Message: "must be a calendar date in YYYY-MM-DD form",
		}
	}
	return nil
}

// ValidateMinInt returns an error if the value is below min.
func ValidateMinInt(field string, value, min int) *ValidationError {
	if value < min {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at least %d", min),
		}
	}
	return nil
}

// ValidateText runs the encoding and length checks shared by every free-text
// field.
func ValidateText(c *Collector, field, value string, max int) {
	c.Add(ValidateUTF8(field, value))
	c.Add(ValidateNoNullBytes(field, value))
	c.Add(ValidateMaxLength(field, value, max))
}

// ValidateAddTask checks a custom task creation request.
func ValidateAddTask(req types.AddTaskRequest) []ValidationError {
	var c Collector
	c.Add(ValidateRequired("label", req.Label))
	ValidateText(&c, "label", strings.TrimSpace(req.Label), MaxLabelLength)
	ValidateText(&c, "icon", strings.TrimSpace(req.Icon), MaxIconLength)
	return c.Errors()
}

// ValidateReflection checks a reflection write. Empty text is allowed and
// clears the entry.
func ValidateReflection(req types.ReflectionRequest) []ValidationError {
	var c Collector
	ValidateText(&c, "text", req.Text, MaxReflectionLength)
	return c.Errors()
}
