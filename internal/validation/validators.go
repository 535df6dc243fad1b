package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/remindful/todo-api/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("todo_status", validateTodoStatus); err != nil {
		panic(fmt.Sprintf("failed to register todo_status validator: %v", err))
	}
}

// validateTodoStatus validates that a string is a valid TodoStatus enum value
func validateTodoStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	switch models.TodoStatus(value) {
	case models.TodoStatusPending, models.TodoStatusDone, models.TodoStatusReminderDue:
		return true
	default:
		return false
	}
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateTodoStatus validates a TodoStatus string value
func ValidateTodoStatus(value string) error {
	switch models.TodoStatus(value) {
	case models.TodoStatusPending, models.TodoStatusDone, models.TodoStatusReminderDue:
		return nil
	default:
		return fmt.Errorf("invalid status: %s (must be 'pending', 'done', or 'reminder_due')", value)
	}
}
