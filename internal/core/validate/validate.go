// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// TaskText validates task text is non-empty after trimming whitespace.
func TaskText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("task cannot be empty")
	}
	return nil
}

// DueDate validates a due date is present and formatted YYYY-MM-DD.
func DueDate(date string) error {
	if date == "" {
		return fmt.Errorf("due date cannot be empty")
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("due date %q must be formatted YYYY-MM-DD", date)
	}
	return nil
}

// DueTime validates a due time is present and formatted HH:MM (24 hour).
func DueTime(clock string) error {
	if clock == "" {
		return fmt.Errorf("due time cannot be empty")
	}
	if _, err := time.Parse(timeLayout, clock); err != nil {
		return fmt.Errorf("due time %q must be formatted HH:MM", clock)
	}
	return nil
}

// Phone validates an optional phone number contains only digits.
func Phone(phone string) error {
	if phone == "" {
		return nil
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return fmt.Errorf("phone number must contain only digits")
		}
	}
	return nil
}

// Age validates an optional age is not negative.
func Age(age *int) error {
	if age != nil && *age < 0 {
		return fmt.Errorf("age cannot be negative")
	}
	return nil
}

// TaskFields validates the required task fields in form order:
// text, due date, due time.
func TaskFields(text, dueDate, dueTime string) error {
	return criterio.ValidateStruct(
		criterio.Run("text", text, TaskText),
		criterio.Run("due_date", dueDate, DueDate),
		criterio.Run("due_time", dueTime, DueTime),
	)
}

// AgeField returns a criterio field error for an invalid age.
func AgeField(field string, age *int) error {
	if err := Age(age); err != nil {
		return criterio.NewFieldErrors(field, err)
	}
	return nil
}
