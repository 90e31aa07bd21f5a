package validate

import (
	"fmt"
	"regexp"

	"github.com/remindly/remindly-server/internal/model"
)

// Username must be lowercase letters, digits, underscore, 1-30 chars.
var usernameRx = regexp.MustCompile(`^[a-z0-9_]{1,30}$`)

func Username(v string) error {
	if v == "" {
		return fmt.Errorf("username is required")
	}
	if !usernameRx.MatchString(v) {
		return fmt.Errorf("username must be 1-30 lowercase letters, digits or underscores")
	}
	return nil
}

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// Priority accepts the three levels or empty (defaulted by the service).
func Priority(v model.Priority) error {
	switch v {
	case "", model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
		return nil
	}
	return fmt.Errorf("priority must be low, medium or high")
}

// FieldType accepts the four custom field types.
func FieldType(v model.FieldType) error {
	switch v {
	case model.FieldText, model.FieldNumber, model.FieldDate, model.FieldCheckbox:
		return nil
	}
	return fmt.Errorf("field type must be text, number, date or checkbox")
}

// Recurrence accepts the canonical encodings, the legacy underscore form
// (normalized downstream) and empty.
func Recurrence(v string) error {
	normalized := model.NormalizeRecurrence(v)
	if normalized == model.RecurrenceNone {
		return nil
	}
	if _, ok := model.ParseRecurrence(normalized); !ok {
		return fmt.Errorf("unrecognized recurrence %q", v)
	}
	return nil
}

// Item checks the fields a handler must reject before the service runs.
func Item(item *model.ReminderItem) error {
	if err := NonEmpty("title", item.Title); err != nil {
		return err
	}
	if err := Priority(item.Priority); err != nil {
		return err
	}
	if err := Recurrence(item.Recurrence); err != nil {
		return err
	}
	for _, f := range item.Fields {
		if err := FieldType(f.Type); err != nil {
			return fmt.Errorf("field %q: %w", f.Label, err)
		}
	}
	return nil
}
