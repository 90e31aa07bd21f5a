package model

import "time"

// Priority ranks an item for in-bucket ordering. Unset sorts like low.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Weight returns the sort weight used for priority-descending ordering.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// FieldType constrains CustomField values.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldCheckbox FieldType = "checkbox"
)

// SemanticRole is an explicit tag for fields the scheduling engine cares about.
// Untagged fields fall back to label-keyword matching for legacy data.
type SemanticRole string

const (
	RoleNone          SemanticRole = ""
	RoleBalance       SemanticRole = "balance"
	RolePayment       SemanticRole = "payment"
	RoleInterestRate  SemanticRole = "interestRate"
	RoleContractStart SemanticRole = "contractStart"
)

// CustomField is a user-defined attribute attached to an item.
type CustomField struct {
	ID    string       `json:"id"`
	Label string       `json:"label"`
	Type  FieldType    `json:"type"`
	Value interface{}  `json:"value"`
	Role  SemanticRole `json:"role,omitempty"`
}

// ReminderItem is a user task or obligation.
type ReminderItem struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Category    string        `json:"category"`
	Tags        []string      `json:"tags"`
	Fields      []CustomField `json:"fields"`
	DueDate     *Date         `json:"dueDate"`
	IsCompleted bool          `json:"isCompleted"`
	Recurrence  string        `json:"recurrence,omitempty"`
	Priority    Priority      `json:"priority,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Owner       string        `json:"owner,omitempty"`
}

// User is a login account. PasswordHash is a bcrypt hash and never serialized.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	APIKey       *string   `json:"apiKey,omitempty"`
	CreationTime time.Time `json:"creationTime"`
}

// Preferences holds per-user presentation state, loaded at login and
// written on every change.
type Preferences struct {
	Username  string `json:"username"`
	Theme     string `json:"theme"`
	Locale    string `json:"locale"`
	FontScale int    `json:"fontScale"`
}

// DefaultPreferences returns the values assigned to a freshly provisioned user.
func DefaultPreferences(username string) Preferences {
	return Preferences{Username: username, Theme: "light", Locale: "th", FontScale: 100}
}

// ChatMessage is one turn of an assistant conversation.
type ChatMessage struct {
	Role      string `json:"role"` // "user" or "model"
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}
