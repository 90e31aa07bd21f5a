package model

import (
	"strconv"
	"strings"
)

// Recurrence encodings. The hyphen interval form ("monthly-3") is canonical;
// the legacy underscore form ("monthly_3") appeared in earlier saved data and
// is rewritten at every load boundary so nothing downstream parses both.
const (
	RecurrenceNone    = "none"
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
	RecurrenceYearly  = "yearly"
)

// RecurrenceUnit is the period of a repeat rule.
type RecurrenceUnit string

const (
	UnitDay   RecurrenceUnit = "day"
	UnitWeek  RecurrenceUnit = "week"
	UnitMonth RecurrenceUnit = "month"
	UnitYear  RecurrenceUnit = "year"
)

// RecurrenceRule is a decoded repeat instruction.
type RecurrenceRule struct {
	Unit     RecurrenceUnit
	Interval int
}

// NormalizeRecurrence maps an encoding to its canonical form. Empty input
// means "none"; the legacy underscore interval separator becomes a hyphen.
// Unrecognized strings pass through unchanged so callers can surface them.
func NormalizeRecurrence(rule string) string {
	rule = strings.ToLower(strings.TrimSpace(rule))
	if rule == "" {
		return RecurrenceNone
	}
	if i := strings.IndexByte(rule, '_'); i >= 0 {
		rule = rule[:i] + "-" + rule[i+1:]
	}
	return rule
}

// ParseRecurrence decodes a canonical recurrence string. The second return
// is false for "none" and for anything unrecognized; callers must treat
// both as "do not advance".
func ParseRecurrence(rule string) (RecurrenceRule, bool) {
	switch NormalizeRecurrence(rule) {
	case RecurrenceNone:
		return RecurrenceRule{}, false
	case RecurrenceDaily:
		return RecurrenceRule{Unit: UnitDay, Interval: 1}, true
	case RecurrenceWeekly:
		return RecurrenceRule{Unit: UnitWeek, Interval: 1}, true
	case RecurrenceMonthly:
		return RecurrenceRule{Unit: UnitMonth, Interval: 1}, true
	case RecurrenceYearly:
		return RecurrenceRule{Unit: UnitYear, Interval: 1}, true
	}
	// Explicit interval form: "monthly-N".
	norm := NormalizeRecurrence(rule)
	if n, ok := strings.CutPrefix(norm, RecurrenceMonthly+"-"); ok {
		iv, err := strconv.Atoi(n)
		if err != nil || iv < 1 {
			return RecurrenceRule{}, false
		}
		return RecurrenceRule{Unit: UnitMonth, Interval: iv}, true
	}
	return RecurrenceRule{}, false
}
