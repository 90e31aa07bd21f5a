package schedule

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/remindly/remindly-server/internal/model"
)

// Label keywords used to locate semantically meaningful fields on legacy
// items that carry no explicit role tag. Matching is case-sensitive
// substring search, exactly as the saved data expects.
var (
	balanceKeywords       = []string{"ยอดหนี้", "ยอดคงเหลือ", "Balance"}
	paymentKeywords       = []string{"ค่างวด", "ยอดชำระ", "Payment"}
	interestKeywords      = []string{"ดอกเบี้ย", "Interest"}
	contractStartKeywords = []string{"เริ่มสัญญา", "Start Date"}
)

var roleKeywords = map[model.SemanticRole][]string{
	model.RoleBalance:       balanceKeywords,
	model.RolePayment:       paymentKeywords,
	model.RoleInterestRate:  interestKeywords,
	model.RoleContractStart: contractStartKeywords,
}

// FindField locates the first field carrying the given role. Explicit role
// tags take precedence; untagged fields are matched by label keyword. The
// returned pointer aliases the slice so callers may rewrite the value.
func FindField(fields []model.CustomField, role model.SemanticRole) *model.CustomField {
	for i := range fields {
		if fields[i].Role == role {
			return &fields[i]
		}
	}
	for i := range fields {
		if fields[i].Role != model.RoleNone {
			continue
		}
		for _, kw := range roleKeywords[role] {
			if strings.Contains(fields[i].Label, kw) {
				return &fields[i]
			}
		}
	}
	return nil
}

// Advance moves a due date forward by exactly one recurrence period using
// calendar arithmetic. An unrecognized or "none" rule returns the input
// unchanged with advanced=false; callers must treat that as "do not advance".
func Advance(d model.Date, rule string) (next model.Date, advanced bool) {
	r, ok := model.ParseRecurrence(rule)
	if !ok {
		return d, false
	}
	switch r.Unit {
	case model.UnitDay:
		return d.AddDays(r.Interval), true
	case model.UnitWeek:
		return d.AddDays(7 * r.Interval), true
	case model.UnitMonth:
		return d.Add(0, r.Interval, 0), true
	case model.UnitYear:
		return d.Add(r.Interval, 0, 0), true
	}
	return d, false
}

// CloneFields deep-copies fields, minting a fresh id for each.
func CloneFields(fields []model.CustomField) []model.CustomField {
	out := make([]model.CustomField, len(fields))
	for i, f := range fields {
		f.ID = uuid.New().String()
		out[i] = f
	}
	return out
}

// RollCompleted marks a recurring item complete and produces its single
// successor. The successor gets a fresh id, cloned fields with fresh field
// ids, and the due date advanced one period. When both a payment and a
// balance field resolve, the balance is carried forward minus the payment,
// floored at zero. Non-recurring or undated items produce no successor.
func RollCompleted(item model.ReminderItem, now time.Time) (completed model.ReminderItem, successor *model.ReminderItem) {
	completed = item
	completed.IsCompleted = true
	completed.UpdatedAt = now

	if item.DueDate == nil {
		return completed, nil
	}
	next, ok := Advance(*item.DueDate, item.Recurrence)
	if !ok {
		return completed, nil
	}

	fields := CloneFields(item.Fields)
	rollBalanceForward(fields)

	succ := item
	succ.ID = uuid.New().String()
	succ.Fields = fields
	succ.Tags = append([]string(nil), item.Tags...)
	succ.DueDate = &next
	succ.IsCompleted = false
	succ.CreatedAt = now
	succ.UpdatedAt = now
	return completed, &succ
}

// rollBalanceForward deducts one payment from the remaining balance in place.
// The payment field itself carries over unchanged.
func rollBalanceForward(fields []model.CustomField) {
	payField := FindField(fields, model.RolePayment)
	balField := FindField(fields, model.RoleBalance)
	if payField == nil || balField == nil {
		return
	}
	payment, ok := payField.Number()
	if !ok {
		return
	}
	balance, ok := balField.Number()
	if !ok {
		return
	}
	remaining := balance - payment
	if remaining < 0 {
		remaining = 0
	}
	balField.Value = remaining
}

// Duplicate copies an item for re-use: fresh item and field ids, pending
// status, fresh timestamps, all display attributes carried over.
func Duplicate(item model.ReminderItem, now time.Time) model.ReminderItem {
	dup := item
	dup.ID = uuid.New().String()
	dup.Fields = CloneFields(item.Fields)
	dup.Tags = append([]string(nil), item.Tags...)
	dup.IsCompleted = false
	dup.CreatedAt = now
	dup.UpdatedAt = now
	return dup
}

// SnoozeMode selects how far a snoozed item is pushed out.
type SnoozeMode string

const (
	SnoozeTomorrow SnoozeMode = "tomorrow"
	SnoozeNextWeek SnoozeMode = "nextWeek"
)

// Snooze reschedules a pending item relative to today: +1 day or +7 days.
// Unknown modes leave the item untouched.
func Snooze(item model.ReminderItem, mode SnoozeMode, today model.Date, now time.Time) (model.ReminderItem, bool) {
	var due model.Date
	switch mode {
	case SnoozeTomorrow:
		due = today.AddDays(1)
	case SnoozeNextWeek:
		due = today.AddDays(7)
	default:
		return item, false
	}
	item.DueDate = &due
	item.UpdatedAt = now
	return item, true
}
