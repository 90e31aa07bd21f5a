// Package schedule implements the recurrence and scheduling engine: due-date
// bucketing for the list view, next-occurrence generation on completion,
// balance roll-forward for repeating financial obligations, and the loan
// projection feeding the detail view. Everything here is a pure function over
// in-memory items; callers supply "today".
package schedule

import (
	"sort"

	"github.com/remindly/remindly-server/internal/model"
)

// Buckets partitions items into the seven disjoint display groups.
type Buckets struct {
	Overdue   []model.ReminderItem `json:"overdue"`
	Today     []model.ReminderItem `json:"today"`
	Tomorrow  []model.ReminderItem `json:"tomorrow"`
	ThisWeek  []model.ReminderItem `json:"thisWeek"`
	Later     []model.ReminderItem `json:"later"`
	NoDate    []model.ReminderItem `json:"noDate"`
	Completed []model.ReminderItem `json:"completed"`
}

// Bucketize partitions items by due date relative to today. Completion wins
// over any date; undated pending items land in NoDate; "this week" is a fixed
// rolling window of the next 7 days, excluding today and tomorrow. Each
// bucket is ordered by priority descending, then due date ascending, with
// dated items ahead of undated ones; ties keep input order.
func Bucketize(items []model.ReminderItem, today model.Date) Buckets {
	tomorrow := today.AddDays(1)
	weekEnd := today.AddDays(7)

	var b Buckets
	for _, item := range items {
		switch {
		case item.IsCompleted:
			b.Completed = append(b.Completed, item)
		case item.DueDate == nil || item.DueDate.IsZero():
			// A zero date is an empty dueDate that skipped normalization.
			b.NoDate = append(b.NoDate, item)
		case item.DueDate.Before(today):
			b.Overdue = append(b.Overdue, item)
		case item.DueDate.Equal(today):
			b.Today = append(b.Today, item)
		case item.DueDate.Equal(tomorrow):
			b.Tomorrow = append(b.Tomorrow, item)
		case !item.DueDate.After(weekEnd):
			b.ThisWeek = append(b.ThisWeek, item)
		default:
			b.Later = append(b.Later, item)
		}
	}

	for _, group := range []*[]model.ReminderItem{
		&b.Overdue, &b.Today, &b.Tomorrow, &b.ThisWeek, &b.Later, &b.NoDate, &b.Completed,
	} {
		SortForDisplay(*group)
	}
	return b
}

// SortForDisplay orders items in place: priority descending, then due date
// ascending, dated before undated. The sort is stable.
func SortForDisplay(items []model.ReminderItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, z := items[i], items[j]
		if wa, wz := a.Priority.Weight(), z.Priority.Weight(); wa != wz {
			return wa > wz
		}
		switch {
		case a.DueDate != nil && z.DueDate != nil:
			return a.DueDate.Before(*z.DueDate)
		case a.DueDate != nil:
			return true
		default:
			return false
		}
	})
}

// PendingCount reports how many items across date buckets are not completed.
func (b Buckets) PendingCount() int {
	return len(b.Overdue) + len(b.Today) + len(b.Tomorrow) + len(b.ThisWeek) + len(b.Later) + len(b.NoDate)
}
