package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDateLocalCalendarDay(t *testing.T) {
	d, err := ParseDate("2024-05-01")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	want := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.Local)
	if !d.Time().Equal(want) {
		t.Fatalf("got %v, want local midnight %v", d.Time(), want)
	}
}

func TestParseDateAcceptsTimestampPrefix(t *testing.T) {
	d, err := ParseDate("2024-05-01T17:30:00.000Z")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.String() != "2024-05-01" {
		t.Fatalf("got %s, want 2024-05-01", d)
	}
}

func TestDateAddNormalizesMonthOverflow(t *testing.T) {
	d := NewDate(2024, time.January, 31)
	// AddDate pushes Jan 31 + 1 month through Feb 31 into March.
	if got := d.Add(0, 1, 0).String(); got != "2024-03-02" {
		t.Fatalf("got %s, want 2024-03-02", got)
	}
	if got := NewDate(2023, time.January, 31).Add(0, 1, 0).String(); got != "2023-03-03" {
		t.Fatalf("non-leap year: got %s, want 2023-03-03", got)
	}
}

func TestDateDaysUntil(t *testing.T) {
	a := NewDate(2024, time.March, 1)
	b := NewDate(2024, time.March, 8)
	if got := a.DaysUntil(b); got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
	if got := b.DaysUntil(a); got != -7 {
		t.Fatalf("got %d, want -7", got)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.December, 31)
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `"2024-12-31"` {
		t.Fatalf("got %s", raw)
	}
	var back Date
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Fatalf("round trip mismatch: %v vs %v", back, d)
	}
}

func TestDateUnmarshalNull(t *testing.T) {
	var item ReminderItem
	if err := json.Unmarshal([]byte(`{"id":"x","dueDate":null}`), &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if item.DueDate != nil {
		t.Fatalf("expected nil dueDate, got %v", item.DueDate)
	}
}

func TestNormalizeDueDateDropsEmptyString(t *testing.T) {
	var item ReminderItem
	if err := json.Unmarshal([]byte(`{"id":"x","dueDate":""}`), &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if item.DueDate == nil || !item.DueDate.IsZero() {
		t.Fatalf("precondition: empty string should decode to a zero Date pointer, got %v", item.DueDate)
	}
	if got := NormalizeDueDate(item.DueDate); got != nil {
		t.Fatalf("zero date not dropped: %v", got)
	}

	kept := NewDate(2024, time.June, 10)
	if got := NormalizeDueDate(&kept); got == nil || !got.Equal(kept) {
		t.Fatalf("real date mangled: %v", got)
	}
	if got := NormalizeDueDate(nil); got != nil {
		t.Fatalf("nil in, nil out: got %v", got)
	}
}
