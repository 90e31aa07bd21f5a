package model

import "testing"

func TestNormalizeRecurrence(t *testing.T) {
	cases := map[string]string{
		"":           "none",
		"none":       "none",
		"Daily":      "daily",
		"monthly_3":  "monthly-3",
		"monthly-3":  "monthly-3",
		" weekly ":   "weekly",
		"fortnight":  "fortnight", // unrecognized passes through for callers to flag
		"MONTHLY_12": "monthly-12",
	}
	for in, want := range cases {
		if got := NormalizeRecurrence(in); got != want {
			t.Errorf("NormalizeRecurrence(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseRecurrence(t *testing.T) {
	tests := []struct {
		in       string
		ok       bool
		unit     RecurrenceUnit
		interval int
	}{
		{"none", false, "", 0},
		{"", false, "", 0},
		{"daily", true, UnitDay, 1},
		{"weekly", true, UnitWeek, 1},
		{"monthly", true, UnitMonth, 1},
		{"yearly", true, UnitYear, 1},
		{"monthly-3", true, UnitMonth, 3},
		{"monthly_6", true, UnitMonth, 6}, // legacy form normalized before decode
		{"monthly-0", false, "", 0},
		{"monthly-x", false, "", 0},
		{"hourly", false, "", 0},
	}
	for _, tc := range tests {
		rule, ok := ParseRecurrence(tc.in)
		if ok != tc.ok {
			t.Errorf("ParseRecurrence(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && (rule.Unit != tc.unit || rule.Interval != tc.interval) {
			t.Errorf("ParseRecurrence(%q) = %+v, want unit=%s interval=%d", tc.in, rule, tc.unit, tc.interval)
		}
	}
}

func TestCustomFieldNumber(t *testing.T) {
	if n, ok := (CustomField{Value: 450000.0}).Number(); !ok || n != 450000 {
		t.Fatalf("float64 value: got %v %v", n, ok)
	}
	if n, ok := (CustomField{Value: "9500"}).Number(); !ok || n != 9500 {
		t.Fatalf("string value: got %v %v", n, ok)
	}
	if _, ok := (CustomField{Value: "n/a"}).Number(); ok {
		t.Fatal("non-numeric string should not parse")
	}
	if _, ok := (CustomField{Value: true}).Number(); ok {
		t.Fatal("checkbox value should not parse as number")
	}
}
