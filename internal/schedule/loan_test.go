package schedule

import (
	"math"
	"testing"
	"time"

	"github.com/remindly/remindly-server/internal/model"
)

func mortgageItem() model.ReminderItem {
	return model.ReminderItem{
		ID:       "home-loan",
		Title:    "Mortgage",
		Category: "Finance",
		Fields: []model.CustomField{
			{ID: "f1", Label: "ยอดหนี้คงเหลือ", Type: model.FieldNumber, Value: 2500000.0},
			{ID: "f2", Label: "ดอกเบี้ย (%)", Type: model.FieldNumber, Value: 3.25},
			{ID: "f3", Label: "ค่างวด", Type: model.FieldNumber, Value: 14500.0},
			{ID: "f4", Label: "เริ่มสัญญา", Type: model.FieldDate, Value: "2023-06-01"},
		},
	}
}

func approx(t *testing.T, got, want, tol float64, what string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %v, want ≈ %v", what, got, want)
	}
}

func TestLoanProjectionSplit(t *testing.T) {
	today := model.NewDate(2024, time.June, 1)
	ins := LoanProjection(mortgageItem(), today)
	if ins == nil {
		t.Fatal("expected a projection")
	}
	approx(t, ins.MonthlyInterest, 6770.83, 0.01, "monthlyInterest")
	approx(t, ins.MonthlyPrincipal, 7729.17, 0.01, "monthlyPrincipal")
	if ins.MonthlyInterest < 0 || ins.MonthlyPrincipal < 0 {
		t.Fatal("split components must be non-negative")
	}
}

func TestLoanProjectionPrincipalFloorsAtZero(t *testing.T) {
	item := mortgageItem()
	item.Fields[2].Value = 5000.0 // payment below the interest accrual
	ins := LoanProjection(item, model.NewDate(2024, time.June, 1))
	if ins == nil {
		t.Fatal("expected a projection")
	}
	if ins.MonthlyPrincipal != 0 {
		t.Fatalf("principal = %v, want 0", ins.MonthlyPrincipal)
	}
}

func TestLoanProjectionRetention(t *testing.T) {
	// Contract started 2023-06-01; the 3-year retention target is 2026-06-01.
	today := model.NewDate(2024, time.June, 1)
	ins := LoanProjection(mortgageItem(), today)
	if ins == nil || ins.RetentionDate == nil || ins.DaysToRetention == nil {
		t.Fatal("expected retention figures")
	}
	if got := ins.RetentionDate.String(); got != "2026-06-01" {
		t.Fatalf("retention date %s, want 2026-06-01", got)
	}
	if *ins.DaysToRetention <= 0 {
		t.Fatalf("daysToRetention = %d, want positive while before target", *ins.DaysToRetention)
	}
	if ins.Progress <= 0 || ins.Progress >= 100 {
		t.Fatalf("progress = %v, want within (0,100) mid-contract", ins.Progress)
	}

	// One year past the target the countdown goes negative and progress caps.
	late := LoanProjection(mortgageItem(), model.NewDate(2027, time.June, 1))
	if *late.DaysToRetention >= 0 {
		t.Fatalf("daysToRetention = %d, want negative once overdue", *late.DaysToRetention)
	}
	if late.Progress != 100 {
		t.Fatalf("progress = %v, want capped at 100", late.Progress)
	}
}

func TestLoanProjectionRetentionOnly(t *testing.T) {
	item := model.ReminderItem{Fields: []model.CustomField{
		{ID: "f1", Label: "Start Date", Type: model.FieldDate, Value: "2024-01-01"},
	}}
	ins := LoanProjection(item, model.NewDate(2024, time.June, 1))
	if ins == nil || ins.RetentionDate == nil {
		t.Fatal("a contract start alone should still project the retention date")
	}
	if ins.MonthlyInterest != 0 {
		t.Fatalf("no balance/rate: interest = %v, want 0", ins.MonthlyInterest)
	}
}

func TestLoanProjectionNoData(t *testing.T) {
	item := model.ReminderItem{Fields: []model.CustomField{
		{ID: "f1", Label: "Notes", Type: model.FieldText, Value: "call the bank"},
	}}
	if ins := LoanProjection(item, model.NewDate(2024, time.June, 1)); ins != nil {
		t.Fatalf("expected nil, got %+v", ins)
	}
}
