package schedule

import (
	"github.com/remindly/remindly-server/internal/model"
)

// retentionYears is the fixed horizon after the contract start at which the
// user should renegotiate or refinance the loan.
const retentionYears = 3

// LoanInsight is a single-period interest/principal split plus progress
// toward the retention date. It is recomputed from the current balance, rate
// and payment on every request; it is not an amortization schedule.
type LoanInsight struct {
	Balance          float64     `json:"balance"`
	Rate             float64     `json:"rate"`
	Payment          float64     `json:"payment"`
	MonthlyInterest  float64     `json:"monthlyInterest"`
	MonthlyPrincipal float64     `json:"monthlyPrincipal"`
	RetentionDate    *model.Date `json:"retentionDate,omitempty"`
	DaysToRetention  *int        `json:"daysToRetention,omitempty"`
	Progress         float64     `json:"progress"`
}

// LoanProjection computes loan figures for an item whose fields expose a
// remaining balance, an annual interest rate percentage and a monthly
// payment (by role tag or label keyword). Returns nil when the item carries
// neither a computable split nor a contract start date.
func LoanProjection(item model.ReminderItem, today model.Date) *LoanInsight {
	var balance, rate, payment float64
	if f := FindField(item.Fields, model.RoleBalance); f != nil {
		balance, _ = f.Number()
	}
	if f := FindField(item.Fields, model.RoleInterestRate); f != nil {
		rate, _ = f.Number()
	}
	if f := FindField(item.Fields, model.RolePayment); f != nil {
		payment, _ = f.Number()
	}

	out := LoanInsight{Balance: balance, Rate: rate, Payment: payment}

	if balance > 0 && rate > 0 {
		out.MonthlyInterest = balance * (rate / 100) / 12
		if payment > out.MonthlyInterest {
			out.MonthlyPrincipal = payment - out.MonthlyInterest
		}
	}

	if f := FindField(item.Fields, model.RoleContractStart); f != nil {
		if start, err := model.ParseDate(f.Text()); err == nil {
			target := start.Add(retentionYears, 0, 0)
			days := today.DaysUntil(target)
			out.RetentionDate = &target
			out.DaysToRetention = &days

			total := start.DaysUntil(target)
			elapsed := start.DaysUntil(today)
			if total > 0 {
				out.Progress = float64(elapsed) / float64(total) * 100
				if out.Progress < 0 {
					out.Progress = 0
				}
				if out.Progress > 100 {
					out.Progress = 100
				}
			}
		}
	}

	if out.RetentionDate == nil && !(balance > 0 && rate > 0 && payment > 0) {
		return nil
	}
	return &out
}
