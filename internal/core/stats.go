package core

import "time"

// PeriodStats is the monthly aggregate derived from a user's records.
// It is recomputed on every request and never persisted.
type PeriodStats struct {
	Year        int
	Month       time.Month
	Income      Money
	Expenses    Money
	Balance     Money // signed: income - expenses
	Savings     Money // max(balance, 0)
	SavingsRate int   // integer percent in [0,100]; 0 when income is 0
}

// ComputePeriodStats filters both record sets to the given calendar
// year+month, sums amounts in exact cents and derives balance, savings and
// savings rate. The rate uses half-up rounding to the nearest integer;
// zero income yields rate 0, never a division error.
func ComputePeriodStats(income []IncomeRecord, expenses []ExpenseRecord, year int, month time.Month) PeriodStats {
	stats := PeriodStats{Year: year, Month: month}

	for _, r := range income {
		if InPeriod(r.Date, year, month) {
			stats.Income.Cents += r.Amount.Cents
		}
	}
	for _, r := range expenses {
		if InPeriod(r.Date, year, month) {
			stats.Expenses.Cents += r.Amount.Cents
		}
	}

	stats.Balance.Cents = stats.Income.Cents - stats.Expenses.Cents
	if stats.Balance.Cents > 0 {
		stats.Savings.Cents = stats.Balance.Cents
	}
	stats.SavingsRate = savingsRate(stats.Savings.Cents, stats.Income.Cents)
	return stats
}

// savingsRate computes round-half-up(savings/income*100) in pure integer
// arithmetic. savings is never greater than income, so the result stays
// within [0,100].
func savingsRate(savings, income int64) int {
	if income <= 0 {
		return 0
	}
	return int((savings*200 + income) / (2 * income))
}
