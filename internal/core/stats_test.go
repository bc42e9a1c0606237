package core

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputePeriodStats(t *testing.T) {
	income := []IncomeRecord{
		{Amount: Money{Cents: 5000000}, Date: date(2025, time.March, 5)},
		{Amount: Money{Cents: 999900}, Date: date(2025, time.February, 5)}, // outside period
	}
	expenses := []ExpenseRecord{
		{Amount: Money{Cents: 2000000}, Date: date(2025, time.March, 12)},
		{Amount: Money{Cents: 123400}, Date: date(2024, time.March, 12)}, // same month, wrong year
	}

	stats := ComputePeriodStats(income, expenses, 2025, time.March)
	if stats.Income.Cents != 5000000 {
		t.Fatalf("income = %d, want 5000000", stats.Income.Cents)
	}
	if stats.Expenses.Cents != 2000000 {
		t.Fatalf("expenses = %d, want 2000000", stats.Expenses.Cents)
	}
	if stats.Balance.Cents != 3000000 {
		t.Fatalf("balance = %d, want 3000000", stats.Balance.Cents)
	}
	if stats.Savings.Cents != 3000000 {
		t.Fatalf("savings = %d, want 3000000", stats.Savings.Cents)
	}
	if stats.SavingsRate != 60 {
		t.Fatalf("savingsRate = %d, want 60", stats.SavingsRate)
	}
}

func TestComputePeriodStatsNegativeBalance(t *testing.T) {
	income := []IncomeRecord{{Amount: Money{Cents: 1000000}, Date: date(2025, time.June, 1)}}
	expenses := []ExpenseRecord{{Amount: Money{Cents: 1200000}, Date: date(2025, time.June, 2)}}

	stats := ComputePeriodStats(income, expenses, 2025, time.June)
	if stats.Balance.Cents != -200000 {
		t.Fatalf("balance = %d, want -200000", stats.Balance.Cents)
	}
	if stats.Savings.Cents != 0 {
		t.Fatalf("savings = %d, want 0", stats.Savings.Cents)
	}
	if stats.SavingsRate != 0 {
		t.Fatalf("savingsRate = %d, want 0", stats.SavingsRate)
	}
}

func TestComputePeriodStatsZeroIncome(t *testing.T) {
	expenses := []ExpenseRecord{{Amount: Money{Cents: 5000}, Date: date(2025, time.June, 2)}}
	stats := ComputePeriodStats(nil, expenses, 2025, time.June)
	if stats.SavingsRate != 0 {
		t.Fatalf("savingsRate = %d, want 0 for zero income", stats.SavingsRate)
	}
}

func TestSavingsRateRounding(t *testing.T) {
	cases := []struct {
		savings, income int64
		want            int
	}{
		{900000, 1000000, 90},
		{90500, 100000, 91}, // 90.5 rounds half-up
		{90400, 100000, 90},
		{0, 100000, 0},
		{100000, 100000, 100},
		{1, 300, 0},  // 0.33...
		{2, 300, 1},  // 0.66... rounds up
	}
	for i, tc := range cases {
		if got := savingsRate(tc.savings, tc.income); got != tc.want {
			t.Fatalf("case %d: savingsRate(%d, %d) = %d, want %d", i, tc.savings, tc.income, got, tc.want)
		}
	}
}

func TestSavingsRateBounds(t *testing.T) {
	for savings := int64(0); savings <= 1000; savings += 7 {
		rate := savingsRate(savings, 1000)
		if rate < 0 || rate > 100 {
			t.Fatalf("savingsRate(%d, 1000) = %d out of [0,100]", savings, rate)
		}
	}
}

func TestInPeriodTimezoneNormalization(t *testing.T) {
	// 2025-03-31T23:00:00-03:00 is April 1st in UTC
	loc := time.FixedZone("UTC-3", -3*60*60)
	d := time.Date(2025, time.March, 31, 23, 0, 0, 0, loc)
	if InPeriod(d, 2025, time.March) {
		t.Fatalf("expected record to fall into April after UTC normalization")
	}
	if !InPeriod(d, 2025, time.April) {
		t.Fatalf("expected record in April")
	}
}
