package services

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/ledger/memory"
	"fintrack/internal/log"
)

func testLogger() *log.Logger {
	return log.New(log.DefaultConfig())
}

func fixedClock(year int, month time.Month) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, 15, 12, 0, 0, 0, time.UTC)
	}
}

func seedUser(t *testing.T, store *memory.Store) string {
	t.Helper()
	user := &core.User{Email: "dash@example.com"}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user.ID
}

func TestSummaryCurrentMonthOnly(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	userID := seedUser(t, store)

	march := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	addIncome := func(date time.Time, cents int64) {
		err := store.AppendIncome(ctx, userID, &core.IncomeRecord{
			SourceType: core.SourceSalary, Amount: core.Money{Cents: cents},
			Frequency: core.FrequencyMonthly, Date: date,
		})
		if err != nil {
			t.Fatalf("AppendIncome: %v", err)
		}
	}
	addExpense := func(date time.Time, cents int64, category string) {
		err := store.AppendExpense(ctx, userID, &core.ExpenseRecord{
			Amount: core.Money{Cents: cents}, Category: category, Date: date, IsNecessary: true,
		})
		if err != nil {
			t.Fatalf("AppendExpense: %v", err)
		}
	}

	addIncome(march, 500000)
	addIncome(feb, 999999) // outside the period, must not count
	addExpense(march, 200000, "Housing")
	addExpense(feb, 888888, "Housing")

	svc := NewDashboardService(store, nil, testLogger(), fixedClock(2025, time.March))
	view, err := svc.Summary(ctx, userID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	if view.Stats.Income.Cents != 500000 {
		t.Errorf("Income = %d cents, want 500000", view.Stats.Income.Cents)
	}
	if view.Stats.Expenses.Cents != 200000 {
		t.Errorf("Expenses = %d cents, want 200000", view.Stats.Expenses.Cents)
	}
	if view.Stats.Balance.Cents != 300000 || view.Stats.Savings.Cents != 300000 {
		t.Errorf("Balance/Savings = %d/%d, want 300000/300000",
			view.Stats.Balance.Cents, view.Stats.Savings.Cents)
	}
	if view.Stats.SavingsRate != 60 {
		t.Errorf("SavingsRate = %d, want 60", view.Stats.SavingsRate)
	}
	if len(view.Suggestions) == 0 {
		t.Error("Suggestions is empty")
	}
}

func TestSummaryRecentExpenses(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	userID := seedUser(t, store)

	// Five expenses over two months; recent list spans all records, newest
	// first, capped at three.
	dates := []time.Time{
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), // same day, later insert
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	var ids []string
	for i, d := range dates {
		rec := &core.ExpenseRecord{
			Amount: core.Money{Cents: int64(100 * (i + 1))}, Category: "Misc",
			Date: d, IsNecessary: true,
		}
		if err := store.AppendExpense(ctx, userID, rec); err != nil {
			t.Fatalf("AppendExpense: %v", err)
		}
		ids = append(ids, rec.ID)
	}

	svc := NewDashboardService(store, nil, testLogger(), fixedClock(2025, time.March))
	view, err := svc.Summary(ctx, userID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	if len(view.RecentExpenses) != 3 {
		t.Fatalf("len(RecentExpenses) = %d, want 3", len(view.RecentExpenses))
	}
	// The two March 20 records keep insertion order, then March 5.
	want := []string{ids[2], ids[3], ids[1]}
	for i, w := range want {
		if view.RecentExpenses[i].ID != w {
			t.Errorf("RecentExpenses[%d].ID = %q, want %q", i, view.RecentExpenses[i].ID, w)
		}
	}
}

func TestSummaryUsesCacheUntilInvalidated(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	userID := seedUser(t, store)

	c := cache.NewLRUCache[*SummaryView](16, time.Minute)
	svc := NewDashboardService(store, c, testLogger(), fixedClock(2025, time.March))

	view, err := svc.Summary(ctx, userID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if view.Stats.Income.Cents != 0 {
		t.Fatalf("Income = %d, want 0", view.Stats.Income.Cents)
	}

	err = store.AppendIncome(ctx, userID, &core.IncomeRecord{
		SourceType: core.SourceSalary, Amount: core.Money{Cents: 1000},
		Frequency: core.FrequencyMonthly,
		Date:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("AppendIncome: %v", err)
	}

	// Still served from cache.
	view, err = svc.Summary(ctx, userID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if view.Stats.Income.Cents != 0 {
		t.Errorf("Income = %d before invalidation, want cached 0", view.Stats.Income.Cents)
	}

	svc.Invalidate(userID)
	view, err = svc.Summary(ctx, userID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if view.Stats.Income.Cents != 1000 {
		t.Errorf("Income = %d after invalidation, want 1000", view.Stats.Income.Cents)
	}
}
