package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

func TestCreateUserSeedsCategories(t *testing.T) {
	s := New()
	ctx := context.Background()

	u := &core.User{Email: "Ada@Example.com", Name: "Ada"}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == "" {
		t.Fatalf("expected assigned id")
	}

	cats, err := s.ListCategories(ctx, u.ID)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	var income, expense int
	for _, c := range cats {
		switch c.Type {
		case core.CategoryIncome:
			income++
		case core.CategoryExpense:
			expense++
		}
	}
	if expense != 8 || income != 4 {
		t.Fatalf("seeded %d expense / %d income categories, want 8 / 4", expense, income)
	}

	// email lookup is case-insensitive
	if _, err := s.GetUserByEmail(ctx, "ada@example.com"); err != nil {
		t.Fatalf("get by email: %v", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.CreateUser(ctx, &core.User{Email: "a@b.c"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := s.CreateUser(ctx, &core.User{Email: "A@B.C"})
	if !errors.Is(err, ledger.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAppendRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	u := &core.User{Email: "a@b.c"}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	rec := &core.ExpenseRecord{
		Amount:      core.Money{Cents: 500},
		Category:    "Food & Groceries",
		Date:        time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		IsNecessary: true,
	}
	if err := s.AppendExpense(ctx, u.ID, rec); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := s.ListExpenses(ctx, u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected the appended record exactly once, got %d", len(got))
	}
	if got[0].ID != rec.ID || got[0].Amount.Cents != 500 {
		t.Fatalf("round-trip mismatch: %+v", got[0])
	}
}

func TestUnknownUser(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.ListIncome(ctx, "nope"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	err := s.AppendIncome(ctx, "nope", &core.IncomeRecord{
		Amount: core.Money{Cents: 1}, SourceType: core.SourceSalary,
		Frequency: core.FrequencyMonthly, Date: time.Now(),
	})
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
