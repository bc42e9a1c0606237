package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger/memory"
)

type fakePublisher struct {
	mu        sync.Mutex
	published []string
	done      chan struct{}
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{done: make(chan struct{}, 8)}
}

func (p *fakePublisher) PublishRecordExport(_ context.Context, id, kind string, _ int64) error {
	p.mu.Lock()
	p.published = append(p.published, kind+":"+id)
	p.mu.Unlock()
	p.done <- struct{}{}
	return nil
}

func (p *fakePublisher) wait(t *testing.T) []string {
	t.Helper()
	select {
	case <-p.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for publish")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.published...)
}

type fakeInvalidator struct {
	mu    sync.Mutex
	users []string
}

func (f *fakeInvalidator) Invalidate(userID string) {
	f.mu.Lock()
	f.users = append(f.users, userID)
	f.mu.Unlock()
}

func TestAddExpensePublishesAndInvalidates(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	user := &core.User{Email: "rec@example.com"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	pub := newFakePublisher()
	inv := &fakeInvalidator{}
	svc := NewRecordService(store, pub, inv, testLogger())

	rec, err := svc.AddExpense(ctx, user.ID, core.ExpenseIntake{
		Amount:   "45.99",
		Category: "Food & Dining",
		Date:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if rec.Amount.Cents != 4599 {
		t.Errorf("Amount.Cents = %d, want 4599", rec.Amount.Cents)
	}
	if !rec.IsNecessary {
		t.Error("IsNecessary should default to true")
	}

	published := pub.wait(t)
	if len(published) != 1 || published[0] != "expense:"+rec.ID {
		t.Errorf("published = %v, want [expense:%s]", published, rec.ID)
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()
	if len(inv.users) != 1 || inv.users[0] != user.ID {
		t.Errorf("invalidated = %v, want [%s]", inv.users, user.ID)
	}
}

func TestAddIncomeDefaults(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	user := &core.User{Email: "inc@example.com"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	svc := NewRecordService(store, nil, nil, testLogger())
	rec, err := svc.AddIncome(ctx, user.ID, core.IncomeIntake{
		Amount:     "1200",
		SourceType: "freelance",
		Date:       time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("AddIncome: %v", err)
	}
	if rec.Frequency != core.FrequencyMonthly {
		t.Errorf("Frequency = %q, want monthly default", rec.Frequency)
	}
	if !rec.IsRecurring {
		t.Error("IsRecurring should default to true")
	}

	views, err := svc.ListIncome(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListIncome: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("len(views) = %d, want 1", len(views))
	}
	if views[0].Date != "2025-03-01T00:00:00Z" {
		t.Errorf("Date = %q, want RFC3339", views[0].Date)
	}
}

func TestAddExpenseRejectsInvalid(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	user := &core.User{Email: "bad@example.com"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	pub := newFakePublisher()
	svc := NewRecordService(store, pub, nil, testLogger())

	_, err := svc.AddExpense(ctx, user.ID, core.ExpenseIntake{
		Amount:   "not-a-number",
		Category: "Food",
		Date:     time.Now(),
	})
	ve, ok := core.AsValidationError(err)
	if !ok {
		t.Fatalf("AddExpense error = %v, want ValidationError", err)
	}
	if ve.Field != "amount" {
		t.Errorf("Field = %q, want amount", ve.Field)
	}

	// Nothing persisted, nothing published.
	views, err := svc.ListExpenses(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(views) != 0 {
		t.Errorf("len(views) = %d, want 0", len(views))
	}
	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.published) != 0 {
		t.Errorf("published = %v, want none", pub.published)
	}
}

func TestListCategories(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	user := &core.User{Email: "cat@example.com"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	svc := NewRecordService(store, nil, nil, testLogger())
	cats, err := svc.ListCategories(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(cats) != 12 {
		t.Errorf("len(categories) = %d, want 12", len(cats))
	}
}
