// Package memory provides an in-memory ledger.Store used as the dev
// backend and as the test double for the service layer.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

type account struct {
	user       core.User
	income     []core.IncomeRecord
	expenses   []core.ExpenseRecord
	categories []core.Category
}

// Store keeps all accounts in process memory. Appends copy the record so
// callers cannot mutate stored state afterwards.
type Store struct {
	mu       sync.Mutex
	byID     map[string]*account
	byEmail  map[string]string
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		byID:    make(map[string]*account),
		byEmail: make(map[string]string),
	}
}

func (s *Store) CreateUser(_ context.Context, user *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(user.Email))
	if _, exists := s.byEmail[email]; exists {
		return ledger.ErrEmailTaken
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	user.Email = email

	s.byID[user.ID] = &account{
		user:       *user,
		categories: core.DefaultCategories(),
	}
	s.byEmail[email] = user.ID
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	u := s.byID[id].user
	return &u, nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	u := acc.user
	return &u, nil
}

func (s *Store) ListCategories(_ context.Context, userID string) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[userID]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return append([]core.Category(nil), acc.categories...), nil
}

func (s *Store) AppendIncome(_ context.Context, userID string, rec *core.IncomeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[userID]
	if !ok {
		return ledger.ErrNotFound
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	acc.income = append(acc.income, *rec)
	return nil
}

func (s *Store) AppendExpense(_ context.Context, userID string, rec *core.ExpenseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[userID]
	if !ok {
		return ledger.ErrNotFound
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	acc.expenses = append(acc.expenses, *rec)
	return nil
}

func (s *Store) ListIncome(_ context.Context, userID string) ([]core.IncomeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[userID]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return append([]core.IncomeRecord(nil), acc.income...), nil
}

func (s *Store) ListExpenses(_ context.Context, userID string) ([]core.ExpenseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[userID]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return append([]core.ExpenseRecord(nil), acc.expenses...), nil
}

func (s *Store) Close() error { return nil }
