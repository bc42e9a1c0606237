// Package ledger defines the ports for per-user record persistence.
package ledger

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

var (
	// ErrNotFound is returned when the referenced user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned on registration with a duplicate email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUnavailable wraps storage-layer failures. Handlers surface it as an
	// opaque internal error; details stay in the server logs.
	ErrUnavailable = errors.New("storage unavailable")
)

// UserStore persists accounts. New accounts are seeded with the default
// category set in the same operation that creates them.
type UserStore interface {
	CreateUser(ctx context.Context, user *core.User) error
	GetUserByEmail(ctx context.Context, email string) (*core.User, error)
	GetUserByID(ctx context.Context, id string) (*core.User, error)
	ListCategories(ctx context.Context, userID string) ([]core.Category, error)
}

// RecordStore is the transaction store adapter: append-only per-user
// collections of income and expense records. Appends are atomic at the
// storage boundary; concurrent appends under the same user never lose a
// record. List operations return the full collection ordered by insertion.
type RecordStore interface {
	AppendIncome(ctx context.Context, userID string, rec *core.IncomeRecord) error
	AppendExpense(ctx context.Context, userID string, rec *core.ExpenseRecord) error
	ListIncome(ctx context.Context, userID string) ([]core.IncomeRecord, error)
	ListExpenses(ctx context.Context, userID string) ([]core.ExpenseRecord, error)
}

// Store is the full persistence surface consumed by the service layer.
type Store interface {
	UserStore
	RecordStore
	Close() error
}
