package services

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
)

// Record kinds used in export messages.
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// Publisher sends export notifications for saved records. The AMQP client
// satisfies this; a nil publisher disables export.
type Publisher interface {
	PublishRecordExport(ctx context.Context, id, kind string, version int64) error
}

// Invalidator drops derived state for a user after a write.
type Invalidator interface {
	Invalidate(userID string)
}

// RecordService validates and appends income and expense records. Records
// are saved locally first; the export publish happens in the background
// and never blocks or fails the request.
type RecordService struct {
	store       ledger.Store
	publisher   Publisher
	invalidator Invalidator
	logger      *log.Logger
}

func NewRecordService(store ledger.Store, publisher Publisher, invalidator Invalidator, logger *log.Logger) *RecordService {
	return &RecordService{
		store:       store,
		publisher:   publisher,
		invalidator: invalidator,
		logger:      logger.WithComponent(log.ComponentRecords),
	}
}

// AddExpense validates the submission and appends it to the user's ledger.
func (s *RecordService) AddExpense(ctx context.Context, userID string, in core.ExpenseIntake) (*core.ExpenseRecord, error) {
	rec, err := core.ValidateExpense(in)
	if err != nil {
		return nil, err
	}

	if err := s.store.AppendExpense(ctx, userID, &rec); err != nil {
		return nil, fmt.Errorf("append expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense saved",
		log.FieldUserID, userID,
		log.FieldRecordID, rec.ID,
		"category", rec.Category,
		"amount_cents", rec.Amount.Cents)

	s.afterAppend(userID, rec.ID, KindExpense)
	return &rec, nil
}

// AddIncome validates the submission and appends it to the user's ledger.
func (s *RecordService) AddIncome(ctx context.Context, userID string, in core.IncomeIntake) (*core.IncomeRecord, error) {
	rec, err := core.ValidateIncome(in)
	if err != nil {
		return nil, err
	}

	if err := s.store.AppendIncome(ctx, userID, &rec); err != nil {
		return nil, fmt.Errorf("append income: %w", err)
	}

	s.logger.InfoContext(ctx, "Income saved",
		log.FieldUserID, userID,
		log.FieldRecordID, rec.ID,
		"source_type", string(rec.SourceType),
		"amount_cents", rec.Amount.Cents)

	s.afterAppend(userID, rec.ID, KindIncome)
	return &rec, nil
}

// ListExpenses returns the user's full expense collection as views.
func (s *RecordService) ListExpenses(ctx context.Context, userID string) ([]ExpenseView, error) {
	records, err := s.store.ListExpenses(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]ExpenseView, len(records))
	for i, rec := range records {
		out[i] = expenseView(rec)
	}
	return out, nil
}

// ListIncome returns the user's full income collection as views.
func (s *RecordService) ListIncome(ctx context.Context, userID string) ([]IncomeView, error) {
	records, err := s.store.ListIncome(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]IncomeView, len(records))
	for i, rec := range records {
		out[i] = incomeView(rec)
	}
	return out, nil
}

// ListCategories returns the user's category set.
func (s *RecordService) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	return s.store.ListCategories(ctx, userID)
}

// afterAppend invalidates derived state and kicks off the export publish.
// The record is already durable; a failed publish is only logged and the
// periodic export sweep picks the record up later.
func (s *RecordService) afterAppend(userID, recordID, kind string) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(userID)
	}
	if s.publisher == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.publisher.PublishRecordExport(ctx, recordID, kind, 1); err != nil {
			s.logger.Warn("Export publish failed, record will be picked up by sweep",
				log.FieldRecordID, recordID,
				log.FieldRecord, kind,
				log.FieldError, err)
		}
	}()
}
