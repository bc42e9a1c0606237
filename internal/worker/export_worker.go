// Package worker moves locally saved records to the export destination.
package worker

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/amqp"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/middleware/metrics"
	"fintrack/internal/sheets"
	"fintrack/internal/storage"
)

// ExportWorker exports records from SQLite to the configured row appender
// (Google Sheets in production). It consumes AMQP export messages and also
// sweeps the pending table as a backup in case messages are lost.
type ExportWorker struct {
	storage   *storage.SQLiteRepository
	appender  sheets.RowAppender
	collector *metrics.Collector
	logger    *log.Logger
	batchSize int
}

func NewExportWorker(repo *storage.SQLiteRepository, appender sheets.RowAppender, collector *metrics.Collector, logger *log.Logger, batchSize int) *ExportWorker {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &ExportWorker{
		storage:   repo,
		appender:  appender,
		collector: collector,
		logger:    logger.WithComponent(log.ComponentWorker),
		batchSize: batchSize,
	}
}

// HandleExportMessage processes a single export message from AMQP.
// Returning an error makes the consumer requeue the message.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.RecordExportMessage) error {
	w.logger.InfoContext(ctx, "Processing export message",
		log.FieldRecordID, msg.ID,
		log.FieldRecord, msg.Kind,
		"version", msg.Version)

	if err := w.exportRecord(ctx, msg.Kind, msg.ID); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			// The record is gone; requeueing would loop forever.
			w.logger.WarnContext(ctx, "Export message references unknown record, dropping",
				log.FieldRecordID, msg.ID,
				log.FieldRecord, msg.Kind)
			return nil
		}
		return err
	}
	return nil
}

// ProcessPendingRecords exports any records still marked pending.
// This is a backup mechanism in case AMQP messages are lost.
func (w *ExportWorker) ProcessPendingRecords(ctx context.Context) error {
	return w.sweepPending(ctx, w.batchSize, false)
}

// StartupSyncCheck drains pending records at worker startup with a larger
// batch, recovering from worker downtime or missed messages.
func (w *ExportWorker) StartupSyncCheck(ctx context.Context) error {
	return w.sweepPending(ctx, w.batchSize*5, true)
}

func (w *ExportWorker) sweepPending(ctx context.Context, limit int, startup bool) error {
	pending, err := w.storage.ListPendingExport(ctx, limit)
	if err != nil {
		return fmt.Errorf("list pending records: %w", err)
	}

	if len(pending) == 0 {
		if startup {
			w.logger.InfoContext(ctx, "No pending records found on startup")
		}
		return nil
	}

	w.logger.InfoContext(ctx, "Processing pending records", log.FieldCount, len(pending))

	exported := 0
	failed := 0
	for _, rec := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.exportRecord(ctx, rec.Kind, rec.ID); err != nil {
			w.logger.ErrorContext(ctx, "Failed to export pending record",
				log.FieldRecordID, rec.ID,
				log.FieldRecord, rec.Kind,
				log.FieldError, err)
			failed++
			continue
		}
		exported++
	}

	if startup {
		w.logger.InfoContext(ctx, "Startup sync completed",
			"total", len(pending),
			"exported", exported,
			"errors", failed)
	}
	return nil
}

// exportRecord loads the record, appends it to the destination, and updates
// its sync status. Append failures are recorded as export errors so the
// sweep can retry them later.
func (w *ExportWorker) exportRecord(ctx context.Context, kind, id string) error {
	row, err := w.loadRow(ctx, kind, id)
	if err != nil {
		if !errors.Is(err, ledger.ErrNotFound) {
			w.markError(ctx, kind, id)
		}
		return fmt.Errorf("load record for export: %w", err)
	}

	ref, err := w.appender.AppendRecordRow(ctx, row)
	if err != nil {
		w.markError(ctx, kind, id)
		w.observe("error")
		return fmt.Errorf("append record row: %w", err)
	}

	if err := w.storage.MarkExported(ctx, kind, id); err != nil {
		// The append worked; failing the status update must not requeue.
		w.logger.ErrorContext(ctx, "Failed to mark record as exported",
			log.FieldRecordID, id,
			log.FieldRecord, kind,
			log.FieldError, err)
	}

	w.observe("ok")
	w.logger.InfoContext(ctx, "Record exported",
		log.FieldRecordID, id,
		log.FieldRecord, kind,
		"row", ref)
	return nil
}

func (w *ExportWorker) loadRow(ctx context.Context, kind, id string) (sheets.RecordRow, error) {
	switch kind {
	case storage.KindIncome:
		rec, userID, err := w.storage.GetIncome(ctx, id)
		if err != nil {
			return sheets.RecordRow{}, err
		}
		return sheets.RecordRow{
			RecordID:    rec.ID,
			UserID:      userID,
			Kind:        kind,
			Date:        rec.Date,
			Category:    string(rec.SourceType),
			Description: rec.Description,
			Amount:      rec.Amount,
		}, nil
	case storage.KindExpense:
		rec, userID, err := w.storage.GetExpense(ctx, id)
		if err != nil {
			return sheets.RecordRow{}, err
		}
		category := rec.Category
		if rec.Subcategory != "" {
			category = rec.Category + " / " + rec.Subcategory
		}
		return sheets.RecordRow{
			RecordID:    rec.ID,
			UserID:      userID,
			Kind:        kind,
			Date:        rec.Date,
			Category:    category,
			Description: rec.Description,
			Amount:      rec.Amount,
		}, nil
	default:
		return sheets.RecordRow{}, fmt.Errorf("unknown record kind %q", kind)
	}
}

func (w *ExportWorker) markError(ctx context.Context, kind, id string) {
	if err := w.storage.MarkExportError(ctx, kind, id); err != nil {
		w.logger.ErrorContext(ctx, "Failed to mark export error",
			log.FieldRecordID, id,
			log.FieldRecord, kind,
			log.FieldError, err)
	}
}

func (w *ExportWorker) observe(outcome string) {
	if w.collector != nil {
		w.collector.ExportResult(outcome)
	}
}
