// Package sheets defines the ports for outbound record export adapters.
package sheets

import (
	"context"
	"time"

	"fintrack/internal/core"
)

// RecordRow is one exported ledger record, flattened for a spreadsheet.
type RecordRow struct {
	RecordID    string
	UserID      string
	Kind        string
	Date        time.Time
	Category    string
	Description string
	Amount      core.Money
}

// RowAppender writes one record row to the export destination and returns
// a reference to the written row.
type RowAppender interface {
	AppendRecordRow(ctx context.Context, row RecordRow) (rowRef string, err error)
}
