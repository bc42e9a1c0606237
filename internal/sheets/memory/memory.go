// Package memory provides an in-memory RowAppender for development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/sheets"
)

type Appender struct {
	mu   sync.Mutex
	rows []sheets.RecordRow
}

var _ sheets.RowAppender = (*Appender)(nil)

func New() *Appender {
	return &Appender{}
}

// AppendRecordRow stores the row and returns a synthetic row reference.
func (a *Appender) AppendRecordRow(_ context.Context, row sheets.RecordRow) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rows = append(a.rows, row)
	return fmt.Sprintf("mem:%d", len(a.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (a *Appender) Rows() []sheets.RecordRow {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]sheets.RecordRow(nil), a.rows...)
}
