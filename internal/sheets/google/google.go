// Package google implements the record export port against the Google
// Sheets API using service account credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	ports "fintrack/internal/sheets"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.RowAppender = (*Client)(nil)

// New creates a Sheets client for the given spreadsheet and sheet name.
// Credentials come from the environment (see newSheetsService).
func New(ctx context.Context, spreadsheetID, sheetName string) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if sheetName == "" {
		sheetName = "Records"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// AppendRecordRow appends one row to the year sheet matching the record date.
// Columns: date, kind, category, description, amount (decimal units), user,
// record ID. The target tab must already exist in the spreadsheet.
func (c *Client) AppendRecordRow(ctx context.Context, row ports.RecordRow) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	values := &gsheet.ValueRange{Values: [][]any{{
		row.Date.UTC().Format("2006-01-02"),
		row.Kind,
		row.Category,
		row.Description,
		row.Amount.Units(),
		row.UserID,
		row.RecordID,
	}}}

	sheetName := yearPrefixedName(c.sheetName, row.Date.UTC().Year())
	rng := fmt.Sprintf("%s!A:G", sheetName)
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append row to sheet %s: %w", sheetName, err)
	}

	rowRef := sheetName
	if resp.Updates != nil {
		rowRef = resp.Updates.UpdatedRange
	}

	slog.InfoContext(ctx, "Record exported to Google Sheets",
		"record_id", row.RecordID,
		"record_kind", row.Kind,
		"row", rowRef)

	return rowRef, nil
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
