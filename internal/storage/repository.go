package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// PendingRecord carries the minimal data needed for export queue messages.
type PendingRecord struct {
	ID        string
	Kind      string
	Version   int64
	CreatedAt time.Time
}

type SQLiteRepository struct {
	db *sql.DB
}

var _ ledger.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ledger.ErrUnavailable, err)
	}
	return nil
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, user *core.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, profession, marital_status, family_members, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.Profession,
		user.MaritalStatus, user.FamilyMembers,
		user.CreatedAt.Format(time.RFC3339Nano), user.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return ledger.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	// New accounts start with the default category set.
	for _, c := range core.DefaultCategories() {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO categories (user_id, name, type, parent_category, budget_limit_cents, color, icon)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			user.ID, c.Name, string(c.Type), c.ParentCategory, c.BudgetLimit.Cents, c.Color, c.Icon)
		if err != nil {
			return fmt.Errorf("seed category %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit user: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	return r.getUser(ctx, `WHERE email = ?`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id string) (*core.User, error) {
	return r.getUser(ctx, `WHERE id = ?`, id)
}

func (r *SQLiteRepository) getUser(ctx context.Context, where string, arg any) (*core.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, profession, marital_status, family_members, created_at, updated_at
		FROM users `+where, arg)

	var u core.User
	var createdAt, updatedAt string
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Profession,
		&u.MaritalStatus, &u.FamilyMembers, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	u.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &u, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	if err := r.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT name, type, parent_category, budget_limit_cents, color, icon
		FROM categories WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		var typ string
		if err := rows.Scan(&c.Name, &typ, &c.ParentCategory, &c.BudgetLimit.Cents, &c.Color, &c.Icon); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Type = core.CategoryType(typ)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) AppendIncome(ctx context.Context, userID string, rec *core.IncomeRecord) error {
	if err := r.requireUser(ctx, userID); err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO income_records (id, user_id, source_type, amount_cents, frequency, is_recurring, date, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, userID, string(rec.SourceType), rec.Amount.Cents, string(rec.Frequency),
		boolToInt(rec.IsRecurring), rec.Date.UTC().Format(time.RFC3339Nano), rec.Description,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert income record: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AppendExpense(ctx context.Context, userID string, rec *core.ExpenseRecord) error {
	if err := r.requireUser(ctx, userID); err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	tags, err := json.Marshal(rec.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO expense_records (id, user_id, amount_cents, category, subcategory, description, date, is_business, is_necessary, tags, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, userID, rec.Amount.Cents, rec.Category, rec.Subcategory, rec.Description,
		rec.Date.UTC().Format(time.RFC3339Nano), boolToInt(rec.IsBusinessExpense),
		boolToInt(rec.IsNecessary), string(tags),
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert expense record: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListIncome(ctx context.Context, userID string) ([]core.IncomeRecord, error) {
	if err := r.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source_type, amount_cents, frequency, is_recurring, date, description
		FROM income_records WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list income records: %w", err)
	}
	defer rows.Close()

	var out []core.IncomeRecord
	for rows.Next() {
		rec, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID string) ([]core.ExpenseRecord, error) {
	if err := r.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount_cents, category, subcategory, description, date, is_business, is_necessary, tags
		FROM expense_records WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list expense records: %w", err)
	}
	defer rows.Close()

	var out []core.ExpenseRecord
	for rows.Next() {
		rec, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetIncome retrieves a single income record by ID together with its owner.
func (r *SQLiteRepository) GetIncome(ctx context.Context, id string) (*core.IncomeRecord, string, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, source_type, amount_cents, frequency, is_recurring, date, description, user_id
		FROM income_records WHERE id = ?`, id)

	var rec core.IncomeRecord
	var srcType, freq, date, userID string
	var recurring int
	err := row.Scan(&rec.ID, &srcType, &rec.Amount.Cents, &freq, &recurring, &date, &rec.Description, &userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ledger.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("scan income record: %w", err)
	}
	rec.SourceType = core.SourceType(srcType)
	rec.Frequency = core.Frequency(freq)
	rec.IsRecurring = recurring != 0
	rec.Date, _ = time.Parse(time.RFC3339Nano, date)
	return &rec, userID, nil
}

// GetExpense retrieves a single expense record by ID together with its owner.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id string) (*core.ExpenseRecord, string, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, amount_cents, category, subcategory, description, date, is_business, is_necessary, tags, user_id
		FROM expense_records WHERE id = ?`, id)

	var rec core.ExpenseRecord
	var date, tags, userID string
	var business, necessary int
	err := row.Scan(&rec.ID, &rec.Amount.Cents, &rec.Category, &rec.Subcategory, &rec.Description,
		&date, &business, &necessary, &tags, &userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ledger.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("scan expense record: %w", err)
	}
	rec.IsBusinessExpense = business != 0
	rec.IsNecessary = necessary != 0
	rec.Date, _ = time.Parse(time.RFC3339Nano, date)
	if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
		return nil, "", fmt.Errorf("decode tags: %w", err)
	}
	return &rec, userID, nil
}

// ListPendingExport returns records that still need to be exported,
// oldest first, across both record kinds.
func (r *SQLiteRepository) ListPendingExport(ctx context.Context, limit int) ([]PendingRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, 'income' AS kind, version, created_at FROM income_records WHERE sync_status = 'pending'
		UNION ALL
		SELECT id, 'expense' AS kind, version, created_at FROM expense_records WHERE sync_status = 'pending'
		ORDER BY created_at LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending export: %w", err)
	}
	defer rows.Close()

	var out []PendingRecord
	for rows.Next() {
		var p PendingRecord
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Kind, &p.Version, &createdAt); err != nil {
			return nil, fmt.Errorf("scan pending record: %w", err)
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkExported marks a record as successfully exported.
func (r *SQLiteRepository) MarkExported(ctx context.Context, kind, id string) error {
	return r.setSyncStatus(ctx, kind, id, "synced")
}

// MarkExportError marks a record as having export errors.
func (r *SQLiteRepository) MarkExportError(ctx context.Context, kind, id string) error {
	return r.setSyncStatus(ctx, kind, id, "error")
}

func (r *SQLiteRepository) setSyncStatus(ctx context.Context, kind, id, status string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE `+table+` SET sync_status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("mark record %s: %w", status, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func tableFor(kind string) (string, error) {
	switch kind {
	case KindIncome:
		return "income_records", nil
	case KindExpense:
		return "expense_records", nil
	default:
		return "", fmt.Errorf("unsupported record kind: %s", kind)
	}
}

func (r *SQLiteRepository) requireUser(ctx context.Context, userID string) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	return nil
}

func scanIncome(rows *sql.Rows) (core.IncomeRecord, error) {
	var rec core.IncomeRecord
	var srcType, freq, date string
	var recurring int
	if err := rows.Scan(&rec.ID, &srcType, &rec.Amount.Cents, &freq, &recurring, &date, &rec.Description); err != nil {
		return rec, fmt.Errorf("scan income record: %w", err)
	}
	rec.SourceType = core.SourceType(srcType)
	rec.Frequency = core.Frequency(freq)
	rec.IsRecurring = recurring != 0
	rec.Date, _ = time.Parse(time.RFC3339Nano, date)
	return rec, nil
}

func scanExpense(rows *sql.Rows) (core.ExpenseRecord, error) {
	var rec core.ExpenseRecord
	var date, tags string
	var business, necessary int
	if err := rows.Scan(&rec.ID, &rec.Amount.Cents, &rec.Category, &rec.Subcategory,
		&rec.Description, &date, &business, &necessary, &tags); err != nil {
		return rec, fmt.Errorf("scan expense record: %w", err)
	}
	rec.IsBusinessExpense = business != 0
	rec.IsNecessary = necessary != 0
	rec.Date, _ = time.Parse(time.RFC3339Nano, date)
	if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
		return rec, fmt.Errorf("decode tags: %w", err)
	}
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
