package core

import (
	"errors"
	"strings"
	"time"
)

const (
	SourceSalary     SourceType = "salary"
	SourceBusiness   SourceType = "business"
	SourceFreelance  SourceType = "freelance"
	SourceInvestment SourceType = "investment"
	SourceRental     SourceType = "rental"
	SourceOther      SourceType = "other"
)

const (
	FrequencyMonthly Frequency = "monthly"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyYearly  Frequency = "yearly"
	FrequencyOneTime Frequency = "one-time"
)

const (
	CategoryIncome     CategoryType = "income"
	CategoryExpense    CategoryType = "expense"
	CategoryInvestment CategoryType = "investment"
)

type (
	SourceType   string
	Frequency    string
	CategoryType string

	Money struct {
		Cents int64
	}

	// IncomeRecord is a single receipt of income belonging to one user.
	IncomeRecord struct {
		ID          string
		SourceType  SourceType
		Amount      Money
		Frequency   Frequency
		IsRecurring bool
		Date        time.Time
		Description string
	}

	// ExpenseRecord is a single expense belonging to one user. Category is
	// free text; it is not checked against the user's category set.
	ExpenseRecord struct {
		ID                string
		Amount            Money
		Category          string
		Subcategory       string
		Description       string
		Date              time.Time
		IsBusinessExpense bool
		IsNecessary       bool
		Tags              []string
	}

	Category struct {
		Name           string
		Type           CategoryType
		ParentCategory string
		BudgetLimit    Money
		Color          string
		Icon           string
	}

	// User is an account. PasswordHash is empty for OAuth-only accounts.
	// The profile attributes are informational and never feed aggregation.
	User struct {
		ID            string
		Email         string
		Name          string
		PasswordHash  string
		Profession    string
		MaritalStatus string
		FamilyMembers int
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrMissingDate       = errors.New("missing date")
	ErrMissingCategory   = errors.New("missing category")
	ErrInvalidSourceType = errors.New("invalid source type")
	ErrInvalidFrequency  = errors.New("invalid frequency")
)

func (s SourceType) Valid() bool {
	switch s {
	case SourceSalary, SourceBusiness, SourceFreelance, SourceInvestment, SourceRental, SourceOther:
		return true
	default:
		return false
	}
}

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyMonthly, FrequencyWeekly, FrequencyYearly, FrequencyOneTime:
		return true
	default:
		return false
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (r IncomeRecord) Validate() error {
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if !r.SourceType.Valid() {
		return ErrInvalidSourceType
	}
	if !r.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if r.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}

func (r ExpenseRecord) Validate() error {
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrMissingCategory
	}
	if r.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// InPeriod reports whether a record date falls inside the calendar
// year+month bucket. Aggregation is month-granular, never arbitrary ranges.
func InPeriod(date time.Time, year int, month time.Month) bool {
	d := date.UTC()
	return d.Year() == year && d.Month() == month
}

// DefaultCategories returns the fixed set seeded for every new account:
// eight expense categories and four income categories.
func DefaultCategories() []Category {
	return []Category{
		{Name: "House Rent", Type: CategoryExpense, Color: "#ef4444", Icon: "🏠"},
		{Name: "Utilities", Type: CategoryExpense, Color: "#f59e0b", Icon: "💡"},
		{Name: "Food & Groceries", Type: CategoryExpense, Color: "#10b981", Icon: "🍔"},
		{Name: "Transportation", Type: CategoryExpense, Color: "#3b82f6", Icon: "🚗"},
		{Name: "Healthcare", Type: CategoryExpense, Color: "#8b5cf6", Icon: "🏥"},
		{Name: "Entertainment", Type: CategoryExpense, Color: "#ec4899", Icon: "🎉"},
		{Name: "Shopping", Type: CategoryExpense, Color: "#6366f1", Icon: "🛒"},
		{Name: "Education", Type: CategoryExpense, Color: "#14b8a6", Icon: "📚"},
		{Name: "Salary", Type: CategoryIncome, Color: "#22c55e", Icon: "💰"},
		{Name: "Business Income", Type: CategoryIncome, Color: "#22c55e", Icon: "💼"},
		{Name: "Freelance", Type: CategoryIncome, Color: "#22c55e", Icon: "👨‍💻"},
		{Name: "Investment", Type: CategoryIncome, Color: "#22c55e", Icon: "📈"},
	}
}
