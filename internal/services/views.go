package services

import (
	"sort"
	"time"

	"fintrack/internal/core"
)

// StatsView is the wire shape of one month's aggregation.
type StatsView struct {
	Income      core.Money `json:"income"`
	Expenses    core.Money `json:"expenses"`
	Balance     core.Money `json:"balance"`
	Savings     core.Money `json:"savings"`
	SavingsRate int        `json:"savingsRate"`
}

// ExpenseView is the wire shape of one expense record. Dates are RFC3339.
type ExpenseView struct {
	ID                string     `json:"id"`
	Amount            core.Money `json:"amount"`
	Category          string     `json:"category"`
	Subcategory       string     `json:"subcategory,omitempty"`
	Description       string     `json:"description"`
	Date              string     `json:"date"`
	IsBusinessExpense bool       `json:"isBusinessExpense"`
	IsNecessary       bool       `json:"isNecessary"`
	Tags              []string   `json:"tags,omitempty"`
}

// IncomeView is the wire shape of one income record.
type IncomeView struct {
	ID          string     `json:"id"`
	SourceType  string     `json:"sourceType"`
	Amount      core.Money `json:"amount"`
	Frequency   string     `json:"frequency"`
	IsRecurring bool       `json:"isRecurring"`
	Date        string     `json:"date"`
	Description string     `json:"description"`
}

// SummaryView is the dashboard payload: current-month stats, advisory
// suggestions and the most recent expenses.
type SummaryView struct {
	Stats          StatsView         `json:"stats"`
	Suggestions    []core.Suggestion `json:"suggestions"`
	RecentExpenses []ExpenseView     `json:"recentExpenses"`
}

func statsView(s core.PeriodStats) StatsView {
	return StatsView{
		Income:      s.Income,
		Expenses:    s.Expenses,
		Balance:     s.Balance,
		Savings:     s.Savings,
		SavingsRate: s.SavingsRate,
	}
}

func expenseView(e core.ExpenseRecord) ExpenseView {
	return ExpenseView{
		ID:                e.ID,
		Amount:            e.Amount,
		Category:          e.Category,
		Subcategory:       e.Subcategory,
		Description:       e.Description,
		Date:              e.Date.UTC().Format(time.RFC3339),
		IsBusinessExpense: e.IsBusinessExpense,
		IsNecessary:       e.IsNecessary,
		Tags:              e.Tags,
	}
}

func incomeView(i core.IncomeRecord) IncomeView {
	return IncomeView{
		ID:          i.ID,
		SourceType:  string(i.SourceType),
		Amount:      i.Amount,
		Frequency:   string(i.Frequency),
		IsRecurring: i.IsRecurring,
		Date:        i.Date.UTC().Format(time.RFC3339),
		Description: i.Description,
	}
}

// recentExpenses returns the n newest expenses by date. The sort is
// stable so same-day records keep their insertion order.
func recentExpenses(expenses []core.ExpenseRecord, n int) []ExpenseView {
	sorted := append([]core.ExpenseRecord(nil), expenses...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	out := make([]ExpenseView, len(sorted))
	for i, e := range sorted {
		out[i] = expenseView(e)
	}
	return out
}
