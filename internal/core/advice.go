package core

import "strconv"

// Suggestion is a fixed-rule advisory shown on the dashboard. Suggestions
// are derived from PeriodStats on every request and never stored.
type Suggestion struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DeriveSuggestions evaluates the advisory rules in fixed order and returns
// one entry per fired condition. When no condition fires the result is
// exactly the single affirmation, so the list is never empty and the
// affirmation never appears next to a warning.
func DeriveSuggestions(stats PeriodStats) []Suggestion {
	var out []Suggestion

	if stats.Expenses.Cents > stats.Income.Cents {
		out = append(out, Suggestion{
			Icon:        "⚠️",
			Title:       "Expenses Exceed Income",
			Description: "You're spending more than you earn. Consider reducing non-essential expenses.",
		})
	}

	if stats.SavingsRate < 20 {
		out = append(out, Suggestion{
			Icon:        "💡",
			Title:       "Increase Savings Rate",
			Description: "Try to save at least 20% of your income. Current rate: " + strconv.Itoa(stats.SavingsRate) + "%",
		})
	}

	// expenses > income * 0.5, kept in cents to avoid float comparison
	if stats.Expenses.Cents*2 > stats.Income.Cents {
		out = append(out, Suggestion{
			Icon:        "📊",
			Title:       "High Expense Ratio",
			Description: "Your expenses are more than 50% of income. Review your spending categories.",
		})
	}

	if len(out) == 0 {
		out = append(out, Suggestion{
			Icon:        "🎯",
			Title:       "Great Job!",
			Description: "You're managing your finances well. Consider investing your savings.",
		})
	}

	return out
}
