package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

type expenseRequest struct {
	Amount            jsonAmount   `json:"amount"`
	Category          string       `json:"category"`
	Subcategory       string       `json:"subcategory"`
	Description       string       `json:"description"`
	Date              flexibleDate `json:"date"`
	IsBusinessExpense bool         `json:"isBusinessExpense"`
	IsNecessary       *bool        `json:"isNecessary"`
	Tags              []string     `json:"tags"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	_, err := s.records.AddExpense(r.Context(), userID(r), core.ExpenseIntake{
		Amount:            req.Amount.String(),
		Category:          req.Category,
		Subcategory:       req.Subcategory,
		Description:       req.Description,
		Date:              req.Date.Time,
		IsBusinessExpense: req.IsBusinessExpense,
		IsNecessary:       req.IsNecessary,
		Tags:              req.Tags,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if s.collector != nil {
		s.collector.RecordAccepted(services.KindExpense)
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "expense added successfully"})
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	views, err := s.records.ListExpenses(r.Context(), userID(r))
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List expenses failed", log.FieldError, err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Expenses []services.ExpenseView `json:"expenses"`
	}{Expenses: views})
}

type incomeRequest struct {
	Amount      jsonAmount   `json:"amount"`
	SourceType  string       `json:"sourceType"`
	Frequency   string       `json:"frequency"`
	Description string       `json:"description"`
	Date        flexibleDate `json:"date"`
	IsRecurring *bool        `json:"isRecurring"`
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	_, err := s.records.AddIncome(r.Context(), userID(r), core.IncomeIntake{
		Amount:      req.Amount.String(),
		SourceType:  req.SourceType,
		Frequency:   req.Frequency,
		Description: req.Description,
		Date:        req.Date.Time,
		IsRecurring: req.IsRecurring,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if s.collector != nil {
		s.collector.RecordAccepted(services.KindIncome)
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "income added successfully"})
}

func (s *Server) handleListIncome(w http.ResponseWriter, r *http.Request) {
	views, err := s.records.ListIncome(r.Context(), userID(r))
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List income failed", log.FieldError, err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Income []services.IncomeView `json:"income"`
	}{Income: views})
}

type categoryView struct {
	Name           string     `json:"name"`
	Type           string     `json:"type"`
	ParentCategory string     `json:"parentCategory,omitempty"`
	BudgetLimit    core.Money `json:"budgetLimit"`
	Color          string     `json:"color"`
	Icon           string     `json:"icon"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.records.ListCategories(r.Context(), userID(r))
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List categories failed", log.FieldError, err)
		writeServiceError(w, err)
		return
	}

	views := make([]categoryView, len(cats))
	for i, c := range cats {
		views[i] = categoryView{
			Name:           c.Name,
			Type:           string(c.Type),
			ParentCategory: c.ParentCategory,
			BudgetLimit:    c.BudgetLimit,
			Color:          c.Color,
			Icon:           c.Icon,
		}
	}
	writeJSON(w, http.StatusOK, struct {
		Categories []categoryView `json:"categories"`
	}{Categories: views})
}
