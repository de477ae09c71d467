package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"fintrack/internal/auth"
	"fintrack/internal/model"
	"fintrack/internal/repository"
)

// Summary aggregates the caller's entries. Amounts are rounded to cents.
type Summary struct {
	TotalIncome   decimal.Decimal                           `json:"total_income" swaggertype:"string"`
	TotalExpenses decimal.Decimal                           `json:"total_expenses" swaggertype:"string"`
	Balance       decimal.Decimal                           `json:"balance" swaggertype:"string"`
	ByCategory    map[model.ExpenseCategory]decimal.Decimal `json:"expenses_by_category" swaggertype:"object"`
	BySource      map[model.IncomeSource]decimal.Decimal    `json:"income_by_source" swaggertype:"object"`
	ExpenseCount  int                                       `json:"expense_count"`
	IncomeCount   int                                       `json:"income_count"`
}

// SummaryService computes totals over a user's expenses and incomes.
type SummaryService interface {
	Summarize(ctx context.Context, owner *auth.Identity) (*Summary, error)
}

type summaryService struct {
	expenses repository.ExpenseRepository
	incomes  repository.IncomeRepository
}

// NewSummaryService creates a new summary service.
func NewSummaryService(expenses repository.ExpenseRepository, incomes repository.IncomeRepository) SummaryService {
	return &summaryService{expenses: expenses, incomes: incomes}
}

func (s *summaryService) Summarize(ctx context.Context, owner *auth.Identity) (*Summary, error) {
	expenses, err := s.expenses.ListByUser(ctx, owner.ID, "")
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	incomes, err := s.incomes.ListByUser(ctx, owner.ID, "")
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}

	summary := &Summary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		ByCategory:    make(map[model.ExpenseCategory]decimal.Decimal),
		BySource:      make(map[model.IncomeSource]decimal.Decimal),
		ExpenseCount:  len(expenses),
		IncomeCount:   len(incomes),
	}

	// float64 amounts are summed as decimals so totals do not drift
	for _, e := range expenses {
		amount := decimal.NewFromFloat(e.Amount)
		summary.TotalExpenses = summary.TotalExpenses.Add(amount)
		summary.ByCategory[e.Category] = summary.ByCategory[e.Category].Add(amount)
	}
	for _, i := range incomes {
		amount := decimal.NewFromFloat(i.Amount)
		summary.TotalIncome = summary.TotalIncome.Add(amount)
		summary.BySource[i.Source] = summary.BySource[i.Source].Add(amount)
	}

	summary.TotalIncome = summary.TotalIncome.Round(2)
	summary.TotalExpenses = summary.TotalExpenses.Round(2)
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpenses)
	for k, v := range summary.ByCategory {
		summary.ByCategory[k] = v.Round(2)
	}
	for k, v := range summary.BySource {
		summary.BySource[k] = v.Round(2)
	}
	return summary, nil
}
