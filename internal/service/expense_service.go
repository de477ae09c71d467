package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/auth"
	"fintrack/internal/errors"
	"fintrack/internal/model"
	"fintrack/internal/repository"
)

// ExpenseInput carries the fields of a new expense. A zero Date means now.
type ExpenseInput struct {
	Date        time.Time
	Amount      float64
	Description string
	Category    string
}

// ExpensePatch carries the fields of a partial update; nil fields are left unchanged.
type ExpensePatch struct {
	Date        *time.Time
	Amount      *float64
	Description *string
	Category    *string
}

// ExpenseService handles the caller's expenses.
type ExpenseService interface {
	Create(ctx context.Context, owner *auth.Identity, in ExpenseInput) (*model.Expense, error)
	List(ctx context.Context, owner *auth.Identity, query string) ([]model.Expense, error)
	Get(ctx context.Context, owner *auth.Identity, id uint) (*model.Expense, error)
	Update(ctx context.Context, owner *auth.Identity, id uint, patch ExpensePatch) (*model.Expense, error)
}

type expenseService struct {
	repo repository.ExpenseRepository
}

// NewExpenseService creates a new expense service.
func NewExpenseService(repo repository.ExpenseRepository) ExpenseService {
	return &expenseService{repo: repo}
}

func (s *expenseService) Create(ctx context.Context, owner *auth.Identity, in ExpenseInput) (*model.Expense, error) {
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	description, err := validateDescription(in.Description)
	if err != nil {
		return nil, err
	}
	category, err := model.ParseExpenseCategory(in.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}

	expense := &model.Expense{
		Amount:      in.Amount,
		Description: description,
		Category:    category,
		UserID:      owner.ID,
	}
	if !in.Date.IsZero() {
		expense.Date = in.Date.UTC()
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return expense, nil
}

func (s *expenseService) List(ctx context.Context, owner *auth.Identity, query string) ([]model.Expense, error) {
	expenses, err := s.repo.ListByUser(ctx, owner.ID, query)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

func (s *expenseService) Get(ctx context.Context, owner *auth.Identity, id uint) (*model.Expense, error) {
	expense, err := s.repo.FindByIDForUser(ctx, id, owner.ID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: expense %d", errors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return expense, nil
}

// Update applies the non-nil fields of patch to an expense the owner holds.
func (s *expenseService) Update(ctx context.Context, owner *auth.Identity, id uint, patch ExpensePatch) (*model.Expense, error) {
	expense, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if patch.Date != nil {
		if patch.Date.IsZero() {
			return nil, fmt.Errorf("%w: date must not be empty", errors.ErrValidation)
		}
		expense.Date = patch.Date.UTC()
	}
	if patch.Amount != nil {
		if err := validateAmount(*patch.Amount); err != nil {
			return nil, err
		}
		expense.Amount = *patch.Amount
	}
	if patch.Description != nil {
		description, err := validateDescription(*patch.Description)
		if err != nil {
			return nil, err
		}
		expense.Description = description
	}
	if patch.Category != nil {
		category, err := model.ParseExpenseCategory(*patch.Category)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrValidation, err)
		}
		expense.Category = category
	}

	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return expense, nil
}
