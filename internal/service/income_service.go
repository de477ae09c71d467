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

// IncomeInput carries the fields of a new income. A zero Date means now.
type IncomeInput struct {
	Date        time.Time
	Amount      float64
	Description string
	Source      string
}

// IncomePatch carries the fields of a partial update; nil fields are left unchanged.
type IncomePatch struct {
	Date        *time.Time
	Amount      *float64
	Description *string
	Source      *string
}

// IncomeService handles the caller's incomes.
type IncomeService interface {
	Create(ctx context.Context, owner *auth.Identity, in IncomeInput) (*model.Income, error)
	List(ctx context.Context, owner *auth.Identity, query string) ([]model.Income, error)
	Get(ctx context.Context, owner *auth.Identity, id uint) (*model.Income, error)
	Update(ctx context.Context, owner *auth.Identity, id uint, patch IncomePatch) (*model.Income, error)
}

type incomeService struct {
	repo repository.IncomeRepository
}

// NewIncomeService creates a new income service.
func NewIncomeService(repo repository.IncomeRepository) IncomeService {
	return &incomeService{repo: repo}
}

func (s *incomeService) Create(ctx context.Context, owner *auth.Identity, in IncomeInput) (*model.Income, error) {
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	description, err := validateDescription(in.Description)
	if err != nil {
		return nil, err
	}
	source, err := model.ParseIncomeSource(in.Source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}

	income := &model.Income{
		Amount:      in.Amount,
		Description: description,
		Source:      source,
		UserID:      owner.ID,
	}
	if !in.Date.IsZero() {
		income.Date = in.Date.UTC()
	}
	if err := s.repo.Create(ctx, income); err != nil {
		return nil, fmt.Errorf("create income: %w", err)
	}
	return income, nil
}

func (s *incomeService) List(ctx context.Context, owner *auth.Identity, query string) ([]model.Income, error) {
	incomes, err := s.repo.ListByUser(ctx, owner.ID, query)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	return incomes, nil
}

func (s *incomeService) Get(ctx context.Context, owner *auth.Identity, id uint) (*model.Income, error) {
	income, err := s.repo.FindByIDForUser(ctx, id, owner.ID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: income %d", errors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get income: %w", err)
	}
	return income, nil
}

// Update applies the non-nil fields of patch to an income the owner holds.
func (s *incomeService) Update(ctx context.Context, owner *auth.Identity, id uint, patch IncomePatch) (*model.Income, error) {
	income, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if patch.Date != nil {
		if patch.Date.IsZero() {
			return nil, fmt.Errorf("%w: date must not be empty", errors.ErrValidation)
		}
		income.Date = patch.Date.UTC()
	}
	if patch.Amount != nil {
		if err := validateAmount(*patch.Amount); err != nil {
			return nil, err
		}
		income.Amount = *patch.Amount
	}
	if patch.Description != nil {
		description, err := validateDescription(*patch.Description)
		if err != nil {
			return nil, err
		}
		income.Description = description
	}
	if patch.Source != nil {
		source, err := model.ParseIncomeSource(*patch.Source)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrValidation, err)
		}
		income.Source = source
	}

	if err := s.repo.Update(ctx, income); err != nil {
		return nil, fmt.Errorf("update income: %w", err)
	}
	return income, nil
}
