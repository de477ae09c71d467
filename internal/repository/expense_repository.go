package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"fintrack/internal/model"
)

// ExpenseRepository defines expense persistence operations. Every read is scoped by owner.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	Update(ctx context.Context, expense *model.Expense) error
	FindByIDForUser(ctx context.Context, id, userID uint) (*model.Expense, error)
	ListByUser(ctx context.Context, userID uint, query string) ([]model.Expense, error)
}

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository.
func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

// Create creates a new expense.
func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

// Update saves an expense, never moving it to another owner.
func (r *expenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	return r.db.WithContext(ctx).Model(expense).
		Where("user_id = ?", expense.UserID).
		Select("date", "amount", "description", "category", "updated_at").
		Updates(expense).Error
}

// FindByIDForUser returns gorm.ErrRecordNotFound when the expense is absent or owned by someone else.
func (r *expenseRepository) FindByIDForUser(ctx context.Context, id, userID uint) (*model.Expense, error) {
	var expense model.Expense
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

// ListByUser lists the owner's expenses, optionally filtered by a substring of description or category.
func (r *expenseRepository) ListByUser(ctx context.Context, userID uint, query string) ([]model.Expense, error) {
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if q := strings.TrimSpace(query); q != "" {
		like := likePattern(q)
		tx = tx.Where("(LOWER(description) LIKE ? ESCAPE '!' OR LOWER(category) LIKE ? ESCAPE '!')", like, like)
	}

	var expenses []model.Expense
	if err := tx.Order("date DESC").Order("id DESC").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}
