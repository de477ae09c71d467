package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"fintrack/internal/model"
)

// IncomeRepository defines income persistence operations. Every read is scoped by owner.
type IncomeRepository interface {
	Create(ctx context.Context, income *model.Income) error
	Update(ctx context.Context, income *model.Income) error
	FindByIDForUser(ctx context.Context, id, userID uint) (*model.Income, error)
	ListByUser(ctx context.Context, userID uint, query string) ([]model.Income, error)
}

type incomeRepository struct {
	db *gorm.DB
}

// NewIncomeRepository creates a new income repository.
func NewIncomeRepository(db *gorm.DB) IncomeRepository {
	return &incomeRepository{db: db}
}

func (r *incomeRepository) Create(ctx context.Context, income *model.Income) error {
	return r.db.WithContext(ctx).Create(income).Error
}

func (r *incomeRepository) Update(ctx context.Context, income *model.Income) error {
	return r.db.WithContext(ctx).Model(income).
		Where("user_id = ?", income.UserID).
		Select("date", "amount", "description", "source", "updated_at").
		Updates(income).Error
}

func (r *incomeRepository) FindByIDForUser(ctx context.Context, id, userID uint) (*model.Income, error) {
	var income model.Income
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&income).Error; err != nil {
		return nil, err
	}
	return &income, nil
}

func (r *incomeRepository) ListByUser(ctx context.Context, userID uint, query string) ([]model.Income, error) {
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if q := strings.TrimSpace(query); q != "" {
		like := likePattern(q)
		tx = tx.Where("(LOWER(description) LIKE ? ESCAPE '!' OR LOWER(source) LIKE ? ESCAPE '!')", like, like)
	}

	var incomes []model.Income
	if err := tx.Order("date DESC").Order("id DESC").Find(&incomes).Error; err != nil {
		return nil, err
	}
	return incomes, nil
}
