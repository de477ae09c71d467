package model

import (
	"time"

	"gorm.io/gorm"
)

// Expense is money spent by its owner.
type Expense struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Date        time.Time       `json:"date" gorm:"not null;index"`
	Amount      float64         `json:"amount" gorm:"not null"`
	Description string          `json:"description" gorm:"size:500;not null"`
	Category    ExpenseCategory `json:"category" gorm:"type:varchar(32);not null;default:'Other'"`
	UserID      uint            `json:"user_id" gorm:"not null;index"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}

// BeforeCreate defaults the date to the creation time.
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	if e.Category == "" {
		e.Category = ExpenseCategoryOther
	}
	return nil
}
