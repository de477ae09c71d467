package model

import (
	"time"

	"gorm.io/gorm"
)

// Income is money received by its owner.
type Income struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Date        time.Time    `json:"date" gorm:"not null;index"`
	Amount      float64      `json:"amount" gorm:"not null"`
	Description string       `json:"description" gorm:"size:500;not null"`
	Source      IncomeSource `json:"source" gorm:"type:varchar(32);not null;default:'Other'"`
	UserID      uint         `json:"user_id" gorm:"not null;index"`
	CreatedAt   time.Time    `json:"-"`
	UpdatedAt   time.Time    `json:"-"`
}

// BeforeCreate defaults the date to the creation time.
func (i *Income) BeforeCreate(tx *gorm.DB) error {
	if i.Date.IsZero() {
		i.Date = time.Now().UTC()
	}
	if i.Source == "" {
		i.Source = IncomeSourceOther
	}
	return nil
}
