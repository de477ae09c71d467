package model

import (
	"time"

	"fintrack/internal/auth"
)

// User represents a registered account.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	// Username is stored lower case, see service.NormalizeUsername.
	Username  string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	FullName  string    `json:"fullname" gorm:"size:255;index;not null"`
	Password  string    `json:"-" gorm:"size:255;not null"` // bcrypt hash, never exposed
	Disabled  bool      `json:"disabled" gorm:"not null;default:false"`
	Role      auth.Role `json:"role" gorm:"size:20;not null;default:'user'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Expenses []Expense `json:"-" gorm:"foreignKey:UserID"`
	Incomes  []Income  `json:"-" gorm:"foreignKey:UserID"`
}

// Identity projects the user into the view handed to request handlers.
func (u *User) Identity() *auth.Identity {
	return &auth.Identity{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Disabled: u.Disabled,
		Role:     u.Role,
	}
}
