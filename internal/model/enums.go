package model

import (
	"fmt"
	"strings"
)

// ExpenseCategory classifies an expense.
type ExpenseCategory string

const (
	ExpenseCategoryGroceries     ExpenseCategory = "Groceries"
	ExpenseCategoryUtility       ExpenseCategory = "Utility"
	ExpenseCategoryEntertainment ExpenseCategory = "Entertainment"
	ExpenseCategoryTransport     ExpenseCategory = "Transport"
	ExpenseCategoryOther         ExpenseCategory = "Other"
)

// ExpenseCategories lists the canonical categories.
var ExpenseCategories = []ExpenseCategory{
	ExpenseCategoryGroceries,
	ExpenseCategoryUtility,
	ExpenseCategoryEntertainment,
	ExpenseCategoryTransport,
	ExpenseCategoryOther,
}

// legacy spelling still sent by older clients
const legacyFoodstuff = "foodstuff"

// ParseExpenseCategory accepts canonical values case-insensitively. Empty input is Other.
func ParseExpenseCategory(s string) (ExpenseCategory, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ExpenseCategoryOther, nil
	}
	if strings.EqualFold(s, legacyFoodstuff) {
		return ExpenseCategoryGroceries, nil
	}
	for _, c := range ExpenseCategories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown expense category %q", s)
}

// IncomeSource classifies an income.
type IncomeSource string

const (
	IncomeSourceSalary     IncomeSource = "Salary"
	IncomeSourceFreelance  IncomeSource = "Freelance"
	IncomeSourceInvestment IncomeSource = "Investment"
	IncomeSourceGift       IncomeSource = "Gift"
	IncomeSourceOther      IncomeSource = "Other"
)

// IncomeSources lists the canonical sources.
var IncomeSources = []IncomeSource{
	IncomeSourceSalary,
	IncomeSourceFreelance,
	IncomeSourceInvestment,
	IncomeSourceGift,
	IncomeSourceOther,
}

// ParseIncomeSource accepts canonical values case-insensitively. Empty input is Other.
func ParseIncomeSource(s string) (IncomeSource, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return IncomeSourceOther, nil
	}
	for _, src := range IncomeSources {
		if strings.EqualFold(s, string(src)) {
			return src, nil
		}
	}
	return "", fmt.Errorf("unknown income source %q", s)
}
