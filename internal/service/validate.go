package service

import (
	"fmt"
	"math"
	"strings"

	"fintrack/internal/errors"
)

// matches the size of the description column
const maxDescriptionLength = 500

func validateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return fmt.Errorf("%w: amount must be greater than zero", errors.ErrValidation)
	}
	return nil
}

func validateDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", fmt.Errorf("%w: description is required", errors.ErrValidation)
	}
	if len(description) > maxDescriptionLength {
		return "", fmt.Errorf("%w: description must be at most %d characters", errors.ErrValidation, maxDescriptionLength)
	}
	return description, nil
}
