package grading

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrOutOfRange           = errors.New("value out of range")
	ErrWeightBudgetExceeded = errors.New("total weight cannot exceed 100%")
)

// RangeError reports a grade, weight or target outside [0,100].
type RangeError struct {
	Field string
	Value float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be between 0 and 100, got %g", e.Field, e.Value)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// BudgetExceededError is returned when a write would push a course's total
// assignment weight above MaxWeight.
type BudgetExceededError struct {
	CurrentTotal float64
	Available    float64
	Candidate    float64
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("adding %g%% would exceed 100%% total weight (current: %g%%, available: %g%%)",
		e.Candidate, e.CurrentTotal, e.Available)
}

func (e *BudgetExceededError) Unwrap() error {
	return ErrWeightBudgetExceeded
}

// ValidatePercentage rejects NaN and anything outside [0,100].
func ValidatePercentage(field string, value float64) error {
	if math.IsNaN(value) || value < 0 || value > MaxWeight {
		return &RangeError{Field: field, Value: value}
	}
	return nil
}
