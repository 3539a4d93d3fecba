package grading

import "math"

// MaxWeight is the weight budget of a single course.
const MaxWeight = 100.0

// tolerance absorbs float drift in sums such as 33.3 + 33.3 + 33.4.
const tolerance = 1e-9

type Budget struct {
	OK           bool    `json:"ok"`
	CurrentTotal float64 `json:"current_total"`
	Available    float64 `json:"available"`
	Candidate    float64 `json:"candidate"`
}

// CheckBudget reports whether candidateWeight still fits into the course
// budget. The entry whose ID equals excludeID (the one being edited) is left
// out of the current total. An empty excludeID excludes nothing.
func CheckBudget(existing []Entry, candidateWeight float64, excludeID string) Budget {
	var current float64
	for _, e := range existing {
		if excludeID != "" && e.ID == excludeID {
			continue
		}
		current += e.Weight
	}

	return Budget{
		OK:           current+candidateWeight <= MaxWeight+tolerance,
		CurrentTotal: current,
		Available:    math.Max(0, MaxWeight-current),
		Candidate:    candidateWeight,
	}
}

// Err converts a failed check into a *BudgetExceededError, nil otherwise.
func (b Budget) Err() error {
	if b.OK {
		return nil
	}
	return &BudgetExceededError{
		CurrentTotal: b.CurrentTotal,
		Available:    b.Available,
		Candidate:    b.Candidate,
	}
}
