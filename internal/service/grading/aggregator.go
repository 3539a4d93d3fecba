package grading

// CourseInput is the plain data a caller hands over for one course.
type CourseInput struct {
	TargetGrade float64
	Entries     []Entry
}

// Summary is the read model of one course.
type Summary struct {
	CurrentGrade    float64     `json:"current_grade"`
	CurrentLetter   Letter      `json:"current_letter"`
	HasGrades       bool        `json:"has_grades"`
	TargetGrade     float64     `json:"target_grade"`
	TargetLetter    Letter      `json:"target_letter"`
	Completion      float64     `json:"completion"`
	RemainingWeight float64     `json:"remaining_weight"`
	Projection      *Projection `json:"projection,omitempty"`
}

type CourseAggregator interface {
	Summarize(course CourseInput) Summary
	WhatIf(course CourseInput, targetGrade, finalWeight float64) (*Projection, error)
	CheckBudget(existing []Entry, candidateWeight float64, excludeID string) Budget
}

type courseAggregator struct{}

func NewCourseAggregator() CourseAggregator {
	return &courseAggregator{}
}

func (a *courseAggregator) Summarize(course CourseInput) Summary {
	current := AggregateEntries(course.Entries)

	summary := Summary{
		CurrentGrade:    current.Grade,
		CurrentLetter:   Classify(current.Grade),
		HasGrades:       current.TotalWeight > 0,
		TargetGrade:     course.TargetGrade,
		TargetLetter:    Classify(course.TargetGrade),
		Completion:      current.TotalWeight,
		RemainingWeight: remainingWeight(current.TotalWeight),
	}

	// Nothing to average from, or nothing left to target.
	if current.TotalWeight > 0 && summary.RemainingWeight > 0 {
		summary.Projection = project(current.Grade, current.TotalWeight, course.TargetGrade, summary.RemainingWeight)
	}

	return summary
}

// WhatIf solves for a caller-chosen target and final weight. A nil projection
// with a nil error means the final weight leaves nothing to solve for.
func (a *courseAggregator) WhatIf(course CourseInput, targetGrade, finalWeight float64) (*Projection, error) {
	if err := ValidatePercentage("target_grade", targetGrade); err != nil {
		return nil, err
	}
	if err := ValidatePercentage("final_weight", finalWeight); err != nil {
		return nil, err
	}

	current := AggregateEntries(course.Entries)
	return project(current.Grade, current.TotalWeight, targetGrade, finalWeight), nil
}

func (a *courseAggregator) CheckBudget(existing []Entry, candidateWeight float64, excludeID string) Budget {
	return CheckBudget(existing, candidateWeight, excludeID)
}

// remainingWeight treats a total within tolerance of MaxWeight as complete,
// matching what CheckBudget accepts.
func remainingWeight(totalWeight float64) float64 {
	remaining := MaxWeight - totalWeight
	if remaining <= tolerance {
		return 0
	}
	return remaining
}
