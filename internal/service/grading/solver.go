package grading

import "math"

// Outlook classifies a required final score.
type Outlook string

const (
	OutlookVeryAchievable Outlook = "very_achievable"
	OutlookAchievable     Outlook = "achievable"
	OutlookChallenging    Outlook = "challenging"
	OutlookUnachievable   Outlook = "unachievable"
)

func (o Outlook) String() string {
	return string(o)
}

func (o Outlook) Message() string {
	switch o {
	case OutlookVeryAchievable:
		return "Very achievable!"
	case OutlookAchievable:
		return "Achievable with good preparation!"
	case OutlookChallenging:
		return "Challenging but possible!"
	default:
		return "Your target grade may not be achievable with the current grades."
	}
}

// RequiredFinal solves the weighted-average identity for the score needed on
// a remaining component of finalWeight percent. It returns false when there
// is no remaining component (finalWeight <= 0). finalWeight is caller-chosen
// and may be smaller than 100-currentWeight; currentWeight does not enter the
// formula.
//
// Negative requirements are floored at 0. Values above 100 are returned as-is
// and mean the target cannot be reached even with a perfect score.
func RequiredFinal(currentGrade, currentWeight, targetGrade, finalWeight float64) (float64, bool) {
	if finalWeight <= 0 || math.IsNaN(finalWeight) {
		return 0, false
	}

	required := (targetGrade - currentGrade*(100-finalWeight)/100) / (finalWeight / 100)
	return math.Max(0, required), true
}

func ClassifyRequirement(required float64) Outlook {
	switch {
	case required <= 60:
		return OutlookVeryAchievable
	case required <= 85:
		return OutlookAchievable
	case required <= 100:
		return OutlookChallenging
	default:
		return OutlookUnachievable
	}
}

// Projection is the solved requirement for a remaining component.
type Projection struct {
	Required    float64 `json:"required"`
	TargetGrade float64 `json:"target_grade"`
	FinalWeight float64 `json:"final_weight"`
	Outlook     Outlook `json:"outlook"`
	Achievable  bool    `json:"achievable"`
	Message     string  `json:"message"`
}

func project(currentGrade, currentWeight, targetGrade, finalWeight float64) *Projection {
	required, ok := RequiredFinal(currentGrade, currentWeight, targetGrade, finalWeight)
	if !ok {
		return nil
	}

	outlook := ClassifyRequirement(required)
	return &Projection{
		Required:    required,
		TargetGrade: targetGrade,
		FinalWeight: finalWeight,
		Outlook:     outlook,
		Achievable:  outlook != OutlookUnachievable,
		Message:     outlook.Message(),
	}
}
