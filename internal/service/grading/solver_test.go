package grading

import "testing"

func TestRequiredFinal(t *testing.T) {
	tests := []struct {
		name                                   string
		current, currentWeight, target, weight float64
		want                                   float64
		outlook                                Outlook
	}{
		{"unreachable target", 85, 70, 90, 30, 101.6666667, OutlookUnachievable},
		{"reachable target", 90, 80, 85, 20, 65, OutlookAchievable},
		{"already exceeded", 98, 90, 60, 10, 0, OutlookVeryAchievable},
		{"needs perfect score", 80, 50, 90, 50, 100, OutlookChallenging},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RequiredFinal(tt.current, tt.currentWeight, tt.target, tt.weight)
			if !ok {
				t.Fatal("expected a solution")
			}
			if !approx(got, tt.want) {
				t.Errorf("RequiredFinal = %v, want %v", got, tt.want)
			}
			if o := ClassifyRequirement(got); o != tt.outlook {
				t.Errorf("outlook = %s, want %s", o, tt.outlook)
			}
		})
	}
}

func TestRequiredFinal_NoRemainingWeight(t *testing.T) {
	for _, w := range []float64{0, -5} {
		if _, ok := RequiredFinal(85, 100, 90, w); ok {
			t.Errorf("finalWeight=%v must be not applicable", w)
		}
	}
}

func TestRequiredFinal_FinalWeightIndependentOfCurrentWeight(t *testing.T) {
	// Only 10 of the 40 remaining points are the final exam.
	got, ok := RequiredFinal(80, 60, 80, 10)
	if !ok {
		t.Fatal("expected a solution")
	}
	if !approx(got, 80) {
		t.Errorf("RequiredFinal = %v, want 80", got)
	}
}

func TestClassifyRequirement_Bands(t *testing.T) {
	tests := []struct {
		required float64
		want     Outlook
	}{
		{0, OutlookVeryAchievable},
		{60, OutlookVeryAchievable},
		{60.1, OutlookAchievable},
		{85, OutlookAchievable},
		{85.1, OutlookChallenging},
		{100, OutlookChallenging},
		{100.01, OutlookUnachievable},
	}

	for _, tt := range tests {
		if got := ClassifyRequirement(tt.required); got != tt.want {
			t.Errorf("ClassifyRequirement(%v) = %s, want %s", tt.required, got, tt.want)
		}
	}
}
