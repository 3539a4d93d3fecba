package models

import "testing"

func TestSortByDate(t *testing.T) {
	in := []Assignment{
		{ID: "late", Date: "2025-03-01"},
		{ID: "first-same-day", Date: "2025-01-15"},
		{ID: "early", Date: "2025-01-02"},
		{ID: "second-same-day", Date: "2025-01-15"},
	}

	got := SortByDate(in)

	want := []string{"early", "first-same-day", "second-same-day", "late"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d = %q, want %q", i, got[i].ID, id)
		}
	}
	if in[0].ID != "late" {
		t.Error("SortByDate must not reorder its input")
	}
}

func TestIsValidAssignmentType(t *testing.T) {
	for _, at := range AssignmentTypes() {
		if !IsValidAssignmentType(string(at)) {
			t.Errorf("%q should be valid", at)
		}
	}
	for _, bad := range []string{"", "homework", "Essay"} {
		if IsValidAssignmentType(bad) {
			t.Errorf("%q should be invalid", bad)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	tests := map[string]bool{
		"2025-01-15": true,
		"2024-02-29": true,
		"2025-02-29": false,
		"15/01/2025": false,
		"":           false,
	}
	for date, want := range tests {
		if got := IsValidDate(date); got != want {
			t.Errorf("IsValidDate(%q) = %v, want %v", date, got, want)
		}
	}
}

func TestIsValidCourseColor(t *testing.T) {
	if !IsValidCourseColor(DefaultCourseColor) {
		t.Error("default color must be in the palette")
	}
	if IsValidCourseColor("Blue") || IsValidCourseColor("#3b82f6") {
		t.Error("only palette values are accepted")
	}
	if len(CourseColors()) != 8 {
		t.Errorf("palette size = %d", len(CourseColors()))
	}
}

func TestCourse_GradingInput(t *testing.T) {
	c := Course{
		TargetGrade: 90,
		Assignments: []Assignment{
			{ID: "a", Grade: 80, Weight: 20},
			{ID: "b", Grade: 95, Weight: 30},
		},
	}

	in := c.GradingInput()
	if in.TargetGrade != 90 || len(in.Entries) != 2 {
		t.Fatalf("unexpected input: %+v", in)
	}
	if in.Entries[1].ID != "b" || in.Entries[1].Grade != 95 || in.Entries[1].Weight != 30 {
		t.Errorf("entry not copied: %+v", in.Entries[1])
	}
	if c.FindAssignment("b") != 1 || c.FindAssignment("z") != -1 {
		t.Error("FindAssignment returned wrong index")
	}
}

func TestOwner_Kind(t *testing.T) {
	if (Owner{ID: "u"}).Kind() != "user" || (Owner{ID: "g", Guest: true}).Kind() != "guest" {
		t.Error("unexpected owner kind")
	}
}
