package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/RubachokBoss/grade-tracker/internal/models"
	"github.com/RubachokBoss/grade-tracker/internal/service/grading"
)

func TestCourseService_CreateCourse_Defaults(t *testing.T) {
	env := setupTestEnv()

	course, err := env.courses.CreateCourse(context.Background(), testUser, &models.CreateCourseRequest{
		Name: "  Computer Science 101 ",
		Code: "CS101",
	})
	if err != nil {
		t.Fatalf("CreateCourse() error = %v", err)
	}

	if course.Name != "Computer Science 101" {
		t.Errorf("name not trimmed: %q", course.Name)
	}
	if course.TargetGrade != 85 || course.Color != "blue" {
		t.Errorf("defaults not applied: target=%v color=%q", course.TargetGrade, course.Color)
	}
	if course.OwnerID != testUser.ID {
		t.Errorf("owner = %q", course.OwnerID)
	}
	if course.Summary.HasGrades || course.Summary.Projection != nil {
		t.Errorf("new course must have no grades and no projection: %+v", course.Summary)
	}
	if course.Summary.TargetLetter.Letter != "B" {
		t.Errorf("target letter = %q, want B", course.Summary.TargetLetter.Letter)
	}
}

func TestCourseService_CreateCourse_Validation(t *testing.T) {
	env := setupTestEnv()

	tests := []struct {
		name  string
		req   models.CreateCourseRequest
		field string
	}{
		{"missing name", models.CreateCourseRequest{Code: "X"}, "name"},
		{"missing code", models.CreateCourseRequest{Name: "X"}, "code"},
		{"long code", models.CreateCourseRequest{Name: "X", Code: strings.Repeat("C", 21)}, "code"},
		{"long name", models.CreateCourseRequest{Name: strings.Repeat("n", 101), Code: "X"}, "name"},
		{"bad color", models.CreateCourseRequest{Name: "X", Code: "X", Color: "magenta"}, "color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.courses.CreateCourse(context.Background(), testUser, &tt.req)
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Errorf("expected ValidationError on %q, got %v", tt.field, err)
			}
		})
	}

	_, err := env.courses.CreateCourse(context.Background(), testUser, &models.CreateCourseRequest{
		Name: "X", Code: "X", TargetGrade: ptr(101.0),
	})
	var rangeErr *grading.RangeError
	if !errors.As(err, &rangeErr) || rangeErr.Field != "target_grade" {
		t.Errorf("expected RangeError on target_grade, got %v", err)
	}
}

func TestCourseService_CreateCourse_DuplicateCode(t *testing.T) {
	env := setupTestEnv()
	env.mustCreateCourse(testUser, "CS101")

	_, err := env.courses.CreateCourse(context.Background(), testUser, &models.CreateCourseRequest{Name: "Again", Code: "cs101"})
	if !errors.Is(err, ErrDuplicateCourseCode) {
		t.Errorf("expected ErrDuplicateCourseCode, got %v", err)
	}

	// У другого владельца код свободен
	if _, err := env.courses.CreateCourse(context.Background(), testGuest, &models.CreateCourseRequest{Name: "Mine", Code: "CS101"}); err != nil {
		t.Errorf("other owner should be able to reuse code: %v", err)
	}
}

func TestCourseService_OwnersAreIsolated(t *testing.T) {
	env := setupTestEnv()
	course := env.mustCreateCourse(testUser, "CS101")

	if _, err := env.courses.GetCourse(context.Background(), testGuest, course.ID); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("guest must not see a user's course, got %v", err)
	}

	userCourses, _ := env.courses.ListCourses(context.Background(), testUser)
	guestCourses, _ := env.courses.ListCourses(context.Background(), testGuest)
	if len(userCourses) != 1 || len(guestCourses) != 0 {
		t.Errorf("user=%d guest=%d", len(userCourses), len(guestCourses))
	}
}

func TestCourseService_GetCourse_SummaryAndOrder(t *testing.T) {
	env := setupTestEnv()
	ctx := context.Background()
	course := env.mustCreateCourse(testUser, "CS101")

	for _, req := range []models.CreateAssignmentRequest{
		{Name: "Midterm", Grade: ptr(82.0), Weight: ptr(25.0), Date: "2025-02-15"},
		{Name: "Homework 1", Grade: ptr(92.0), Weight: ptr(10.0), Date: "2025-01-15"},
		{Name: "Quiz 1", Grade: ptr(88.0), Weight: ptr(15.0), Date: "2025-01-22"},
	} {
		req := req
		if _, err := env.assignments.CreateAssignment(ctx, testUser, course.ID, &req); err != nil {
			t.Fatalf("CreateAssignment() error = %v", err)
		}
	}

	view, err := env.courses.GetCourse(ctx, testUser, course.ID)
	if err != nil {
		t.Fatalf("GetCourse() error = %v", err)
	}

	if view.Assignments[0].Name != "Homework 1" || view.Assignments[2].Name != "Midterm" {
		t.Errorf("assignments not in date order: %v, %v, %v",
			view.Assignments[0].Name, view.Assignments[1].Name, view.Assignments[2].Name)
	}

	s := view.Summary
	if !approx(s.CurrentGrade, 85.8) || s.CurrentLetter.Letter != "B" {
		t.Errorf("current = %v (%s), want 85.8 (B)", s.CurrentGrade, s.CurrentLetter.Letter)
	}
	if s.Completion != 50 || s.RemainingWeight != 50 {
		t.Errorf("completion=%v remaining=%v", s.Completion, s.RemainingWeight)
	}
	if s.Projection == nil || !approx(s.Projection.Required, 84.2) {
		t.Errorf("projection = %+v, want required 84.2", s.Projection)
	}
}

func TestCourseService_UpdateCourse(t *testing.T) {
	env := setupTestEnv()
	ctx := context.Background()
	course := env.mustCreateCourse(testUser, "CS101")
	env.mustAddAssignment(testUser, course.ID, 80, 50)

	updated, err := env.courses.UpdateCourse(ctx, testUser, course.ID, &models.UpdateCourseRequest{
		TargetGrade: ptr(90.0),
		Color:       ptr("green"),
	})
	if err != nil {
		t.Fatalf("UpdateCourse() error = %v", err)
	}
	if updated.TargetGrade != 90 || updated.Color != "green" || updated.Name != course.Name {
		t.Errorf("unexpected update result: %+v", updated.Course)
	}
	if updated.Summary.Projection == nil || updated.Summary.Projection.Required != 100 {
		t.Errorf("projection not recomputed: %+v", updated.Summary.Projection)
	}

	event, ok := env.publisher.last()
	if !ok || event.Change != models.ChangeCourseUpdated {
		t.Errorf("expected course.updated event, got %+v", event)
	}

	// Невалидное изменение не сохраняется
	_, err = env.courses.UpdateCourse(ctx, testUser, course.ID, &models.UpdateCourseRequest{Name: ptr("")})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	got, _ := env.courses.GetCourse(ctx, testUser, course.ID)
	if got.Name != course.Name {
		t.Errorf("rejected update was written: %q", got.Name)
	}

	if _, err := env.courses.UpdateCourse(ctx, testUser, "missing", &models.UpdateCourseRequest{}); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestCourseService_DeleteCourse(t *testing.T) {
	env := setupTestEnv()
	ctx := context.Background()
	course := env.mustCreateCourse(testUser, "CS101")

	if err := env.courses.DeleteCourse(ctx, testUser, course.ID); err != nil {
		t.Fatalf("DeleteCourse() error = %v", err)
	}
	if err := env.courses.DeleteCourse(ctx, testUser, course.ID); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestCourseService_WhatIf(t *testing.T) {
	env := setupTestEnv()
	ctx := context.Background()
	course := env.mustCreateCourse(testUser, "CS101")
	env.mustAddAssignment(testUser, course.ID, 80, 60)

	res, err := env.courses.WhatIf(ctx, testUser, course.ID, &models.WhatIfRequest{
		TargetGrade: ptr(80.0),
		FinalWeight: ptr(10.0),
	})
	if err != nil {
		t.Fatalf("WhatIf() error = %v", err)
	}
	if !res.Applicable || !approx(res.Projection.Required, 80) {
		t.Errorf("unexpected projection: %+v", res.Projection)
	}

	// Без параметров: цель курса и оставшийся вес
	res, err = env.courses.WhatIf(ctx, testUser, course.ID, &models.WhatIfRequest{})
	if err != nil {
		t.Fatalf("WhatIf() error = %v", err)
	}
	if res.Projection.FinalWeight != 40 || res.Projection.TargetGrade != 85 {
		t.Errorf("defaults not applied: %+v", res.Projection)
	}

	res, err = env.courses.WhatIf(ctx, testUser, course.ID, &models.WhatIfRequest{FinalWeight: ptr(0.0)})
	if err != nil || res.Applicable || res.Projection != nil {
		t.Errorf("final weight 0 must be not applicable: %+v, %v", res, err)
	}

	_, err = env.courses.WhatIf(ctx, testUser, course.ID, &models.WhatIfRequest{TargetGrade: ptr(-1.0)})
	if !errors.Is(err, grading.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}

	_, err = env.courses.WhatIf(ctx, testUser, course.ID, &models.WhatIfRequest{FinalWeight: ptr(-5.0)})
	var rangeErr *grading.RangeError
	if !errors.As(err, &rangeErr) || rangeErr.Field != "final_weight" {
		t.Errorf("expected RangeError on final_weight, got %v", err)
	}
}

func TestCourseService_GuestModeDisabled(t *testing.T) {
	env := setupTestEnv()
	svc := env.courses.(*courseService)
	svc.stores = newResolverWithoutGuests(env)

	if _, err := env.courses.ListCourses(context.Background(), testGuest); !errors.Is(err, ErrGuestModeDisabled) {
		t.Errorf("expected ErrGuestModeDisabled, got %v", err)
	}
}

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}
