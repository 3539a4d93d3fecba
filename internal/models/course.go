package models

import (
	"time"

	"github.com/RubachokBoss/grade-tracker/internal/service/grading"
)

const (
	DefaultTargetGrade = 85.0
	DefaultCourseColor = "blue"

	MaxCourseNameLength     = 100
	MaxCourseCodeLength     = 20
	MaxAssignmentNameLength = 100
)

type Course struct {
	ID          string       `json:"id" db:"id"`
	OwnerID     string       `json:"owner_id" db:"owner_id"`
	Name        string       `json:"name" db:"name"`
	Code        string       `json:"code" db:"code"`
	TargetGrade float64      `json:"target_grade" db:"target_grade"`
	Color       string       `json:"color" db:"color"`
	Assignments []Assignment `json:"assignments"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

func (c Course) GradingInput() grading.CourseInput {
	return grading.CourseInput{
		TargetGrade: c.TargetGrade,
		Entries:     Entries(c.Assignments),
	}
}

// FindAssignment returns the index of the assignment with the given id, or -1.
func (c Course) FindAssignment(id string) int {
	for i := range c.Assignments {
		if c.Assignments[i].ID == id {
			return i
		}
	}
	return -1
}

type CourseView struct {
	Course
	Summary grading.Summary `json:"summary"`
}

type CourseColor struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

var courseColors = []CourseColor{
	{Name: "Blue", Value: "blue", Primary: "#3b82f6", Secondary: "#dbeafe"},
	{Name: "Green", Value: "green", Primary: "#10b981", Secondary: "#d1fae5"},
	{Name: "Purple", Value: "purple", Primary: "#8b5cf6", Secondary: "#e9d5ff"},
	{Name: "Orange", Value: "orange", Primary: "#f97316", Secondary: "#fed7aa"},
	{Name: "Pink", Value: "pink", Primary: "#ec4899", Secondary: "#fce7f3"},
	{Name: "Teal", Value: "teal", Primary: "#14b8a6", Secondary: "#ccfbf1"},
	{Name: "Red", Value: "red", Primary: "#ef4444", Secondary: "#fee2e2"},
	{Name: "Yellow", Value: "yellow", Primary: "#eab308", Secondary: "#fef3c7"},
}

func CourseColors() []CourseColor {
	return append([]CourseColor(nil), courseColors...)
}

func IsValidCourseColor(color string) bool {
	for _, c := range courseColors {
		if c.Value == color {
			return true
		}
	}
	return false
}
