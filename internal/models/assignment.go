package models

import (
	"sort"
	"time"

	"github.com/RubachokBoss/grade-tracker/internal/service/grading"
)

const DateLayout = "2006-01-02"

type Assignment struct {
	ID        string    `json:"id" db:"id"`
	CourseID  string    `json:"course_id" db:"course_id"`
	Name      string    `json:"name" db:"name"`
	Type      string    `json:"type" db:"type"`
	Grade     float64   `json:"grade" db:"grade"`
	Weight    float64   `json:"weight" db:"weight"`
	Date      string    `json:"date" db:"assignment_date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (a Assignment) Entry() grading.Entry {
	return grading.Entry{ID: a.ID, Grade: a.Grade, Weight: a.Weight}
}

func Entries(assignments []Assignment) []grading.Entry {
	entries := make([]grading.Entry, 0, len(assignments))
	for _, a := range assignments {
		entries = append(entries, a.Entry())
	}
	return entries
}

// SortByDate orders assignments chronologically, oldest first. Ties keep
// their insertion order.
func SortByDate(assignments []Assignment) []Assignment {
	sorted := make([]Assignment, len(assignments))
	copy(sorted, assignments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})
	return sorted
}

type AssignmentType string

const (
	AssignmentTypeHomework      AssignmentType = "Homework"
	AssignmentTypeQuiz          AssignmentType = "Quiz"
	AssignmentTypeTest          AssignmentType = "Test"
	AssignmentTypeMidtermExam   AssignmentType = "Midterm Exam"
	AssignmentTypeFinalExam     AssignmentType = "Final Exam"
	AssignmentTypeProject       AssignmentType = "Project"
	AssignmentTypeLab           AssignmentType = "Lab"
	AssignmentTypeParticipation AssignmentType = "Participation"
	AssignmentTypeAssignment    AssignmentType = "Assignment"
	AssignmentTypePaper         AssignmentType = "Paper"
	AssignmentTypePresentation  AssignmentType = "Presentation"
	AssignmentTypeDiscussion    AssignmentType = "Discussion"
	AssignmentTypeWorkshop      AssignmentType = "Workshop"
	AssignmentTypeOther         AssignmentType = "Other"
)

func (at AssignmentType) String() string {
	return string(at)
}

var assignmentTypes = []AssignmentType{
	AssignmentTypeHomework,
	AssignmentTypeQuiz,
	AssignmentTypeTest,
	AssignmentTypeMidtermExam,
	AssignmentTypeFinalExam,
	AssignmentTypeProject,
	AssignmentTypeLab,
	AssignmentTypeParticipation,
	AssignmentTypeAssignment,
	AssignmentTypePaper,
	AssignmentTypePresentation,
	AssignmentTypeDiscussion,
	AssignmentTypeWorkshop,
	AssignmentTypeOther,
}

func AssignmentTypes() []AssignmentType {
	return append([]AssignmentType(nil), assignmentTypes...)
}

func IsValidAssignmentType(t string) bool {
	for _, at := range assignmentTypes {
		if string(at) == t {
			return true
		}
	}
	return false
}

func IsValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}
