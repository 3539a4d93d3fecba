package models

import "github.com/RubachokBoss/grade-tracker/internal/service/grading"

const (
	ChangeAssignmentCreated = "assignment.created"
	ChangeAssignmentUpdated = "assignment.updated"
	ChangeAssignmentDeleted = "assignment.deleted"
	ChangeCourseUpdated     = "course.updated"
)

type GradesChangedEvent struct {
	CourseID     string          `json:"course_id"`
	OwnerID      string          `json:"owner_id"`
	OwnerKind    string          `json:"owner_kind"`
	Change       string          `json:"change"`
	AssignmentID string          `json:"assignment_id,omitempty"`
	Summary      grading.Summary `json:"summary"`
	Timestamp    int64           `json:"timestamp"`
}
