package repository

import (
	"context"
	"errors"

	"github.com/RubachokBoss/grade-tracker/internal/models"
)

var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrDuplicateCode      = errors.New("a course with this code already exists")
	ErrDuplicateUser      = errors.New("user with this email or username already exists")
	ErrSessionNotFound    = errors.New("guest session not found or expired")
	ErrGuestModeDisabled  = errors.New("guest mode is not available")
	ErrConcurrentUpdate   = errors.New("gradebook was modified concurrently, please retry")
	ErrUnknownOwner       = errors.New("user does not exist")
)

// CourseMutation edits a loaded course in place before it is written back.
type CourseMutation func(course *models.Course) error

// AssignmentMutation receives the course's current assignments and returns
// the assignment to write. An ID not present in existing means insert.
// Returning an error aborts the write.
type AssignmentMutation func(existing []models.Assignment) (*models.Assignment, error)

// GradebookStore persists courses with their assignments for one owner.
// Mutations run inside the store's write critical section, so checks made
// by the mutation (weight budget, code uniqueness) are atomic with the write.
type GradebookStore interface {
	ListCourses(ctx context.Context, ownerID string) ([]models.Course, error)
	// GetCourse returns nil, nil when the course does not exist.
	GetCourse(ctx context.Context, ownerID, courseID string) (*models.Course, error)
	CreateCourse(ctx context.Context, course *models.Course) error
	UpdateCourse(ctx context.Context, ownerID, courseID string, mutate CourseMutation) (*models.Course, error)
	DeleteCourse(ctx context.Context, ownerID, courseID string) error
	SaveAssignment(ctx context.Context, ownerID, courseID string, mutate AssignmentMutation) (*models.Assignment, error)
	DeleteAssignment(ctx context.Context, ownerID, courseID, assignmentID string) error
}

type StoreResolver interface {
	For(owner models.Owner) (GradebookStore, error)
}

type storeResolver struct {
	durable   GradebookStore
	ephemeral GradebookStore
}

// NewStoreResolver routes registered users to the durable store and guests
// to the ephemeral one. ephemeral may be nil when guest mode is off.
func NewStoreResolver(durable, ephemeral GradebookStore) StoreResolver {
	return &storeResolver{
		durable:   durable,
		ephemeral: ephemeral,
	}
}

func (r *storeResolver) For(owner models.Owner) (GradebookStore, error) {
	if !owner.Guest {
		return r.durable, nil
	}
	if r.ephemeral == nil {
		return nil, ErrGuestModeDisabled
	}
	return r.ephemeral, nil
}
