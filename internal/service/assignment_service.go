package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/RubachokBoss/grade-tracker/internal/models"
	"github.com/RubachokBoss/grade-tracker/internal/repository"
	"github.com/RubachokBoss/grade-tracker/internal/service/grading"
	"github.com/RubachokBoss/grade-tracker/internal/service/integration"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type AssignmentService interface {
	ListAssignments(ctx context.Context, owner models.Owner, courseID string) ([]models.Assignment, error)
	CreateAssignment(ctx context.Context, owner models.Owner, courseID string, req *models.CreateAssignmentRequest) (*models.Assignment, error)
	UpdateAssignment(ctx context.Context, owner models.Owner, courseID, assignmentID string, req *models.UpdateAssignmentRequest) (*models.Assignment, error)
	DeleteAssignment(ctx context.Context, owner models.Owner, courseID, assignmentID string) error
}

type assignmentService struct {
	stores     repository.StoreResolver
	aggregator grading.CourseAggregator
	publisher  integration.EventPublisher
	logger     zerolog.Logger
}

func NewAssignmentService(
	stores repository.StoreResolver,
	aggregator grading.CourseAggregator,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		stores:     stores,
		aggregator: aggregator,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *assignmentService) ListAssignments(ctx context.Context, owner models.Owner, courseID string) ([]models.Assignment, error) {
	store, err := s.stores.For(owner)
	if err != nil {
		return nil, err
	}

	course, err := store.GetCourse(ctx, owner.ID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	return models.SortByDate(course.Assignments), nil
}

func (s *assignmentService) CreateAssignment(ctx context.Context, owner models.Owner, courseID string, req *models.CreateAssignmentRequest) (*models.Assignment, error) {
	if req.Grade == nil {
		return nil, invalid("grade", "grade is required")
	}
	if req.Weight == nil {
		return nil, invalid("weight", "weight is required")
	}

	assignment := &models.Assignment{
		ID:        uuid.New().String(),
		CourseID:  courseID,
		Name:      strings.TrimSpace(req.Name),
		Type:      req.Type,
		Grade:     *req.Grade,
		Weight:    *req.Weight,
		Date:      req.Date,
		CreatedAt: time.Now().UTC(),
	}
	if assignment.Type == "" {
		assignment.Type = string(models.AssignmentTypeAssignment)
	}
	if assignment.Date == "" {
		assignment.Date = time.Now().UTC().Format(models.DateLayout)
	}

	if err := validateAssignment(assignment); err != nil {
		return nil, err
	}

	store, err := s.stores.For(owner)
	if err != nil {
		return nil, err
	}

	saved, err := store.SaveAssignment(ctx, owner.ID, courseID, func(existing []models.Assignment) (*models.Assignment, error) {
		budget := s.aggregator.CheckBudget(models.Entries(existing), assignment.Weight, "")
		if err := budget.Err(); err != nil {
			return nil, err
		}
		return assignment, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	s.logger.Info().
		Str("course_id", courseID).
		Str("assignment_id", saved.ID).
		Float64("weight", saved.Weight).
		Msg("Assignment created")

	s.publish(ctx, store, owner, courseID, models.ChangeAssignmentCreated, saved.ID)

	return saved, nil
}

func (s *assignmentService) UpdateAssignment(ctx context.Context, owner models.Owner, courseID, assignmentID string, req *models.UpdateAssignmentRequest) (*models.Assignment, error) {
	// Диапазоны проверяем до обращения к хранилищу
	if req.Grade != nil {
		if err := grading.ValidatePercentage("grade", *req.Grade); err != nil {
			return nil, err
		}
	}
	if req.Weight != nil {
		if err := grading.ValidatePercentage("weight", *req.Weight); err != nil {
			return nil, err
		}
	}

	store, err := s.stores.For(owner)
	if err != nil {
		return nil, err
	}

	saved, err := store.SaveAssignment(ctx, owner.ID, courseID, func(existing []models.Assignment) (*models.Assignment, error) {
		i := indexOf(existing, assignmentID)
		if i < 0 {
			return nil, ErrAssignmentNotFound
		}

		updated := existing[i]
		applyAssignmentUpdate(&updated, req)
		if err := validateAssignment(&updated); err != nil {
			return nil, err
		}

		budget := s.aggregator.CheckBudget(models.Entries(existing), updated.Weight, assignmentID)
		if err := budget.Err(); err != nil {
			return nil, err
		}

		return &updated, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}

	s.logger.Info().
		Str("course_id", courseID).
		Str("assignment_id", saved.ID).
		Msg("Assignment updated")

	s.publish(ctx, store, owner, courseID, models.ChangeAssignmentUpdated, saved.ID)

	return saved, nil
}

func (s *assignmentService) DeleteAssignment(ctx context.Context, owner models.Owner, courseID, assignmentID string) error {
	store, err := s.stores.For(owner)
	if err != nil {
		return err
	}

	if err := store.DeleteAssignment(ctx, owner.ID, courseID, assignmentID); err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}

	s.logger.Info().
		Str("course_id", courseID).
		Str("assignment_id", assignmentID).
		Msg("Assignment deleted")

	s.publish(ctx, store, owner, courseID, models.ChangeAssignmentDeleted, assignmentID)

	return nil
}

// publish reloads the course so the event carries the committed state.
func (s *assignmentService) publish(ctx context.Context, store repository.GradebookStore, owner models.Owner, courseID, change, assignmentID string) {
	if s.publisher == nil {
		return
	}

	course, err := store.GetCourse(ctx, owner.ID, courseID)
	if err != nil || course == nil {
		s.logger.Warn().Err(err).Str("course_id", courseID).Msg("Course not reloaded for grades changed event")
		return
	}

	summary := s.aggregator.Summarize(course.GradingInput())
	publishGradesChanged(ctx, s.publisher, s.logger, owner, courseID, change, assignmentID, summary)
}

func applyAssignmentUpdate(a *models.Assignment, req *models.UpdateAssignmentRequest) {
	if req.Name != nil {
		a.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		a.Type = *req.Type
	}
	if req.Grade != nil {
		a.Grade = *req.Grade
	}
	if req.Weight != nil {
		a.Weight = *req.Weight
	}
	if req.Date != nil {
		a.Date = *req.Date
	}
}

func validateAssignment(a *models.Assignment) error {
	if a.Name == "" {
		return invalid("name", "assignment name is required")
	}
	if utf8.RuneCountInString(a.Name) > models.MaxAssignmentNameLength {
		return invalid("name", fmt.Sprintf("must be at most %d characters", models.MaxAssignmentNameLength))
	}
	if !models.IsValidAssignmentType(a.Type) {
		return invalid("type", fmt.Sprintf("unknown assignment type %q", a.Type))
	}
	if !models.IsValidDate(a.Date) {
		return invalid("date", "must be a date in YYYY-MM-DD format")
	}
	if err := grading.ValidatePercentage("grade", a.Grade); err != nil {
		return err
	}
	return grading.ValidatePercentage("weight", a.Weight)
}

func indexOf(assignments []models.Assignment, id string) int {
	for i := range assignments {
		if assignments[i].ID == id {
			return i
		}
	}
	return -1
}
