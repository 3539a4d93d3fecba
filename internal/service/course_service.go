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

type CourseService interface {
	ListCourses(ctx context.Context, owner models.Owner) ([]models.CourseView, error)
	GetCourse(ctx context.Context, owner models.Owner, courseID string) (*models.CourseView, error)
	CreateCourse(ctx context.Context, owner models.Owner, req *models.CreateCourseRequest) (*models.CourseView, error)
	UpdateCourse(ctx context.Context, owner models.Owner, courseID string, req *models.UpdateCourseRequest) (*models.CourseView, error)
	DeleteCourse(ctx context.Context, owner models.Owner, courseID string) error
	GetSummary(ctx context.Context, owner models.Owner, courseID string) (*grading.Summary, error)
	WhatIf(ctx context.Context, owner models.Owner, courseID string, req *models.WhatIfRequest) (*models.WhatIfResponse, error)
}

type courseService struct {
	stores     repository.StoreResolver
	aggregator grading.CourseAggregator
	publisher  integration.EventPublisher
	logger     zerolog.Logger
}

func NewCourseService(
	stores repository.StoreResolver,
	aggregator grading.CourseAggregator,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) CourseService {
	return &courseService{
		stores:     stores,
		aggregator: aggregator,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *courseService) ListCourses(ctx context.Context, owner models.Owner) ([]models.CourseView, error) {
	store, err := s.stores.For(owner)
	if err != nil {
		return nil, err
	}

	courses, err := store.ListCourses(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	views := make([]models.CourseView, 0, len(courses))
	for i := range courses {
		views = append(views, s.view(&courses[i]))
	}

	return views, nil
}

func (s *courseService) GetCourse(ctx context.Context, owner models.Owner, courseID string) (*models.CourseView, error) {
	course, err := s.load(ctx, owner, courseID)
	if err != nil {
		return nil, err
	}

	view := s.view(course)
	return &view, nil
}

func (s *courseService) CreateCourse(ctx context.Context, owner models.Owner, req *models.CreateCourseRequest) (*models.CourseView, error) {
	store, err := s.stores.For(owner)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	course := &models.Course{
		ID:          uuid.New().String(),
		OwnerID:     owner.ID,
		Name:        strings.TrimSpace(req.Name),
		Code:        strings.TrimSpace(req.Code),
		TargetGrade: models.DefaultTargetGrade,
		Color:       models.DefaultCourseColor,
		Assignments: []models.Assignment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.TargetGrade != nil {
		course.TargetGrade = *req.TargetGrade
	}
	if req.Color != "" {
		course.Color = req.Color
	}

	if err := validateCourse(course); err != nil {
		return nil, err
	}

	if err := store.CreateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info().
		Str("course_id", course.ID).
		Str("code", course.Code).
		Str("owner_kind", owner.Kind()).
		Msg("Course created")

	view := s.view(course)
	return &view, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, owner models.Owner, courseID string, req *models.UpdateCourseRequest) (*models.CourseView, error) {
	store, err := s.stores.For(owner)
	if err != nil {
		return nil, err
	}

	var targetChanged bool
	course, err := store.UpdateCourse(ctx, owner.ID, courseID, func(c *models.Course) error {
		if req.Name != nil {
			c.Name = strings.TrimSpace(*req.Name)
		}
		if req.Code != nil {
			c.Code = strings.TrimSpace(*req.Code)
		}
		if req.TargetGrade != nil {
			targetChanged = *req.TargetGrade != c.TargetGrade
			c.TargetGrade = *req.TargetGrade
		}
		if req.Color != nil {
			c.Color = *req.Color
		}
		c.UpdatedAt = time.Now().UTC()

		return validateCourse(c)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	view := s.view(course)

	// Смена цели меняет прогноз, остальные поля на оценки не влияют
	if targetChanged {
		publishGradesChanged(ctx, s.publisher, s.logger, owner, course.ID, models.ChangeCourseUpdated, "", view.Summary)
	}

	s.logger.Info().
		Str("course_id", course.ID).
		Msg("Course updated")

	return &view, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, owner models.Owner, courseID string) error {
	store, err := s.stores.For(owner)
	if err != nil {
		return err
	}

	if err := store.DeleteCourse(ctx, owner.ID, courseID); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.logger.Info().
		Str("course_id", courseID).
		Msg("Course deleted")

	return nil
}

func (s *courseService) GetSummary(ctx context.Context, owner models.Owner, courseID string) (*grading.Summary, error) {
	course, err := s.load(ctx, owner, courseID)
	if err != nil {
		return nil, err
	}

	summary := s.aggregator.Summarize(course.GradingInput())
	return &summary, nil
}

// WhatIf solves for the final score with a caller-chosen target and final
// weight. Missing values fall back to the course target and remaining weight.
func (s *courseService) WhatIf(ctx context.Context, owner models.Owner, courseID string, req *models.WhatIfRequest) (*models.WhatIfResponse, error) {
	course, err := s.load(ctx, owner, courseID)
	if err != nil {
		return nil, err
	}

	input := course.GradingInput()
	summary := s.aggregator.Summarize(input)

	target := course.TargetGrade
	if req.TargetGrade != nil {
		target = *req.TargetGrade
	}
	finalWeight := summary.RemainingWeight
	if req.FinalWeight != nil {
		finalWeight = *req.FinalWeight
	}

	projection, err := s.aggregator.WhatIf(input, target, finalWeight)
	if err != nil {
		return nil, err
	}

	return &models.WhatIfResponse{
		CourseID:   course.ID,
		Applicable: projection != nil,
		Projection: projection,
		Current:    summary,
	}, nil
}

func (s *courseService) load(ctx context.Context, owner models.Owner, courseID string) (*models.Course, error) {
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

	return course, nil
}

func (s *courseService) view(course *models.Course) models.CourseView {
	c := *course
	c.Assignments = models.SortByDate(course.Assignments)

	return models.CourseView{
		Course:  c,
		Summary: s.aggregator.Summarize(c.GradingInput()),
	}
}

func validateCourse(c *models.Course) error {
	if c.Name == "" {
		return invalid("name", "course name is required")
	}
	if utf8.RuneCountInString(c.Name) > models.MaxCourseNameLength {
		return invalid("name", fmt.Sprintf("must be at most %d characters", models.MaxCourseNameLength))
	}
	if c.Code == "" {
		return invalid("code", "course code is required")
	}
	if utf8.RuneCountInString(c.Code) > models.MaxCourseCodeLength {
		return invalid("code", fmt.Sprintf("must be at most %d characters", models.MaxCourseCodeLength))
	}
	if err := grading.ValidatePercentage("target_grade", c.TargetGrade); err != nil {
		return err
	}
	if !models.IsValidCourseColor(c.Color) {
		return invalid("color", fmt.Sprintf("unknown color %q", c.Color))
	}
	return nil
}

func publishGradesChanged(
	ctx context.Context,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
	owner models.Owner,
	courseID, change, assignmentID string,
	summary grading.Summary,
) {
	if publisher == nil {
		return
	}

	event := &models.GradesChangedEvent{
		CourseID:     courseID,
		OwnerID:      owner.ID,
		OwnerKind:    owner.Kind(),
		Change:       change,
		AssignmentID: assignmentID,
		Summary:      summary,
		Timestamp:    time.Now().Unix(),
	}

	if err := publisher.PublishGradesChanged(ctx, event); err != nil {
		// Запись уже сохранена, событие не критично
		logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to publish grades changed event")
	}
}
