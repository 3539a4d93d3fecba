package service

import (
	"context"
	"fmt"

	"github.com/RubachokBoss/grade-tracker/internal/demo"
	"github.com/RubachokBoss/grade-tracker/internal/models"
	"github.com/RubachokBoss/grade-tracker/internal/repository"
	"github.com/RubachokBoss/grade-tracker/internal/service/grading"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// GuestService manages demo sessions: a throwaway gradebook seeded with the
// demo courses and kept in the ephemeral store until it expires.
type GuestService interface {
	StartSession(ctx context.Context) (*models.GuestSessionResponse, error)
	ResetSession(ctx context.Context, sessionID string) (*models.GuestSessionResponse, error)
}

type guestService struct {
	store      repository.GuestStore
	dataset    *demo.Dataset
	aggregator grading.CourseAggregator
	logger     zerolog.Logger
}

// NewGuestService accepts a nil store, in which case every call reports
// ErrGuestModeDisabled.
func NewGuestService(
	store repository.GuestStore,
	dataset *demo.Dataset,
	aggregator grading.CourseAggregator,
	logger zerolog.Logger,
) GuestService {
	return &guestService{
		store:      store,
		dataset:    dataset,
		aggregator: aggregator,
		logger:     logger,
	}
}

func (s *guestService) StartSession(ctx context.Context) (*models.GuestSessionResponse, error) {
	if s.store == nil {
		return nil, ErrGuestModeDisabled
	}

	sessionID := uuid.New().String()
	resp, err := s.seed(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Dur("ttl", s.store.TTL()).
		Msg("Guest session started")

	return resp, nil
}

// ResetSession restores the demo courses, discarding the guest's edits.
func (s *guestService) ResetSession(ctx context.Context, sessionID string) (*models.GuestSessionResponse, error) {
	if s.store == nil {
		return nil, ErrGuestModeDisabled
	}

	exists, err := s.store.Exists(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check guest session: %w", err)
	}
	if !exists {
		return nil, ErrSessionNotFound
	}

	resp, err := s.seed(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Msg("Guest session reset")

	return resp, nil
}

func (s *guestService) seed(ctx context.Context, sessionID string) (*models.GuestSessionResponse, error) {
	courses := s.dataset.Build(sessionID)
	if err := s.store.Seed(ctx, sessionID, courses); err != nil {
		return nil, fmt.Errorf("failed to seed guest session: %w", err)
	}

	views := make([]models.CourseView, 0, len(courses))
	for _, c := range courses {
		c.Assignments = models.SortByDate(c.Assignments)
		views = append(views, models.CourseView{
			Course:  c,
			Summary: s.aggregator.Summarize(c.GradingInput()),
		})
	}

	return &models.GuestSessionResponse{
		SessionID: sessionID,
		ExpiresIn: int(s.store.TTL().Seconds()),
		Courses:   views,
	}, nil
}
