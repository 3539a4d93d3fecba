package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/RubachokBoss/grade-tracker/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	guestKeyPrefix    = "guest:"
	guestMaxTxRetries = 5
)

// GuestStore keeps a whole demo gradebook per guest session in Redis.
type GuestStore interface {
	GradebookStore
	Seed(ctx context.Context, sessionID string, courses []models.Course) error
	Exists(ctx context.Context, sessionID string) (bool, error)
	TTL() time.Duration
}

type guestBook struct {
	Courses []models.Course `json:"courses"`
}

type guestStore struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewGuestStore(client *redis.Client, ttl time.Duration, logger zerolog.Logger) GuestStore {
	return &guestStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *guestStore) TTL() time.Duration {
	return s.ttl
}

func (s *guestStore) Seed(ctx context.Context, sessionID string, courses []models.Course) error {
	for i := range courses {
		courses[i].OwnerID = sessionID
	}

	data, err := json.Marshal(guestBook{Courses: courses})
	if err != nil {
		return fmt.Errorf("failed to marshal guest gradebook: %w", err)
	}

	if err := s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store guest gradebook: %w", err)
	}

	s.logger.Debug().
		Str("session_id", sessionID).
		Int("courses", len(courses)).
		Msg("Guest gradebook seeded")

	return nil
}

func (s *guestStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *guestStore) ListCourses(ctx context.Context, ownerID string) ([]models.Course, error) {
	book, err := s.load(ctx, s.client, s.key(ownerID))
	if err != nil {
		return nil, err
	}

	// Новые курсы сверху, как и в PostgreSQL-хранилище
	courses := book.Courses
	sort.SliceStable(courses, func(i, j int) bool {
		return courses[i].CreatedAt.After(courses[j].CreatedAt)
	})

	return courses, nil
}

func (s *guestStore) GetCourse(ctx context.Context, ownerID, courseID string) (*models.Course, error) {
	book, err := s.load(ctx, s.client, s.key(ownerID))
	if err != nil {
		return nil, err
	}

	i := book.find(courseID)
	if i < 0 {
		return nil, nil
	}

	course := book.Courses[i]
	return &course, nil
}

func (s *guestStore) CreateCourse(ctx context.Context, course *models.Course) error {
	return s.update(ctx, course.OwnerID, func(book *guestBook) error {
		if book.hasCode(course.Code, "") {
			return ErrDuplicateCode
		}
		if course.Assignments == nil {
			course.Assignments = []models.Assignment{}
		}
		book.Courses = append(book.Courses, *course)
		return nil
	})
}

func (s *guestStore) UpdateCourse(ctx context.Context, ownerID, courseID string, mutate CourseMutation) (*models.Course, error) {
	var updated models.Course

	err := s.update(ctx, ownerID, func(book *guestBook) error {
		i := book.find(courseID)
		if i < 0 {
			return ErrCourseNotFound
		}

		course := book.Courses[i]
		if err := mutate(&course); err != nil {
			return err
		}
		if book.hasCode(course.Code, course.ID) {
			return ErrDuplicateCode
		}

		book.Courses[i] = course
		updated = course
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *guestStore) DeleteCourse(ctx context.Context, ownerID, courseID string) error {
	return s.update(ctx, ownerID, func(book *guestBook) error {
		i := book.find(courseID)
		if i < 0 {
			return ErrCourseNotFound
		}
		book.Courses = append(book.Courses[:i], book.Courses[i+1:]...)
		return nil
	})
}

func (s *guestStore) SaveAssignment(ctx context.Context, ownerID, courseID string, mutate AssignmentMutation) (*models.Assignment, error) {
	var saved models.Assignment

	err := s.update(ctx, ownerID, func(book *guestBook) error {
		i := book.find(courseID)
		if i < 0 {
			return ErrCourseNotFound
		}
		course := &book.Courses[i]

		existing := append([]models.Assignment(nil), course.Assignments...)
		assignment, err := mutate(existing)
		if err != nil {
			return err
		}
		assignment.CourseID = courseID

		if j := course.FindAssignment(assignment.ID); j >= 0 {
			course.Assignments[j] = *assignment
		} else {
			course.Assignments = append(course.Assignments, *assignment)
		}
		course.UpdatedAt = time.Now()

		saved = *assignment
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &saved, nil
}

func (s *guestStore) DeleteAssignment(ctx context.Context, ownerID, courseID, assignmentID string) error {
	return s.update(ctx, ownerID, func(book *guestBook) error {
		i := book.find(courseID)
		if i < 0 {
			return ErrCourseNotFound
		}
		course := &book.Courses[i]

		j := course.FindAssignment(assignmentID)
		if j < 0 {
			return ErrAssignmentNotFound
		}
		course.Assignments = append(course.Assignments[:j], course.Assignments[j+1:]...)
		course.UpdatedAt = time.Now()
		return nil
	})
}

// update applies fn to the session's gradebook under WATCH/MULTI. A write
// that raced with another one is retried against the fresh document.
func (s *guestStore) update(ctx context.Context, sessionID string, fn func(book *guestBook) error) error {
	key := s.key(sessionID)

	txf := func(tx *redis.Tx) error {
		book, err := s.load(ctx, tx, key)
		if err != nil {
			return err
		}

		if err := fn(book); err != nil {
			return err
		}

		data, err := json.Marshal(book)
		if err != nil {
			return fmt.Errorf("failed to marshal guest gradebook: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= guestMaxTxRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}

		s.logger.Debug().
			Str("session_id", sessionID).
			Int("attempt", attempt).
			Msg("Guest gradebook changed during write, retrying")
	}

	return ErrConcurrentUpdate
}

func (s *guestStore) load(ctx context.Context, c redis.Cmdable, key string) (*guestBook, error) {
	data, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load guest gradebook: %w", err)
	}

	var book guestBook
	if err := json.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("failed to decode guest gradebook: %w", err)
	}

	return &book, nil
}

func (s *guestStore) key(sessionID string) string {
	return guestKeyPrefix + sessionID + ":gradebook"
}

func (b *guestBook) find(courseID string) int {
	for i := range b.Courses {
		if b.Courses[i].ID == courseID {
			return i
		}
	}
	return -1
}

func (b *guestBook) hasCode(code, excludeID string) bool {
	for _, c := range b.Courses {
		if c.ID != excludeID && strings.EqualFold(c.Code, code) {
			return true
		}
	}
	return false
}
