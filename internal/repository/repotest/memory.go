// Package repotest provides in-memory implementations of the repository
// interfaces for tests.
package repotest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/RubachokBoss/grade-tracker/internal/models"
	"github.com/RubachokBoss/grade-tracker/internal/repository"
)

// MemoryStore is a GradebookStore and GuestStore kept in a map. Writes hold a
// single mutex, so mutations are atomic with respect to each other.
type MemoryStore struct {
	mu      sync.Mutex
	courses map[string][]models.Course
	ttl     time.Duration

	// Err, when set, is returned by every method.
	Err error
}

var (
	_ repository.GradebookStore = (*MemoryStore)(nil)
	_ repository.GuestStore     = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		courses: make(map[string][]models.Course),
		ttl:     time.Hour,
	}
}

func (m *MemoryStore) TTL() time.Duration {
	return m.ttl
}

func (m *MemoryStore) Seed(_ context.Context, sessionID string, courses []models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	m.courses[sessionID] = cloneCourses(courses)
	return nil
}

func (m *MemoryStore) Exists(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.courses[sessionID]
	return ok, m.Err
}

func (m *MemoryStore) ListCourses(_ context.Context, ownerID string) ([]models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	return cloneCourses(m.courses[ownerID]), nil
}

func (m *MemoryStore) GetCourse(_ context.Context, ownerID, courseID string) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	i := m.find(ownerID, courseID)
	if i < 0 {
		return nil, nil
	}
	c := cloneCourse(m.courses[ownerID][i])
	return &c, nil
}

func (m *MemoryStore) CreateCourse(_ context.Context, course *models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if m.hasCode(course.OwnerID, course.Code, "") {
		return repository.ErrDuplicateCode
	}
	m.courses[course.OwnerID] = append(m.courses[course.OwnerID], cloneCourse(*course))
	return nil
}

func (m *MemoryStore) UpdateCourse(_ context.Context, ownerID, courseID string, mutate repository.CourseMutation) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	i := m.find(ownerID, courseID)
	if i < 0 {
		return nil, repository.ErrCourseNotFound
	}

	c := cloneCourse(m.courses[ownerID][i])
	if err := mutate(&c); err != nil {
		return nil, err
	}
	if m.hasCode(ownerID, c.Code, c.ID) {
		return nil, repository.ErrDuplicateCode
	}

	m.courses[ownerID][i] = c
	out := cloneCourse(c)
	return &out, nil
}

func (m *MemoryStore) DeleteCourse(_ context.Context, ownerID, courseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	i := m.find(ownerID, courseID)
	if i < 0 {
		return repository.ErrCourseNotFound
	}
	list := m.courses[ownerID]
	m.courses[ownerID] = append(list[:i:i], list[i+1:]...)
	return nil
}

func (m *MemoryStore) SaveAssignment(_ context.Context, ownerID, courseID string, mutate repository.AssignmentMutation) (*models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	i := m.find(ownerID, courseID)
	if i < 0 {
		return nil, repository.ErrCourseNotFound
	}
	course := &m.courses[ownerID][i]

	a, err := mutate(append([]models.Assignment(nil), course.Assignments...))
	if err != nil {
		return nil, err
	}
	a.CourseID = courseID

	if j := course.FindAssignment(a.ID); j >= 0 {
		course.Assignments[j] = *a
	} else {
		course.Assignments = append(course.Assignments, *a)
	}

	out := *a
	return &out, nil
}

func (m *MemoryStore) DeleteAssignment(_ context.Context, ownerID, courseID, assignmentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	i := m.find(ownerID, courseID)
	if i < 0 {
		return repository.ErrAssignmentNotFound
	}
	course := &m.courses[ownerID][i]

	j := course.FindAssignment(assignmentID)
	if j < 0 {
		return repository.ErrAssignmentNotFound
	}
	course.Assignments = append(course.Assignments[:j:j], course.Assignments[j+1:]...)
	return nil
}

func (m *MemoryStore) find(ownerID, courseID string) int {
	for i, c := range m.courses[ownerID] {
		if c.ID == courseID {
			return i
		}
	}
	return -1
}

func (m *MemoryStore) hasCode(ownerID, code, excludeID string) bool {
	for _, c := range m.courses[ownerID] {
		if c.ID != excludeID && strings.EqualFold(c.Code, code) {
			return true
		}
	}
	return false
}

func cloneCourse(c models.Course) models.Course {
	c.Assignments = append([]models.Assignment{}, c.Assignments...)
	return c
}

func cloneCourses(courses []models.Course) []models.Course {
	out := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		out = append(out, cloneCourse(c))
	}
	return out
}

// UserRepo is an in-memory repository.UserRepository.
type UserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

var _ repository.UserRepository = (*UserRepo)(nil)

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]*models.User)}
}

func (r *UserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) || u.Username == user.Username {
			return repository.ErrDuplicateUser
		}
	}
	u := *user
	u.Email = strings.ToLower(u.Email)
	r.users[u.ID] = &u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.findBy(func(u *models.User) bool { return u.Email == strings.ToLower(email) })
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.findBy(func(u *models.User) bool { return u.Username == username })
}

func (r *UserRepo) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	u, _ := r.findBy(func(u *models.User) bool {
		return u.Email == strings.ToLower(email) || u.Username == username
	})
	return u != nil, nil
}

func (r *UserRepo) findBy(match func(u *models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if match(u) {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}
