package service

import (
	"context"
	"sync"

	"github.com/RubachokBoss/grade-tracker/internal/models"
	"github.com/RubachokBoss/grade-tracker/internal/repository"
	"github.com/RubachokBoss/grade-tracker/internal/repository/repotest"
	"github.com/RubachokBoss/grade-tracker/internal/service/grading"
	"github.com/rs/zerolog"
)

var (
	testUser  = models.Owner{ID: "user-1"}
	testGuest = models.Owner{ID: "guest-1", Guest: true}
)

type mockPublisher struct {
	mu     sync.Mutex
	events []models.GradesChangedEvent
	err    error
}

func (p *mockPublisher) PublishGradesChanged(_ context.Context, event *models.GradesChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *event)
	return p.err
}

func (p *mockPublisher) Close() error { return nil }

func (p *mockPublisher) last() (models.GradesChangedEvent, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return models.GradesChangedEvent{}, false
	}
	return p.events[len(p.events)-1], true
}

type testEnv struct {
	durable     *repotest.MemoryStore
	ephemeral   *repotest.MemoryStore
	publisher   *mockPublisher
	courses     CourseService
	assignments AssignmentService
}

func setupTestEnv() *testEnv {
	durable := repotest.NewMemoryStore()
	ephemeral := repotest.NewMemoryStore()
	stores := repository.NewStoreResolver(durable, ephemeral)
	aggregator := grading.NewCourseAggregator()
	publisher := &mockPublisher{}
	logger := zerolog.Nop()

	return &testEnv{
		durable:     durable,
		ephemeral:   ephemeral,
		publisher:   publisher,
		courses:     NewCourseService(stores, aggregator, publisher, logger),
		assignments: NewAssignmentService(stores, aggregator, publisher, logger),
	}
}

func ptr[T any](v T) *T {
	return &v
}

func (e *testEnv) mustCreateCourse(owner models.Owner, code string) *models.CourseView {
	course, err := e.courses.CreateCourse(context.Background(), owner, &models.CreateCourseRequest{
		Name: "Course " + code,
		Code: code,
	})
	if err != nil {
		panic(err)
	}
	return course
}

func (e *testEnv) mustAddAssignment(owner models.Owner, courseID string, grade, weight float64) *models.Assignment {
	a, err := e.assignments.CreateAssignment(context.Background(), owner, courseID, &models.CreateAssignmentRequest{
		Name:   "Item",
		Grade:  ptr(grade),
		Weight: ptr(weight),
	})
	if err != nil {
		panic(err)
	}
	return a
}

func newResolverWithoutGuests(env *testEnv) repository.StoreResolver {
	return repository.NewStoreResolver(env.durable, nil)
}
