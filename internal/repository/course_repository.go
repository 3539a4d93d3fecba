package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RubachokBoss/grade-tracker/internal/models"
	"github.com/rs/zerolog"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type courseRepository struct {
	*PostgresRepository
}

// NewCourseRepository returns the durable GradebookStore backed by PostgreSQL.
func NewCourseRepository(db *sql.DB, logger zerolog.Logger) GradebookStore {
	return &courseRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const courseColumns = `id, owner_id, name, code, target_grade, color, created_at, updated_at`

// Ожидает псевдоним "a" для таблицы assignments
const assignmentColumns = `
	a.id, a.course_id, a.name, a.type, a.grade, a.weight,
	to_char(a.assignment_date, 'YYYY-MM-DD') as assignment_date, a.created_at`

func (r *courseRepository) ListCourses(ctx context.Context, ownerID string) ([]models.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []models.Course{}
	index := make(map[string]int)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		course.Assignments = []models.Assignment{}
		index[course.ID] = len(courses)
		courses = append(courses, *course)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(courses) == 0 {
		return courses, nil
	}

	// Одним запросом подтягиваем задания всех курсов владельца
	assignmentQuery := `
		SELECT ` + assignmentColumns + `
		FROM assignments a
		JOIN courses c ON c.id = a.course_id
		WHERE c.owner_id = $1
		ORDER BY a.assignment_date ASC, a.created_at ASC
	`

	aRows, err := r.db.QueryContext(ctx, assignmentQuery, ownerID)
	if err != nil {
		return nil, err
	}
	defer aRows.Close()

	for aRows.Next() {
		a, err := scanAssignment(aRows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[a.CourseID]; ok {
			courses[i].Assignments = append(courses[i].Assignments, *a)
		}
	}

	return courses, aRows.Err()
}

func (r *courseRepository) GetCourse(ctx context.Context, ownerID, courseID string) (*models.Course, error) {
	if !validIDs(ownerID, courseID) {
		return nil, nil
	}
	return r.getCourse(ctx, r.db, ownerID, courseID, false)
}

func (r *courseRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (id, owner_id, name, code, target_grade, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		course.ID,
		course.OwnerID,
		course.Name,
		course.Code,
		course.TargetGrade,
		course.Color,
		course.CreatedAt,
		course.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateCode
	}
	if isForeignKeyViolation(err) {
		return ErrUnknownOwner
	}

	return err
}

func (r *courseRepository) UpdateCourse(ctx context.Context, ownerID, courseID string, mutate CourseMutation) (*models.Course, error) {
	if !validIDs(ownerID, courseID) {
		return nil, ErrCourseNotFound
	}

	var updated *models.Course

	err := r.InTx(ctx, func(tx *sql.Tx) error {
		course, err := r.getCourse(ctx, tx, ownerID, courseID, true)
		if err != nil {
			return err
		}
		if course == nil {
			return ErrCourseNotFound
		}

		if err := mutate(course); err != nil {
			return err
		}

		query := `
			UPDATE courses
			SET name = $1, code = $2, target_grade = $3, color = $4, updated_at = $5
			WHERE id = $6
		`

		_, err = tx.ExecContext(ctx, query,
			course.Name,
			course.Code,
			course.TargetGrade,
			course.Color,
			course.UpdatedAt,
			course.ID,
		)
		if isUniqueViolation(err) {
			return ErrDuplicateCode
		}
		if err != nil {
			return err
		}

		updated = course
		return nil
	})

	return updated, err
}

func (r *courseRepository) DeleteCourse(ctx context.Context, ownerID, courseID string) error {
	// Задания удаляются каскадно (ON DELETE CASCADE)
	if !validIDs(ownerID, courseID) {
		return ErrCourseNotFound
	}

	query := `DELETE FROM courses WHERE id = $1 AND owner_id = $2`

	res, err := r.db.ExecContext(ctx, query, courseID, ownerID)
	if err != nil {
		return err
	}

	return expectAffected(res, ErrCourseNotFound)
}

// SaveAssignment locks the course row so that concurrent writers to the same
// course are serialized between reading the siblings and writing.
func (r *courseRepository) SaveAssignment(ctx context.Context, ownerID, courseID string, mutate AssignmentMutation) (*models.Assignment, error) {
	if !validIDs(ownerID, courseID) {
		return nil, ErrCourseNotFound
	}

	var saved *models.Assignment

	err := r.InTx(ctx, func(tx *sql.Tx) error {
		var lockedID string
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM courses WHERE id = $1 AND owner_id = $2 FOR UPDATE`,
			courseID, ownerID,
		).Scan(&lockedID)
		if err == sql.ErrNoRows {
			return ErrCourseNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock course: %w", err)
		}

		existing, err := r.listAssignments(ctx, tx, courseID)
		if err != nil {
			return fmt.Errorf("failed to load assignments: %w", err)
		}

		assignment, err := mutate(existing)
		if err != nil {
			return err
		}
		assignment.CourseID = courseID

		if containsAssignment(existing, assignment.ID) {
			err = r.updateAssignment(ctx, tx, assignment)
		} else {
			err = r.insertAssignment(ctx, tx, assignment)
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `UPDATE courses SET updated_at = NOW() WHERE id = $1`, courseID)
		if err != nil {
			return err
		}

		saved = assignment
		return nil
	})

	return saved, err
}

func (r *courseRepository) DeleteAssignment(ctx context.Context, ownerID, courseID, assignmentID string) error {
	if !validIDs(ownerID, courseID, assignmentID) {
		return ErrAssignmentNotFound
	}

	query := `
		DELETE FROM assignments a
		USING courses c
		WHERE a.course_id = c.id
			AND a.id = $1
			AND c.id = $2
			AND c.owner_id = $3
	`

	res, err := r.db.ExecContext(ctx, query, assignmentID, courseID, ownerID)
	if err != nil {
		return err
	}

	return expectAffected(res, ErrAssignmentNotFound)
}

func (r *courseRepository) getCourse(ctx context.Context, q queryer, ownerID, courseID string, forUpdate bool) (*models.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE id = $1 AND owner_id = $2
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	course, err := scanCourse(q.QueryRowContext(ctx, query, courseID, ownerID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	course.Assignments, err = r.listAssignments(ctx, q, courseID)
	if err != nil {
		return nil, err
	}

	return course, nil
}

func (r *courseRepository) listAssignments(ctx context.Context, q queryer, courseID string) ([]models.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments a
		WHERE a.course_id = $1
		ORDER BY a.assignment_date ASC, a.created_at ASC
	`

	rows, err := q.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []models.Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *a)
	}

	return assignments, rows.Err()
}

func (r *courseRepository) insertAssignment(ctx context.Context, tx *sql.Tx, a *models.Assignment) error {
	query := `
		INSERT INTO assignments (id, course_id, name, type, grade, weight, assignment_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.ExecContext(ctx, query,
		a.ID,
		a.CourseID,
		a.Name,
		a.Type,
		a.Grade,
		a.Weight,
		a.Date,
		a.CreatedAt,
	)

	return err
}

func (r *courseRepository) updateAssignment(ctx context.Context, tx *sql.Tx, a *models.Assignment) error {
	query := `
		UPDATE assignments
		SET name = $1, type = $2, grade = $3, weight = $4, assignment_date = $5
		WHERE id = $6 AND course_id = $7
	`

	_, err := tx.ExecContext(ctx, query,
		a.Name,
		a.Type,
		a.Grade,
		a.Weight,
		a.Date,
		a.ID,
		a.CourseID,
	)

	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCourse(row rowScanner) (*models.Course, error) {
	course := &models.Course{}
	err := row.Scan(
		&course.ID,
		&course.OwnerID,
		&course.Name,
		&course.Code,
		&course.TargetGrade,
		&course.Color,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return course, nil
}

func scanAssignment(row rowScanner) (*models.Assignment, error) {
	a := &models.Assignment{}
	err := row.Scan(
		&a.ID,
		&a.CourseID,
		&a.Name,
		&a.Type,
		&a.Grade,
		&a.Weight,
		&a.Date,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func containsAssignment(assignments []models.Assignment, id string) bool {
	for _, a := range assignments {
		if a.ID == id {
			return true
		}
	}
	return false
}

func expectAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
