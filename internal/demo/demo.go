package demo

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/RubachokBoss/grade-tracker/internal/models"
	"github.com/RubachokBoss/grade-tracker/internal/service/grading"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var builtin []byte

type datasetFile struct {
	Courses []courseFile `yaml:"courses"`
}

type courseFile struct {
	Name        string           `yaml:"name"`
	Code        string           `yaml:"code"`
	TargetGrade *float64         `yaml:"target_grade"`
	Color       string           `yaml:"color"`
	Assignments []assignmentFile `yaml:"assignments"`
}

type assignmentFile struct {
	Name   string  `yaml:"name"`
	Type   string  `yaml:"type"`
	Grade  float64 `yaml:"grade"`
	Weight float64 `yaml:"weight"`
	Date   string  `yaml:"date"`
}

// Dataset is a validated set of demo courses. Build stamps fresh IDs on
// every call so that guest sessions never share identifiers.
type Dataset struct {
	courses []courseFile
}

// Load reads the dataset from path, or the built-in one when path is empty.
func Load(path string) (*Dataset, error) {
	data := builtin
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read demo dataset: %w", err)
		}
	}

	return Parse(data)
}

func Parse(data []byte) (*Dataset, error) {
	var df datasetFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("failed to parse demo dataset: %w", err)
	}

	codes := make(map[string]bool)
	for i := range df.Courses {
		c := &df.Courses[i]
		if err := validateCourse(c); err != nil {
			return nil, fmt.Errorf("demo course %d: %w", i+1, err)
		}
		key := strings.ToLower(c.Code)
		if codes[key] {
			return nil, fmt.Errorf("demo course %d: duplicate code %q", i+1, c.Code)
		}
		codes[key] = true
	}

	return &Dataset{courses: df.Courses}, nil
}

func (d *Dataset) Len() int {
	return len(d.courses)
}

// Build returns the demo courses for ownerID with new IDs and timestamps.
func (d *Dataset) Build(ownerID string) []models.Course {
	now := time.Now().UTC()
	courses := make([]models.Course, 0, len(d.courses))

	// Порядок из файла сохраняется при сортировке по created_at DESC
	for i, cf := range d.courses {
		created := now.Add(-time.Duration(i) * time.Second)
		course := models.Course{
			ID:          uuid.New().String(),
			OwnerID:     ownerID,
			Name:        cf.Name,
			Code:        cf.Code,
			TargetGrade: models.DefaultTargetGrade,
			Color:       models.DefaultCourseColor,
			Assignments: make([]models.Assignment, 0, len(cf.Assignments)),
			CreatedAt:   created,
			UpdatedAt:   created,
		}
		if cf.TargetGrade != nil {
			course.TargetGrade = *cf.TargetGrade
		}
		if cf.Color != "" {
			course.Color = cf.Color
		}

		for _, af := range cf.Assignments {
			a := models.Assignment{
				ID:        uuid.New().String(),
				CourseID:  course.ID,
				Name:      af.Name,
				Type:      af.Type,
				Grade:     af.Grade,
				Weight:    af.Weight,
				Date:      af.Date,
				CreatedAt: created,
			}
			if a.Type == "" {
				a.Type = string(models.AssignmentTypeAssignment)
			}
			if a.Date == "" {
				a.Date = now.Format(models.DateLayout)
			}
			course.Assignments = append(course.Assignments, a)
		}

		courses = append(courses, course)
	}

	return courses
}

func validateCourse(c *courseFile) error {
	if c.Name == "" || c.Code == "" {
		return fmt.Errorf("name and code are required")
	}
	if c.TargetGrade != nil {
		if err := grading.ValidatePercentage("target_grade", *c.TargetGrade); err != nil {
			return err
		}
	}
	if c.Color != "" && !models.IsValidCourseColor(c.Color) {
		return fmt.Errorf("unknown color %q", c.Color)
	}

	var total float64
	for _, a := range c.Assignments {
		if a.Name == "" {
			return fmt.Errorf("assignment name is required")
		}
		if a.Type != "" && !models.IsValidAssignmentType(a.Type) {
			return fmt.Errorf("assignment %q: unknown type %q", a.Name, a.Type)
		}
		if a.Date != "" && !models.IsValidDate(a.Date) {
			return fmt.Errorf("assignment %q: invalid date %q", a.Name, a.Date)
		}
		if err := grading.ValidatePercentage("grade", a.Grade); err != nil {
			return fmt.Errorf("assignment %q: %w", a.Name, err)
		}
		if err := grading.ValidatePercentage("weight", a.Weight); err != nil {
			return fmt.Errorf("assignment %q: %w", a.Name, err)
		}
		total += a.Weight
	}

	entries := make([]grading.Entry, len(c.Assignments))
	for i, a := range c.Assignments {
		entries[i] = grading.Entry{Weight: a.Weight}
	}
	if budget := grading.CheckBudget(entries, 0, ""); !budget.OK {
		return fmt.Errorf("assignment weights add up to %.2f%%: %w", total, budget.Err())
	}

	return nil
}
