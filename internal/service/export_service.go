package service

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	"github.com/RubachokBoss/grade-tracker/internal/models"
	"github.com/RubachokBoss/grade-tracker/internal/repository"
	"github.com/RubachokBoss/grade-tracker/internal/service/grading"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Gradebook"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// ExportService renders a course gradebook as an .xlsx workbook. The buffer is
// returned to the handler, which sets the download headers.
type ExportService interface {
	ExportCourse(ctx context.Context, owner models.Owner, courseID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	stores     repository.StoreResolver
	aggregator grading.CourseAggregator
	logger     zerolog.Logger
}

func NewExportService(stores repository.StoreResolver, aggregator grading.CourseAggregator, logger zerolog.Logger) ExportService {
	return &exportService{
		stores:     stores,
		aggregator: aggregator,
		logger:     logger,
	}
}

func (s *exportService) ExportCourse(ctx context.Context, owner models.Owner, courseID string) (*bytes.Buffer, string, error) {
	store, err := s.stores.For(owner)
	if err != nil {
		return nil, "", err
	}

	course, err := store.GetCourse(ctx, owner.ID, courseID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, "", ErrCourseNotFound
	}

	summary := s.aggregator.Summarize(course.GradingInput())

	buf, err := s.render(course, summary)
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to write workbook")
		return nil, "", ErrExportFailed
	}

	filename := fmt.Sprintf("%s_grades.xlsx", unsafeFilenameChars.ReplaceAllString(course.Code, "_"))
	return buf, filename, nil
}

func (s *exportService) render(course *models.Course, summary grading.Summary) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(exportSheet, "A", "A", 28)
	f.SetColWidth(exportSheet, "B", "B", 16)
	f.SetColWidth(exportSheet, "C", "C", 12)
	f.SetColWidth(exportSheet, "D", "G", 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#3B82F6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	labelStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	percentStyle, _ := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr("0.00")})

	// Заголовок курса
	f.SetCellValue(exportSheet, "A1", fmt.Sprintf("%s (%s)", course.Name, course.Code))
	f.MergeCell(exportSheet, "A1", "G1")
	f.SetCellStyle(exportSheet, "A1", "A1", labelStyle)

	headers := []string{"Assignment", "Type", "Date", "Grade", "Weight", "Points", "Letter"}
	for i, h := range headers {
		f.SetCellValue(exportSheet, cell(colName(i), 2), h)
	}
	f.SetCellStyle(exportSheet, "A2", "G2", headerStyle)

	row := 3
	for _, a := range models.SortByDate(course.Assignments) {
		f.SetCellValue(exportSheet, cell("A", row), a.Name)
		f.SetCellValue(exportSheet, cell("B", row), a.Type)
		f.SetCellValue(exportSheet, cell("C", row), a.Date)
		f.SetCellValue(exportSheet, cell("D", row), a.Grade)
		f.SetCellValue(exportSheet, cell("E", row), a.Weight)
		f.SetCellValue(exportSheet, cell("F", row), a.Grade*a.Weight/100)
		f.SetCellValue(exportSheet, cell("G", row), grading.Classify(a.Grade).Letter)
		row++
	}
	if row > 3 {
		f.SetCellStyle(exportSheet, cell("D", 3), cell("F", row-1), percentStyle)
	}

	row++
	current := "--"
	if summary.HasGrades {
		current = fmt.Sprintf("%.2f%% (%s)", summary.CurrentGrade, summary.CurrentLetter.Letter)
	}

	lines := [][2]interface{}{
		{"Current grade", current},
		{"Completed weight", fmt.Sprintf("%.2f%%", summary.Completion)},
		{"Remaining weight", fmt.Sprintf("%.2f%%", summary.RemainingWeight)},
		{"Target grade", fmt.Sprintf("%.2f%% (%s)", summary.TargetGrade, summary.TargetLetter.Letter)},
	}
	if p := summary.Projection; p != nil {
		lines = append(lines,
			[2]interface{}{"Required on remaining", fmt.Sprintf("%.2f%%", p.Required)},
			[2]interface{}{"Outlook", p.Message},
		)
	}

	for _, line := range lines {
		f.SetCellValue(exportSheet, cell("A", row), line[0])
		f.SetCellValue(exportSheet, cell("B", row), line[1])
		f.SetCellStyle(exportSheet, cell("A", row), cell("A", row), labelStyle)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}

	return buf, nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func strPtr(s string) *string {
	return &s
}
