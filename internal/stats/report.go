package stats

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// CourseRow is one course line in the exported report.
type CourseRow struct {
	Slug    string
	Title   string
	Summary CourseSummary
}

// WriteReport exports a learner's progress as an xlsx workbook with an
// overview sheet and a per-course sheet.
func WriteReport(path string, overview LearnerOverview, rows []CourseRow) error {
	f := excelize.NewFile()
	defer f.Close()

	const overviewSheet = "Overview"
	const coursesSheet = "Courses"

	if err := f.SetSheetName("Sheet1", overviewSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(coursesSheet); err != nil {
		return fmt.Errorf("create courses sheet: %w", err)
	}

	overviewCells := []struct {
		label string
		value any
	}{
		{"Courses completed", overview.CoursesCompleted},
		{"Courses in progress", overview.CoursesInProgress},
		{"Quiz attempts", overview.TotalQuizzes},
		{"Average quiz score %", overview.AverageQuizScorePercent},
	}
	for i, c := range overviewCells {
		row := i + 1
		if err := f.SetCellValue(overviewSheet, fmt.Sprintf("A%d", row), c.label); err != nil {
			return fmt.Errorf("write overview: %w", err)
		}
		if err := f.SetCellValue(overviewSheet, fmt.Sprintf("B%d", row), c.value); err != nil {
			return fmt.Errorf("write overview: %w", err)
		}
	}

	header := []any{"Slug", "Title", "Total lessons", "Completed", "Percent"}
	if err := f.SetSheetRow(coursesSheet, "A1", &header); err != nil {
		return fmt.Errorf("write course header: %w", err)
	}
	for i, r := range rows {
		cells := []any{
			r.Slug,
			r.Title,
			r.Summary.TotalLessons,
			r.Summary.CompletedLessons,
			r.Summary.PercentComplete,
		}
		if err := f.SetSheetRow(coursesSheet, fmt.Sprintf("A%d", i+2), &cells); err != nil {
			return fmt.Errorf("write course row: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}
