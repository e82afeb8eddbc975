package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/roadmap-matcher/internal/roadmap"
)

const (
	templatesSheet    = "Roadmaps"
	userRoadmapsSheet = "User Roadmaps"
)

var templateHeaders = []string{"id", "goal", "domain", "roadmap", "difficulty", "estimated_hours", "prerequisites", "learning_outcomes"}

// WriteXLSX writes templates to an .xlsx file that Load can read back.
func WriteXLSX(path string, templates []roadmap.Template, userRoadmaps []roadmap.UserRoadmap) error {
	f := excelize.NewFile()
	defer f.Close()

	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}

	if err := f.SetSheetName("Sheet1", templatesSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := writeRow(f, templatesSheet, 1, toAny(templateHeaders), headerStyle); err != nil {
		return err
	}
	for i, t := range templates {
		values := []any{t.ID, t.Goal, t.Domain, FormatSteps(t.Steps), t.Difficulty, t.EstimatedHours, t.Prerequisites, t.LearningOutcomes}
		if err := writeRow(f, templatesSheet, i+2, values, 0); err != nil {
			return err
		}
	}

	if len(userRoadmaps) > 0 {
		if _, err := f.NewSheet(userRoadmapsSheet); err != nil {
			return err
		}
		headers := []any{"id", "user_id", "goal", "domain", "roadmap", "base_template_id", "generation_count", "updated_at"}
		if err := writeRow(f, userRoadmapsSheet, 1, headers, headerStyle); err != nil {
			return err
		}
		for i, r := range userRoadmaps {
			values := []any{r.ID, r.Owner(), r.Goal, r.Domain, FormatSteps(r.Steps), r.BaseTemplateID, r.GenerationCount, r.UpdatedAt.Format("2006-01-02 15:04:05")}
			if err := writeRow(f, userRoadmapsSheet, i+2, values, 0); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(filepath.Clean(path)); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any, style int) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return err
	}
	if style == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, style)
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// FormatSteps renders steps in the "Cat: a; b | Cat2: c" form ParseSteps accepts.
func FormatSteps(steps []roadmap.Step) string {
	blocks := make([]string, 0, len(steps))
	for _, step := range steps {
		blocks = append(blocks, step.Category+": "+strings.Join(step.Skills, "; "))
	}
	return strings.Join(blocks, " | ")
}
