package export

import (
	"fmt"
	"strings"

	"cutplan/internal/model"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook writes the ranked solutions into an xlsx workbook: one
// summary sheet plus a detail sheet per solution.
func WriteWorkbook(path string, sheet model.Sheet, solutions []model.Solution) error {
	workbook := excelize.NewFile()
	defer workbook.Close()

	const summary = "Summary"
	if err := workbook.SetSheetName("Sheet1", summary); err != nil {
		return fmt.Errorf("cannot rename summary sheet: %v", err)
	}

	header := []any{"Rank", "Strategy", "Utilization", "Sheets", "Distinct patterns"}
	if err := workbook.SetSheetRow(summary, "A1", &header); err != nil {
		return err
	}
	if err := workbook.SetSheetRow(summary, "A2", &[]any{
		"Sheet", sheet.Material, fmt.Sprintf("%dx%dx%d", sheet.Width, sheet.Length, sheet.Thickness),
	}); err != nil {
		return err
	}

	for i, solution := range solutions {
		row := []any{
			solution.Rank,
			solution.Strategy.String(),
			solution.Utilization,
			solution.Sheets,
			len(solution.Patterns),
		}
		cell := fmt.Sprintf("A%d", i+3)
		if err := workbook.SetSheetRow(summary, cell, &row); err != nil {
			return err
		}

		if err := writeSolutionSheet(workbook, solution); err != nil {
			return err
		}
	}

	return workbook.SaveAs(path)
}

func writeSolutionSheet(workbook *excelize.File, solution model.Solution) error {
	name := fmt.Sprintf("Solution %d", solution.Rank)
	if _, err := workbook.NewSheet(name); err != nil {
		return fmt.Errorf("cannot add sheet %q: %v", name, err)
	}

	header := []any{"Pattern", "Items", "Quantities", "Use", "Utilization", "Width"}
	if err := workbook.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}

	for i, use := range solution.Patterns {
		codes := make([]string, 0, len(use.Pattern.Items))
		for _, item := range use.Pattern.Items {
			codes = append(codes, item.Code)
		}
		quantities := make([]string, 0, len(use.Pattern.Counts))
		for _, count := range use.Pattern.Counts {
			quantities = append(quantities, fmt.Sprintf("%d", count))
		}
		row := []any{
			i + 1,
			strings.Join(codes, ", "),
			strings.Join(quantities, ", "),
			use.Use,
			use.Pattern.Utilization(),
			use.Pattern.Width(),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := workbook.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
