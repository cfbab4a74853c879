package export

import (
	"fmt"
	"strings"

	"cutplan/internal/model"

	"github.com/go-pdf/fpdf"
)

// WriteReport renders the ranked solutions as a printable cutting plan,
// one page per solution.
func WriteReport(path string, sheet model.Sheet, solutions []model.Solution) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Cutting plan", false)

	for _, solution := range solutions {
		pdf.AddPage()

		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, fmt.Sprintf("Solution %d (%s)", solution.Rank, solution.Strategy), "", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("Sheet: %s %dx%dx%d", sheet.Material, sheet.Width, sheet.Length, sheet.Thickness), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("Utilization: %.2f%%", solution.Utilization*100), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("Sheets necessary: %d", solution.Sheets), "", 1, "L", false, 0, "")
		pdf.Ln(4)

		writePatternTable(pdf, solution)
	}

	return pdf.OutputFileAndClose(path)
}

func writePatternTable(pdf *fpdf.Fpdf, solution model.Solution) {
	widths := []float64{15, 60, 35, 15, 25, 20}
	header := []string{"#", "Items", "Quantities", "Use", "Utilization", "Width"}

	pdf.SetFont("Arial", "B", 10)
	for i, title := range header {
		pdf.CellFormat(widths[i], 7, title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for i, use := range solution.Patterns {
		codes := make([]string, 0, len(use.Pattern.Items))
		for _, item := range use.Pattern.Items {
			codes = append(codes, item.Code)
		}
		quantities := make([]string, 0, len(use.Pattern.Counts))
		for _, count := range use.Pattern.Counts {
			quantities = append(quantities, fmt.Sprintf("%d", count))
		}

		cells := []string{
			fmt.Sprintf("%d", i+1),
			strings.Join(codes, ", "),
			strings.Join(quantities, ", "),
			fmt.Sprintf("%d", use.Use),
			fmt.Sprintf("%.2f%%", use.Pattern.Utilization()*100),
			fmt.Sprintf("%d", use.Pattern.Width()),
		}
		for j, cell := range cells {
			align := "C"
			if j == 1 {
				align = "L"
			}
			pdf.CellFormat(widths[j], 7, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}
