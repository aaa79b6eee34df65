// Package pdfreport renders a comparison result as a landscape tabular PDF,
// one page per employee row of days, using gofpdf directly rather than
// shelling out to an office suite.
package pdfreport

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/jung-kurt/gofpdf"

	"github.com/gplans73/tabell-reconciler/internal/compare"
	"github.com/gplans73/tabell-reconciler/internal/model"
)

const (
	maxCellLen  = 20
	minColWidth = 15.0
	rowHeight   = 6.0
	bottomGuard = 190.0
)

// WriteComparisonPDF renders the comparison matrix: one header section per
// employee with one table row per date in range (tabell, SKUD, diff and
// shift type columns), plus a broken-shifts page at the end.
func WriteComparisonPDF(result compare.Result) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)

	dates := sortedDates(result.Rows)

	for _, row := range result.Rows {
		pdf.AddPage()

		pdf.SetFont("Arial", "B", 14)
		title := fmt.Sprintf("%s - %s (%s)", row.EmployeeID, row.Name, row.JobTitle)
		pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
		pdf.Ln(5)

		table := [][]string{{"Date", "Tabell", "SKUD", "Diff", "Type"}}
		for _, d := range dates {
			cell := row.Days[d]
			shiftType := ""
			if cell.HasShiftType {
				shiftType = string(cell.ShiftType)
			}
			if cell.Broken {
				shiftType = "broken"
			}
			table = append(table, []string{
				d,
				fmt.Sprintf("%.1f", cell.TabellHours),
				fmt.Sprintf("%.1f", cell.SkudHours),
				fmt.Sprintf("%.1f", cell.Diff),
				shiftType,
			})
		}

		writeTable(pdf, table, 1)
	}

	if len(result.BrokenShifts) > 0 {
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, "Broken shifts", "", 1, "C", false, 0, "")
		pdf.Ln(5)

		table := [][]string{{"Employee", "Name", "Date", "Punch time", "Estimated type"}}
		for _, b := range result.BrokenShifts {
			table = append(table, []string{b.EmployeeID, b.Name, b.AttributedDate, b.PunchTime, b.EstimatedType})
		}
		writeTable(pdf, table, 1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// writeTable renders a rectangular string table, treating headerRows rows
// at the top as bold-and-filled headers, truncating long cells and breaking
// to a new page when near the bottom margin.
func writeTable(pdf *gofpdf.Fpdf, rows [][]string, headerRows int) {
	maxCols := 0
	for _, row := range rows {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}
	if maxCols == 0 {
		return
	}

	pageWidth := 279.0 - 20.0
	colWidth := pageWidth / float64(maxCols)
	if colWidth < minColWidth {
		colWidth = minColWidth
	}

	for rowIdx, row := range rows {
		if pdf.GetY() > bottomGuard {
			pdf.AddPage()
		}

		if rowIdx < headerRows {
			pdf.SetFont("Arial", "B", 9)
			pdf.SetFillColor(220, 220, 220)
		} else {
			pdf.SetFont("Arial", "", 8)
			pdf.SetFillColor(255, 255, 255)
		}

		for colIdx := 0; colIdx < maxCols; colIdx++ {
			cellValue := ""
			if colIdx < len(row) {
				cellValue = row[colIdx]
			}
			if len(cellValue) > maxCellLen {
				cellValue = cellValue[:maxCellLen-3] + "..."
			}

			align := "L"
			if isNumeric(cellValue) {
				align = "R"
			}

			pdf.CellFormat(colWidth, rowHeight, cellValue, "1", 0, align, true, 0, "")
		}
		pdf.Ln(-1)
	}
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != '-' && r != '+' {
			return false
		}
	}
	return true
}

func sortedDates(rows []model.ComparisonRow) []string {
	seen := make(map[string]bool)
	for _, row := range rows {
		for d := range row.Days {
			seen[d] = true
		}
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}
