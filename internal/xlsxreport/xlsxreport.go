// Package xlsxreport writes a comparison result as a styled XLSX workbook:
// one sheet per employee, dates as columns, tabell/skud/diff rows, plus a
// summary sheet and a broken-shifts sheet.
package xlsxreport

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/gplans73/tabell-reconciler/internal/compare"
	"github.com/gplans73/tabell-reconciler/internal/model"
)

type styles struct {
	HeaderStyle     int
	HoursStyle      int
	DiffStyle       int
	ThinBorderStyle int
}

func buildStyles(f *excelize.File) (styles, error) {
	var s styles

	hs, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9D9D9"}},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return s, err
	}
	s.HeaderStyle = hs

	hoursStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		NumFmt:    4, // "#,##0.00"
	})
	if err != nil {
		return s, err
	}
	s.HoursStyle = hoursStyle

	diffStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		NumFmt:    4,
		Font:      &excelize.Font{Color: "C00000"},
	})
	if err != nil {
		return s, err
	}
	s.DiffStyle = diffStyle

	bs, err := f.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return s, err
	}
	s.ThinBorderStyle = bs

	return s, nil
}

// WriteComparisonWorkbook builds the xlsx report. The first sheet is
// "Summary"; then each employee sheet has the ID and name in row 1, the date
// header in row 3, tabell hours in row 4, SKUD hours in row 5 and diff in
// row 6; a "Broken shifts" sheet closes out the file.
func WriteComparisonWorkbook(result compare.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	st, err := buildStyles(f)
	if err != nil {
		return nil, fmt.Errorf("build styles: %w", err)
	}

	dates := sortedDates(result.Rows)

	firstSheet := "Summary"
	f.SetSheetName("Sheet1", firstSheet)
	writeSummarySheet(f, firstSheet, result, st)

	for _, row := range result.Rows {
		sheetName := sheetSafeName(row.EmployeeID)
		if _, err := f.NewSheet(sheetName); err != nil {
			return nil, fmt.Errorf("create sheet for %s: %w", row.EmployeeID, err)
		}
		writeEmployeeSheet(f, sheetName, row, dates, st)
	}

	writeBrokenSheet(f, "Broken shifts", result, st)

	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, sheet string, result compare.Result, st styles) {
	_ = f.SetCellValue(sheet, "A1", "Date range")
	_ = f.SetCellValue(sheet, "B1", fmt.Sprintf("%s - %s", result.Summary.DateFrom, result.Summary.DateTo))
	_ = f.SetCellValue(sheet, "A2", "Employees in tabell")
	_ = f.SetCellValue(sheet, "B2", result.Summary.TotalEmployeesTabell)
	_ = f.SetCellValue(sheet, "A3", "Employees in SKUD")
	_ = f.SetCellValue(sheet, "B3", result.Summary.TotalEmployeesSkud)
	_ = f.SetCellValue(sheet, "A4", "Matched employees")
	_ = f.SetCellValue(sheet, "B4", result.Summary.MatchedEmployees)
	_ = f.SetCellValue(sheet, "A5", "Broken shift count")
	_ = f.SetCellValue(sheet, "B5", result.Summary.BrokenCount)
	_ = f.SetCellStyle(sheet, "A1", "A5", st.HeaderStyle)
	_ = f.SetColWidth(sheet, "A", "A", 22)
	_ = f.SetColWidth(sheet, "B", "B", 16)
}

func writeEmployeeSheet(f *excelize.File, sheet string, row model.ComparisonRow, dates []string, st styles) {
	_ = f.SetCellValue(sheet, "A1", row.EmployeeID+" "+row.Name)
	_ = f.SetCellValue(sheet, "A3", "Date")
	_ = f.SetCellValue(sheet, "A4", "Tabell")
	_ = f.SetCellValue(sheet, "A5", "SKUD")
	_ = f.SetCellValue(sheet, "A6", "Diff")

	_ = f.SetColWidth(sheet, "A", "A", 12)

	for i, d := range dates {
		col, _ := excelize.ColumnNumberToName(i + 2)
		cell := row.Days[d]

		_ = f.SetCellValue(sheet, col+"3", d)
		_ = f.SetCellValue(sheet, col+"4", cell.TabellHours)
		_ = f.SetCellValue(sheet, col+"5", cell.SkudHours)
		_ = f.SetCellValue(sheet, col+"6", cell.Diff)
		_ = f.SetColWidth(sheet, col, col, 10)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(dates) + 1)
	_ = f.SetCellStyle(sheet, "A3", lastCol+"3", st.HeaderStyle)
	_ = f.SetCellStyle(sheet, "B4", lastCol+"5", st.HoursStyle)
	_ = f.SetCellStyle(sheet, "B6", lastCol+"6", st.DiffStyle)
	_ = f.SetCellStyle(sheet, "A3", lastCol+"6", st.ThinBorderStyle)
}

func writeBrokenSheet(f *excelize.File, sheet string, result compare.Result, st styles) {
	if _, err := f.NewSheet(sheet); err != nil {
		return
	}
	headers := []string{"Employee", "Name", "Date", "Punch time", "Estimated type"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetCellValue(sheet, col+"1", h)
	}
	_ = f.SetCellStyle(sheet, "A1", "E1", st.HeaderStyle)

	for i, b := range result.BrokenShifts {
		r := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r), b.EmployeeID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", r), b.Name)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", r), b.AttributedDate)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", r), b.PunchTime)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", r), b.EstimatedType)
	}
	for _, col := range []string{"A", "B", "C", "D", "E"} {
		_ = f.SetColWidth(sheet, col, col, 16)
	}
}

func sheetSafeName(employeeID string) string {
	name := employeeID
	if len(name) > 28 {
		name = name[:28]
	}
	if name == "" {
		name = "Employee"
	}
	return name
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
