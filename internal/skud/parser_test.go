package skud

import (
	"strconv"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, headerRow int, rows [][]string) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := []string{"Employee ID", "Date", "Time"}
	headerExcelRow := headerRow
	for i, h := range header {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetCellValue(sheet, col+strconv.Itoa(headerExcelRow), h); err != nil {
			t.Fatalf("set header cell: %v", err)
		}
	}

	for ri, row := range rows {
		excelRow := headerExcelRow + 1 + ri
		for ci, v := range row {
			col, _ := excelize.ColumnNumberToName(ci + 1)
			if err := f.SetCellValue(sheet, col+strconv.Itoa(excelRow), v); err != nil {
				t.Fatalf("set data cell: %v", err)
			}
		}
	}

	return f
}

func TestParseWorkbook_HeaderInFirstRow(t *testing.T) {
	f := buildWorkbook(t, 1, [][]string{
		{"12345", "2025-03-10", "06:00:00"},
		{"12345", "2025-03-10", "16:50:00"},
	})

	from, to := mustDate(t, "2025-03-10"), mustDate(t, "2025-03-10")
	punches, err := ParseWorkbook(f, from, to)
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if len(punches) != 2 {
		t.Fatalf("expected 2 punches, got %d", len(punches))
	}
	if punches[0].EmployeeID != "12345" {
		t.Fatalf("expected employee 12345, got %s", punches[0].EmployeeID)
	}
}

func TestParseWorkbook_HeaderOnThirdRow(t *testing.T) {
	f := buildWorkbook(t, 3, [][]string{
		{"12345", "2025-03-10", "06:00:00"},
	})

	from, to := mustDate(t, "2025-03-10"), mustDate(t, "2025-03-10")
	punches, err := ParseWorkbook(f, from, to)
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if len(punches) != 1 {
		t.Fatalf("expected 1 punch, got %d", len(punches))
	}
}

func TestParseWorkbook_MissingHeaderFails(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetCellValue(sheet, "A1", "nothing")
	_ = f.SetCellValue(sheet, "A2", "nothing")
	_ = f.SetCellValue(sheet, "A3", "nothing")
	_ = f.SetCellValue(sheet, "A4", "12345")

	from, to := mustDate(t, "2025-03-10"), mustDate(t, "2025-03-10")
	if _, err := ParseWorkbook(f, from, to); err == nil {
		t.Fatalf("expected an error when no header row is found")
	}
}

func TestParseWorkbook_FiltersOutsideBufferedRange(t *testing.T) {
	f := buildWorkbook(t, 1, [][]string{
		{"12345", "2025-03-01", "06:00:00"}, // outside range+buffer
		{"12345", "2025-03-09", "23:00:00"}, // inside buffer (from-1)
		{"12345", "2025-03-10", "06:00:00"}, // inside range
	})

	from, to := mustDate(t, "2025-03-10"), mustDate(t, "2025-03-10")
	punches, err := ParseWorkbook(f, from, to)
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if len(punches) != 2 {
		t.Fatalf("expected 2 punches within buffered range, got %d", len(punches))
	}
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return d
}
