// Package skud parses the access-control (SKUD) XLSX export into punch
// records, using excelize's streaming row iterator so a full site-month
// export doesn't have to be loaded as a grid of cells up front.
package skud

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/gplans73/tabell-reconciler/internal/apperr"
	"github.com/gplans73/tabell-reconciler/internal/model"
)

const (
	headerScanMaxRow = 3
	dateLayout       = "2006-01-02"
	timeLayout       = "15:04:05"
)

// OpenAndParse opens an SKUD export from disk and parses it for the date
// range [dateFrom, dateTo], buffered by one day on each side for night-shift
// pairing across midnight.
func OpenAndParse(path string, dateFrom, dateTo time.Time) ([]model.PunchRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperr.BadInput("open skud workbook: %v", err)
	}
	defer f.Close()
	return ParseWorkbook(f, dateFrom, dateTo)
}

// ParseWorkbook reads the active sheet of an already-open workbook, looking
// for a header row (within the first 3 rows) naming "Employee ID", "Date"
// and "Time" columns, then streams every subsequent row through excelize's
// Rows iterator rather than materializing the whole sheet with GetRows.
func ParseWorkbook(f *excelize.File, dateFrom, dateTo time.Time) ([]model.PunchRecord, error) {
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, apperr.BadInput("skud workbook has no sheets")
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, apperr.BadInput("read skud sheet: %v", err)
	}
	defer rows.Close()

	bufferFrom := dateFrom.AddDate(0, 0, -1)
	bufferTo := dateTo.AddDate(0, 0, 1)

	empCol, dateCol, timeCol := -1, -1, -1
	rowIdx := 0
	var punches []model.PunchRecord

	for rows.Next() {
		rowIdx++
		cells, err := rows.Columns()
		if err != nil {
			return nil, apperr.ParseFatal(fmt.Errorf("read skud row %d: %w", rowIdx, err))
		}

		if empCol < 0 {
			if rowIdx > headerScanMaxRow {
				return nil, apperr.BadInput("could not find header row with 'Employee ID' column")
			}
			empCol, dateCol, timeCol = scanHeader(cells)
			if empCol < 0 {
				continue
			}
			if dateCol < 0 || timeCol < 0 {
				return nil, apperr.BadInput("missing required Date/Time columns in skud workbook")
			}
			continue
		}

		rec, ok := parseRow(cells, empCol, dateCol, timeCol)
		if !ok {
			continue
		}
		if rec.PunchDate.Before(bufferFrom) || rec.PunchDate.After(bufferTo) {
			continue
		}
		punches = append(punches, rec)
	}

	if empCol < 0 {
		return nil, apperr.BadInput("could not find header row with 'Employee ID' column")
	}

	return punches, nil
}

func scanHeader(cells []string) (empCol, dateCol, timeCol int) {
	empCol, dateCol, timeCol = -1, -1, -1
	for i, v := range cells {
		switch strings.TrimSpace(v) {
		case "Employee ID":
			empCol = i
		case "Date":
			dateCol = i
		case "Time":
			timeCol = i
		}
	}
	return
}

func parseRow(cells []string, empCol, dateCol, timeCol int) (model.PunchRecord, bool) {
	if empCol >= len(cells) || dateCol >= len(cells) || timeCol >= len(cells) {
		return model.PunchRecord{}, false
	}
	empID := strings.TrimSpace(cells[empCol])
	dateRaw := strings.TrimSpace(cells[dateCol])
	timeRaw := strings.TrimSpace(cells[timeCol])
	if empID == "" || dateRaw == "" || timeRaw == "" {
		return model.PunchRecord{}, false
	}

	punchDate, err := parseCellDate(dateRaw)
	if err != nil {
		return model.PunchRecord{}, false
	}
	punchTime, err := parseCellTime(timeRaw)
	if err != nil {
		return model.PunchRecord{}, false
	}

	punchDateTime := time.Date(
		punchDate.Year(), punchDate.Month(), punchDate.Day(),
		punchTime.Hour(), punchTime.Minute(), punchTime.Second(), 0,
		time.Local,
	)

	return model.PunchRecord{
		EmployeeID:    empID,
		PunchDate:     punchDate,
		PunchTime:     punchTime,
		PunchDateTime: punchDateTime,
	}, true
}

// parseCellDate handles both a plain "2006-01-02" string and the
// "2006-01-02 15:04:05" shape excelize sometimes returns for a shared
// date/datetime cell.
func parseCellDate(raw string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateLayout, raw, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", raw, time.Local); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date cell %q", raw)
}

func parseCellTime(raw string) (time.Time, error) {
	if t, err := time.ParseInLocation(timeLayout, raw, time.UTC); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("15:04", raw, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time cell %q", raw)
}
