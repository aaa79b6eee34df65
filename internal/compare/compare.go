// Package compare joins tabell planned hours against SKUD-detected shifts
// into a day-by-day reconciliation matrix, one row per employee.
package compare

import (
	"math"
	"sort"
	"time"

	"github.com/gplans73/tabell-reconciler/internal/model"
	"github.com/gplans73/tabell-reconciler/internal/month"
)

// Result is the full comparison output, ready for JSON serialization or
// handoff to the xlsx/pdf report writers.
type Result struct {
	Rows         []model.ComparisonRow  `json:"comparison"`
	BrokenShifts []model.BrokenShiftOut `json:"broken_shifts"`
	Summary      model.Summary          `json:"summary"`
}

// Compare builds the reconciliation matrix for [dateFrom, dateTo]. Tabell
// entries are the primary source of employee identity: a punch pattern with
// no matching tabell entry never produces a row, since there is no planned
// hours figure to diff it against.
func Compare(
	shiftsByEmployee map[string][]model.Shift,
	brokenShifts []model.Shift,
	tabellEntries []model.TabellEntry,
	dateFrom, dateTo time.Time,
) Result {
	dates := dateRange(dateFrom, dateTo)

	tabellByEmp := make(map[string][]model.TabellEntry)
	for _, e := range tabellEntries {
		tabellByEmp[e.EmployeeID] = append(tabellByEmp[e.EmployeeID], e)
	}

	skudHours := make(map[string]map[string]float64)
	skudShiftTypes := make(map[string]map[string]model.ShiftType)
	for empID, shifts := range shiftsByEmployee {
		skudHours[empID] = make(map[string]float64)
		skudShiftTypes[empID] = make(map[string]model.ShiftType)
		for _, s := range shifts {
			key := isoDate(s.AttributedDate)
			skudHours[empID][key] += s.Hours
			skudShiftTypes[empID][key] = s.ShiftType
		}
	}

	brokenDates := make(map[string]map[string]bool)
	for _, s := range brokenShifts {
		if brokenDates[s.EmployeeID] == nil {
			brokenDates[s.EmployeeID] = make(map[string]bool)
		}
		brokenDates[s.EmployeeID][isoDate(s.AttributedDate)] = true
	}

	allEmpIDs := make([]string, 0, len(tabellByEmp))
	for id := range tabellByEmp {
		allEmpIDs = append(allEmpIDs, id)
	}
	sort.Strings(allEmpIDs)

	rows := make([]model.ComparisonRow, 0, len(allEmpIDs))
	for _, empID := range allEmpIDs {
		entries := tabellByEmp[empID]
		row := model.ComparisonRow{
			EmployeeID: empID,
			Name:       entries[0].Name,
			JobTitle:   entries[0].JobTitle,
			Days:       make(map[string]model.DayComparison, len(dates)),
		}

		for _, d := range dates {
			key := isoDate(d)
			tabellH := tabellHours(entries, d)
			skudH := skudHours[empID][key]
			shiftType, hasType := skudShiftTypes[empID][key]
			isBroken := brokenDates[empID][key]

			row.Days[key] = model.DayComparison{
				TabellHours:  tabellH,
				SkudHours:    round1(skudH),
				Diff:         round1(tabellH - skudH),
				Broken:       isBroken,
				ShiftType:    shiftType,
				HasShiftType: hasType,
			}
		}

		rows = append(rows, row)
	}

	brokenOut := make([]model.BrokenShiftOut, 0, len(brokenShifts))
	sortedBroken := append([]model.Shift(nil), brokenShifts...)
	sort.SliceStable(sortedBroken, func(i, j int) bool {
		if sortedBroken[i].EmployeeID != sortedBroken[j].EmployeeID {
			return sortedBroken[i].EmployeeID < sortedBroken[j].EmployeeID
		}
		return sortedBroken[i].AttributedDate.Before(sortedBroken[j].AttributedDate)
	})
	for _, s := range sortedBroken {
		name := ""
		if entries, ok := tabellByEmp[s.EmployeeID]; ok && len(entries) > 0 {
			name = entries[0].Name
		}
		brokenOut = append(brokenOut, model.BrokenShiftOut{
			EmployeeID:     s.EmployeeID,
			Name:           name,
			AttributedDate: isoDate(s.AttributedDate),
			PunchTime:      s.StartPunch.Format("2006-01-02 15:04:05"),
			EstimatedType:  estimateShiftType(s.StartPunch.Hour()),
		})
	}

	matched := 0
	for _, id := range allEmpIDs {
		if _, ok := skudHours[id]; ok {
			matched++
		}
	}
	empWithSkud := make(map[string]bool)
	for id := range shiftsByEmployee {
		empWithSkud[id] = true
	}
	for _, s := range brokenShifts {
		empWithSkud[s.EmployeeID] = true
	}

	summary := model.Summary{
		TotalEmployeesTabell: len(allEmpIDs),
		TotalEmployeesSkud:   len(empWithSkud),
		MatchedEmployees:     matched,
		BrokenCount:          len(brokenShifts),
		DateFrom:             isoDate(dateFrom),
		DateTo:               isoDate(dateTo),
	}

	return Result{Rows: rows, BrokenShifts: brokenOut, Summary: summary}
}

func tabellHours(entries []model.TabellEntry, d time.Time) float64 {
	for _, e := range entries {
		monthNum, ok := month.Number(e.Month)
		if ok && monthNum == int(d.Month()) {
			return e.DailyHours[d.Day()]
		}
	}
	return 0
}

// estimateShiftType guesses what kind of shift a lone unpaired punch might
// have belonged to, purely from the hour it was punched. Used only to
// annotate broken shifts for a human reviewer — it plays no role in
// detection.
func estimateShiftType(hour int) string {
	switch {
	case hour >= 4 && hour <= 10:
		return "day_start?"
	case hour >= 14 && hour <= 20:
		return "day_end?"
	case hour >= 15 && hour <= 23:
		return "night_start?"
	case hour >= 0 && hour <= 4:
		return "night_end?"
	default:
		return "unknown"
	}
}

func dateRange(from, to time.Time) []time.Time {
	var dates []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
