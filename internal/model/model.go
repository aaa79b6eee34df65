// Package model holds the plain data types shared across the reconciliation
// pipeline: punches read from SKUD, shifts inferred from them, tabell rows
// read from the spreadsheet export, and the day-by-day comparison they
// produce together.
package model

import (
	"encoding/json"
	"time"
)

// ShiftType tags the three kinds of inferred work interval.
type ShiftType string

const (
	ShiftDay    ShiftType = "day"
	ShiftNight  ShiftType = "night"
	ShiftBroken ShiftType = "broken"
)

// PunchRecord is one access-control event for one employee. Immutable after
// parsing.
type PunchRecord struct {
	EmployeeID    string
	PunchDate     time.Time // date-only, midnight local
	PunchTime     time.Time // wall time only; year/month/day are zero-value
	PunchDateTime time.Time // PunchDate + PunchTime, for arithmetic
}

// Shift is one inferred work interval.
//
// EndPunch is the zero time.Time when ShiftType is ShiftBroken; Hours is 0
// in that case too.
type Shift struct {
	EmployeeID     string
	ShiftType      ShiftType
	AttributedDate time.Time
	StartPunch     time.Time
	EndPunch       time.Time
	HasEnd         bool
	Hours          float64
}

// TabellEntry is one row of the planned timesheet for one employee in one
// calendar month. DailyHours maps day-of-month (1..31) to planned hours.
type TabellEntry struct {
	EmployeeID string
	Name       string
	JobTitle   string
	Company    string
	Project    string
	Month      string // capitalized English month name
	DailyHours map[int]float64
}

// DayComparison is one employee/date cell of the reconciliation matrix.
type DayComparison struct {
	TabellHours  float64
	SkudHours    float64
	Diff         float64
	Broken       bool
	ShiftType    ShiftType
	HasShiftType bool
}

// MarshalJSON emits shift_type as null when the date has no detected
// shift, matching the comparator's "missing vs zero" distinction.
func (d DayComparison) MarshalJSON() ([]byte, error) {
	type wire struct {
		Tabell    float64    `json:"tabell"`
		Skud      float64    `json:"skud"`
		Diff      float64    `json:"diff"`
		Broken    bool       `json:"broken"`
		ShiftType *ShiftType `json:"shift_type"`
	}
	w := wire{Tabell: d.TabellHours, Skud: d.SkudHours, Diff: d.Diff, Broken: d.Broken}
	if d.HasShiftType {
		w.ShiftType = &d.ShiftType
	}
	return json.Marshal(w)
}

// ComparisonRow is one employee's row of the reconciliation matrix.
type ComparisonRow struct {
	EmployeeID string                   `json:"employee_id"`
	Name       string                   `json:"name"`
	JobTitle   string                   `json:"job_title"`
	Days       map[string]DayComparison `json:"days"` // ISO date string -> cell
}

// BrokenShiftOut is the serialized view of a broken (unpaired) shift.
type BrokenShiftOut struct {
	EmployeeID     string `json:"employee_id"`
	Name           string `json:"name"`
	AttributedDate string `json:"attributed_date"` // ISO date
	PunchTime      string `json:"punch_time"`       // "2006-01-02 15:04:05"
	EstimatedType  string `json:"estimated_type"`
}

// Summary is the aggregate counts attached to a comparison result.
type Summary struct {
	TotalEmployeesTabell int
	TotalEmployeesSkud   int
	MatchedEmployees     int
	BrokenCount          int
	DateFrom             string
	DateTo               string
}

// MarshalJSON folds DateFrom/DateTo into the single date_range pair the
// external contract uses.
func (s Summary) MarshalJSON() ([]byte, error) {
	type wire struct {
		TotalEmployeesTabell int      `json:"total_employees_tabell"`
		TotalEmployeesSkud   int      `json:"total_employees_skud"`
		MatchedEmployees     int      `json:"matched_employees"`
		BrokenCount          int      `json:"broken_count"`
		DateRange            []string `json:"date_range"`
	}
	return json.Marshal(wire{
		TotalEmployeesTabell: s.TotalEmployeesTabell,
		TotalEmployeesSkud:   s.TotalEmployeesSkud,
		MatchedEmployees:     s.MatchedEmployees,
		BrokenCount:          s.BrokenCount,
		DateRange:            []string{s.DateFrom, s.DateTo},
	})
}
