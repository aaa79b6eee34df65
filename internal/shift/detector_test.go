package shift

import (
	"testing"
	"time"

	"github.com/gplans73/tabell-reconciler/internal/model"
)

func TestDetectForEmployee_PureDayShift(t *testing.T) {
	punches := []model.PunchRecord{
		punch(t, "2025-03-10 06:00:00"),
		punch(t, "2025-03-10 16:50:00"),
	}

	shifts := detectForEmployee("E1", punches)

	assertSingleShift(t, shifts, model.ShiftDay, "2025-03-10", 10.8)
}

func TestDetectForEmployee_Overnight(t *testing.T) {
	punches := []model.PunchRecord{
		punch(t, "2025-03-10 17:00:00"),
		punch(t, "2025-03-11 05:30:00"),
	}

	shifts := detectForEmployee("E1", punches)

	assertSingleShift(t, shifts, model.ShiftNight, "2025-03-10", 12.5)
}

func TestDetectForEmployee_PostMidnight(t *testing.T) {
	punches := []model.PunchRecord{
		punch(t, "2025-03-11 01:00:00"),
		punch(t, "2025-03-11 09:00:00"),
	}

	shifts := detectForEmployee("E1", punches)

	assertSingleShift(t, shifts, model.ShiftNight, "2025-03-10", 8.0)
}

func TestDetectForEmployee_DayThenNightSameDate(t *testing.T) {
	punches := []model.PunchRecord{
		punch(t, "2025-03-10 06:00:00"),
		punch(t, "2025-03-10 16:00:00"),
		punch(t, "2025-03-10 17:00:00"),
		punch(t, "2025-03-11 05:00:00"),
	}

	shifts := detectForEmployee("E1", punches)

	var day, night *model.Shift
	for i := range shifts {
		switch shifts[i].ShiftType {
		case model.ShiftDay:
			day = &shifts[i]
		case model.ShiftNight:
			night = &shifts[i]
		}
	}
	if day == nil || night == nil {
		t.Fatalf("expected one day and one night shift, got %d shifts", len(shifts))
	}
	if day.Hours != 10.0 {
		t.Fatalf("expected day shift 10h, got %.1f", day.Hours)
	}
	if night.Hours != 12.0 {
		t.Fatalf("expected night shift 12h, got %.1f", night.Hours)
	}
}

func TestDetectForEmployee_Broken(t *testing.T) {
	punches := []model.PunchRecord{
		punch(t, "2025-03-10 08:00:00"),
	}

	shifts := detectForEmployee("E1", punches)

	if len(shifts) != 1 {
		t.Fatalf("expected 1 broken shift, got %d", len(shifts))
	}
	if shifts[0].ShiftType != model.ShiftBroken {
		t.Fatalf("expected broken shift, got %s", shifts[0].ShiftType)
	}
	if shifts[0].Hours != 0 {
		t.Fatalf("expected 0 hours for broken shift, got %.1f", shifts[0].Hours)
	}
	wantDate := mustDate(t, "2025-03-10")
	if !sameDate(shifts[0].AttributedDate, wantDate) {
		t.Fatalf("expected attributed date %s, got %s", wantDate, shifts[0].AttributedDate)
	}
}

func TestDetectAll_DropsShiftsOutsideRange(t *testing.T) {
	punches := []model.PunchRecord{
		punch(t, "2025-03-01 06:00:00"),
		punch(t, "2025-03-01 14:00:00"),
		punch(t, "2025-03-10 06:00:00"),
		punch(t, "2025-03-10 14:00:00"),
	}

	from := mustDate(t, "2025-03-05")
	to := mustDate(t, "2025-03-15")

	byEmp, broken := DetectAll(punches, from, to)

	if len(broken) != 0 {
		t.Fatalf("expected no broken shifts, got %d", len(broken))
	}
	shifts, ok := byEmp["E1"]
	if !ok {
		t.Fatalf("expected E1 to have shifts")
	}
	if len(shifts) != 1 {
		t.Fatalf("expected only the in-range day shift to survive, got %d", len(shifts))
	}
}

func TestDetectAll_EveryPunchClaimed(t *testing.T) {
	punches := []model.PunchRecord{
		punch(t, "2025-03-10 06:00:00"),
		punch(t, "2025-03-10 16:00:00"),
		punch(t, "2025-03-10 17:00:00"),
		punch(t, "2025-03-11 05:00:00"),
		punch(t, "2025-03-20 08:00:00"),
	}
	from := mustDate(t, "2025-03-01")
	to := mustDate(t, "2025-03-31")

	byEmp, broken := DetectAll(punches, from, to)

	claimedEndpoints := 0
	for _, shifts := range byEmp {
		for _, s := range shifts {
			claimedEndpoints++
			if s.HasEnd {
				claimedEndpoints++
			}
		}
	}
	// Each non-broken shift accounts for 2 punches (start+end); each broken
	// shift accounts for 1.
	totalAccounted := claimedEndpoints + len(broken)
	if totalAccounted != len(punches) {
		t.Fatalf("expected all %d punches accounted for, got %d", len(punches), totalAccounted)
	}
}

func punch(t *testing.T, value string) model.PunchRecord {
	t.Helper()
	dt, err := time.ParseInLocation("2006-01-02 15:04:05", value, time.Local)
	if err != nil {
		t.Fatalf("parse punch time %q: %v", value, err)
	}
	date := time.Date(dt.Year(), dt.Month(), dt.Day(), 0, 0, 0, 0, time.Local)
	clock := time.Date(0, 1, 1, dt.Hour(), dt.Minute(), dt.Second(), 0, time.UTC)
	return model.PunchRecord{
		EmployeeID:    "E1",
		PunchDate:     date,
		PunchTime:     clock,
		PunchDateTime: dt,
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

func assertSingleShift(t *testing.T, shifts []model.Shift, wantType model.ShiftType, wantDate string, wantHours float64) {
	t.Helper()
	if len(shifts) != 1 {
		t.Fatalf("expected exactly 1 shift, got %d", len(shifts))
	}
	s := shifts[0]
	if s.ShiftType != wantType {
		t.Fatalf("expected shift type %s, got %s", wantType, s.ShiftType)
	}
	if s.Hours != wantHours {
		t.Fatalf("expected %.1f hours, got %.1f", wantHours, s.Hours)
	}
	want := mustDate(t, wantDate)
	if !sameDate(s.AttributedDate, want) {
		t.Fatalf("expected attributed date %s, got %s", wantDate, s.AttributedDate.Format("2006-01-02"))
	}
}
