// Package shift turns an unordered stream of single-punch events per
// employee into attributed shifts, via the four-pass priority-ordered
// pairing algorithm described in the reconciliation design: day shifts
// first, then overnight night shifts, then post-midnight night shifts,
// with every leftover punch emitted as a broken singleton.
package shift

import (
	"math"
	"sort"
	"time"

	"github.com/gplans73/tabell-reconciler/internal/model"
)

// Hour windows for candidate matching. Tuned to one site's shift schedule;
// the priority ordering between passes is what keeps them safe despite the
// overlap between the pass-1 end window and the pass-2 start window.
const (
	dayStartMinHour = 4
	dayStartMaxHour = 10
	dayEndMinHour   = 14
	dayEndMaxHour   = 20

	nightStartMinHour = 15
	nightStartMaxHour = 23
	nightEndMaxHour   = 13

	postMidnightMaxHour = 4
	postMidnightEndMin  = 5
	postMidnightEndMax  = 13

	maxDayShiftHours = 12.5
)

// claimState is the per-punch state machine: Fresh -> ClaimedDay |
// ClaimedNight | ClaimedBroken. Terminal once claimed, whether the punch
// ended up as an endpoint of a paired shift or was swallowed as an
// intermediate.
type claimState int

const (
	fresh claimState = iota
	claimedDay
	claimedNight
	claimedBroken
)

// DetectAll partitions punches by employee, detects shifts for each
// independently, and splits the result into valid (non-broken) shifts
// grouped by employee and a flat list of broken shifts — after dropping
// anything whose attributed date falls outside [dateFrom, dateTo].
func DetectAll(punches []model.PunchRecord, dateFrom, dateTo time.Time) (map[string][]model.Shift, []model.Shift) {
	byEmployee := make(map[string][]model.PunchRecord)
	for _, p := range punches {
		byEmployee[p.EmployeeID] = append(byEmployee[p.EmployeeID], p)
	}

	shiftsByEmployee := make(map[string][]model.Shift)
	var broken []model.Shift

	for empID, empPunches := range byEmployee {
		shifts := detectForEmployee(empID, empPunches)
		var valid []model.Shift
		for _, s := range shifts {
			if s.AttributedDate.Before(dateFrom) || s.AttributedDate.After(dateTo) {
				continue
			}
			if s.ShiftType == model.ShiftBroken {
				broken = append(broken, s)
			} else {
				valid = append(valid, s)
			}
		}
		if len(valid) > 0 {
			shiftsByEmployee[empID] = valid
		}
	}

	return shiftsByEmployee, broken
}

// detectForEmployee runs the 4-pass algorithm for a single employee's sorted
// punches. Pass order is load-bearing: day shifts must claim same-date pairs
// before the night pass can see them, or an afternoon end punch could be
// mistaken for a night-shift start.
func detectForEmployee(employeeID string, punches []model.PunchRecord) []model.Shift {
	sorted := append([]model.PunchRecord(nil), punches...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PunchDateTime.Before(sorted[j].PunchDateTime)
	})

	n := len(sorted)
	state := make([]claimState, n)
	var shifts []model.Shift

	// Pass 1: day shifts (morning start -> same-date afternoon/evening end).
	for i := 0; i < n; i++ {
		if state[i] != fresh {
			continue
		}
		p := sorted[i]
		hour := p.PunchDateTime.Hour()
		if hour < dayStartMinHour || hour > dayStartMaxHour {
			continue
		}

		bestJ := -1
		for j := i + 1; j < n; j++ {
			if state[j] != fresh {
				continue
			}
			q := sorted[j]
			if !sameDate(q.PunchDate, p.PunchDate) {
				break
			}
			qh := q.PunchDateTime.Hour()
			if qh >= dayEndMinHour && qh <= dayEndMaxHour {
				bestJ = j // latest matching end on the same date
			}
		}

		if bestJ < 0 {
			continue
		}
		end := sorted[bestJ]
		hrs := end.PunchDateTime.Sub(p.PunchDateTime).Hours()
		// Reject implausibly long "day" shifts: a ~13h pairing of a
		// night-shift end with the next night-shift start that happen to
		// share a calendar date must not be treated as a day shift.
		if hrs > maxDayShiftHours {
			continue
		}
		shifts = append(shifts, model.Shift{
			EmployeeID:     employeeID,
			ShiftType:      model.ShiftDay,
			AttributedDate: p.PunchDate,
			StartPunch:     p.PunchDateTime,
			EndPunch:       end.PunchDateTime,
			HasEnd:         true,
			Hours:          round1(hrs),
		})
		state[i] = claimedDay
		state[bestJ] = claimedDay
		for k := i + 1; k < bestJ; k++ {
			if state[k] == fresh && sameDate(sorted[k].PunchDate, p.PunchDate) {
				state[k] = claimedDay
			}
		}
	}

	// Pass 2: overnight night shifts (evening start -> next-day morning end).
	for i := 0; i < n; i++ {
		if state[i] != fresh {
			continue
		}
		p := sorted[i]
		hour := p.PunchDateTime.Hour()
		if hour < nightStartMinHour || hour > nightStartMaxHour {
			continue
		}

		nextDate := p.PunchDate.AddDate(0, 0, 1)
		bestJ := -1
		for j := i + 1; j < n; j++ {
			if state[j] != fresh {
				continue
			}
			q := sorted[j]
			if q.PunchDate.After(nextDate) {
				break
			}
			if sameDate(q.PunchDate, nextDate) && q.PunchDateTime.Hour() <= nightEndMaxHour {
				bestJ = j
			}
		}

		if bestJ < 0 {
			continue
		}
		end := sorted[bestJ]
		hrs := end.PunchDateTime.Sub(p.PunchDateTime).Hours()
		shifts = append(shifts, model.Shift{
			EmployeeID:     employeeID,
			ShiftType:      model.ShiftNight,
			AttributedDate: p.PunchDate,
			StartPunch:     p.PunchDateTime,
			EndPunch:       end.PunchDateTime,
			HasEnd:         true,
			Hours:          round1(hrs),
		})
		state[i] = claimedNight
		state[bestJ] = claimedNight
		for k := i + 1; k < bestJ; k++ {
			if state[k] != fresh {
				continue
			}
			mk := sorted[k].PunchDate
			if sameDate(mk, p.PunchDate) || sameDate(mk, nextDate) {
				state[k] = claimedNight
			}
		}
	}

	// Pass 3: post-midnight night shifts (00:00-04:00 start -> same-date
	// 05:00-13:00 end), attributed to the previous calendar date.
	for i := 0; i < n; i++ {
		if state[i] != fresh {
			continue
		}
		p := sorted[i]
		hour := p.PunchDateTime.Hour()
		if hour > postMidnightMaxHour {
			continue
		}

		bestJ := -1
		for j := i + 1; j < n; j++ {
			if state[j] != fresh {
				continue
			}
			q := sorted[j]
			if !sameDate(q.PunchDate, p.PunchDate) {
				break
			}
			qh := q.PunchDateTime.Hour()
			if qh >= postMidnightEndMin && qh <= postMidnightEndMax {
				bestJ = j
			}
		}

		if bestJ < 0 {
			continue
		}
		end := sorted[bestJ]
		hrs := end.PunchDateTime.Sub(p.PunchDateTime).Hours()
		attrDate := p.PunchDate.AddDate(0, 0, -1)
		shifts = append(shifts, model.Shift{
			EmployeeID:     employeeID,
			ShiftType:      model.ShiftNight,
			AttributedDate: attrDate,
			StartPunch:     p.PunchDateTime,
			EndPunch:       end.PunchDateTime,
			HasEnd:         true,
			Hours:          round1(hrs),
		})
		state[i] = claimedNight
		state[bestJ] = claimedNight
		for k := i + 1; k < bestJ; k++ {
			if state[k] == fresh && sameDate(sorted[k].PunchDate, p.PunchDate) {
				state[k] = claimedNight
			}
		}
	}

	// Pass 4: every remaining unused punch becomes a broken shift.
	for i := 0; i < n; i++ {
		if state[i] != fresh {
			continue
		}
		p := sorted[i]
		attrDate := p.PunchDate
		if p.PunchDateTime.Hour() <= postMidnightMaxHour {
			attrDate = p.PunchDate.AddDate(0, 0, -1)
		}
		shifts = append(shifts, model.Shift{
			EmployeeID:     employeeID,
			ShiftType:      model.ShiftBroken,
			AttributedDate: attrDate,
			StartPunch:     p.PunchDateTime,
			HasEnd:         false,
			Hours:          0,
		})
		state[i] = claimedBroken
	}

	return shifts
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
