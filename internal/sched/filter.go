package sched

import (
	"slices"
	"time"
)

// DayEntry pairs a visible shift with its resolved employee. Employee is nil
// when the shift references an id absent from the employee collection; the
// shift is still displayed, with a placeholder name, rather than dropped.
type DayEntry struct {
	Shift    Shift
	Employee *Employee
}

// DayBounds returns the half-open interval [start, start+24h) covering the
// calendar day containing ref, in ref's location. Only the year, month and
// day of ref matter.
func DayBounds(ref time.Time) (time.Time, time.Time) {
	year, month, day := ref.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, ref.Location())
	return start, start.AddDate(0, 0, 1)
}

// VisibleDay selects and orders the shifts to display for one calendar day
// under a viewing configuration.
//
// A shift is kept when its start falls inside the day bounds of ref, it is
// assigned to an employee, and that employee is listed in the
// configuration's view set. Kept shifts are sorted ascending by start; the
// sort is stable, so shifts starting at the same instant keep their
// collection order between renders.
func VisibleDay(ref time.Time, shifts []Shift, employees []Employee, cfg ViewConfig) []DayEntry {
	dayStart, dayEnd := DayBounds(ref)

	kept := make([]Shift, 0, len(shifts))
	for _, s := range shifts {
		if s.EmployeeID == nil {
			continue
		}
		if s.Start.Before(dayStart) || !s.Start.Before(dayEnd) {
			continue
		}
		if !cfg.Views(*s.EmployeeID) {
			continue
		}
		kept = append(kept, s)
	}

	slices.SortStableFunc(kept, func(a, b Shift) int {
		return a.Start.Compare(b.Start)
	})

	entries := make([]DayEntry, 0, len(kept))
	for _, s := range kept {
		entries = append(entries, DayEntry{
			Shift:    s,
			Employee: findEmployee(employees, *s.EmployeeID),
		})
	}
	return entries
}

func findEmployee(employees []Employee, id int) *Employee {
	for _, e := range employees {
		if e.ID == id {
			found := e
			return &found
		}
	}
	return nil
}
