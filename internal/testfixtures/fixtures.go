package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/shift-scheduler/internal/sched"
)

var (
	employeeCounter uint64
	shiftCounter    uint64
	configCounter   uint64
)

var referenceTime = time.Date(2019, time.June, 27, 12, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures:
// midday on the seed calendar day.
func ReferenceTime() time.Time {
	return referenceTime
}

// IntPtr returns a pointer to the given value, for optional entity fields.
func IntPtr(v int) *int { return &v }

// StringPtr returns a pointer to the given value, for optional entity fields.
func StringPtr(v string) *string { return &v }

// --------------------------- Employee fixtures ---------------------------

// EmployeeOption configures a generated employee fixture.
type EmployeeOption func(*sched.Employee)

// NewEmployee returns a deterministic employee record with optional
// overrides. Identities continue from 100 so they never collide with the
// canonical seed data.
func NewEmployee(opts ...EmployeeOption) sched.Employee {
	idx := atomic.AddUint64(&employeeCounter, 1)
	e := sched.Employee{
		ID:           int(idx) + 99,
		Email:        fmt.Sprintf("employee-%03d@example.com", idx),
		Level:        sched.LevelRead,
		First:        fmt.Sprintf("First%03d", idx),
		Last:         fmt.Sprintf("Last%03d", idx),
		DefaultColor: sched.ColorBlue,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// WithEmployeeID overrides the generated identity.
func WithEmployeeID(id int) EmployeeOption {
	return func(e *sched.Employee) { e.ID = id }
}

// WithEmployeeName overrides the generated first and last names.
func WithEmployeeName(first, last string) EmployeeOption {
	return func(e *sched.Employee) {
		e.First = first
		e.Last = last
	}
}

// WithEmployeeLevel overrides the generated privilege level.
func WithEmployeeLevel(level sched.EmployeeLevel) EmployeeOption {
	return func(e *sched.Employee) { e.Level = level }
}

// WithActiveConfig sets the viewing configuration the employee is using.
func WithActiveConfig(configID int) EmployeeOption {
	return func(e *sched.Employee) { e.ActiveConfig = IntPtr(configID) }
}

// ----------------------------- Shift fixtures ----------------------------

// ShiftOption configures a generated shift fixture.
type ShiftOption func(*sched.Shift)

// NewShift returns a deterministic shift starting on the reference day.
// Successive fixtures start an hour apart so ordering assertions stay
// meaningful.
func NewShift(opts ...ShiftOption) sched.Shift {
	idx := atomic.AddUint64(&shiftCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * time.Hour)
	s := sched.Shift{
		ID:           int(idx) + 99,
		SupervisorID: 1,
		EmployeeID:   IntPtr(0),
		Start:        start,
		End:          start.Add(8 * time.Hour),
		Repeat:       sched.NeverRepeat,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithShiftID overrides the generated identity.
func WithShiftID(id int) ShiftOption {
	return func(s *sched.Shift) { s.ID = id }
}

// WithShiftEmployee assigns the shift to an employee.
func WithShiftEmployee(employeeID int) ShiftOption {
	return func(s *sched.Shift) { s.EmployeeID = IntPtr(employeeID) }
}

// WithUnassignedShift clears the employee assignment.
func WithUnassignedShift() ShiftOption {
	return func(s *sched.Shift) { s.EmployeeID = nil }
}

// WithShiftTimes overrides the generated start and end instants.
func WithShiftTimes(start, end time.Time) ShiftOption {
	return func(s *sched.Shift) {
		s.Start = start
		s.End = end
	}
}

// WithShiftNote attaches a note to the shift.
func WithShiftNote(note string) ShiftOption {
	return func(s *sched.Shift) { s.Note = StringPtr(note) }
}

// --------------------------- ViewConfig fixtures -------------------------

// ConfigOption configures a generated viewing configuration fixture.
type ConfigOption func(*sched.ViewConfig)

// NewViewConfig returns a deterministic viewing configuration owned by
// employee 0 with employees 0 and 1 visible.
func NewViewConfig(opts ...ConfigOption) sched.ViewConfig {
	idx := atomic.AddUint64(&configCounter, 1)
	c := sched.ViewConfig{
		ID:            int(idx) + 99,
		EmployeeID:    0,
		ConfigName:    fmt.Sprintf("Config %03d", idx),
		HourFormat:    sched.Hour12,
		LastNameStyle: sched.FirstInitial,
		ViewEmployees: []int{0, 1},
		ShowMinutes:   true,
		ShowShifts:    true,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithConfigID overrides the generated identity.
func WithConfigID(id int) ConfigOption {
	return func(c *sched.ViewConfig) { c.ID = id }
}

// WithConfigOwner overrides the owning employee.
func WithConfigOwner(employeeID int) ConfigOption {
	return func(c *sched.ViewConfig) { c.EmployeeID = employeeID }
}

// WithViewEmployees overrides the set of visible employees.
func WithViewEmployees(ids ...int) ConfigOption {
	return func(c *sched.ViewConfig) { c.ViewEmployees = ids }
}

// WithHourFormat overrides the hour format.
func WithHourFormat(format sched.HourFormat) ConfigOption {
	return func(c *sched.ViewConfig) { c.HourFormat = format }
}

// ------------------------------- Seed data -------------------------------

// SeedEmployees returns the demo employee roster.
func SeedEmployees() []sched.Employee {
	return []sched.Employee{
		{
			ID:           0,
			Email:        "jeff.wright@example.com",
			Level:        sched.LevelAdmin,
			First:        "Jeff",
			Last:         "Wright",
			DefaultColor: sched.ColorLightBlue,
			ActiveConfig: IntPtr(0),
		},
		{
			ID:           1,
			Email:        "tim.baker@example.com",
			Level:        sched.LevelSupervisor,
			First:        "Tim",
			Last:         "Baker",
			DefaultColor: sched.ColorRed,
			ActiveConfig: IntPtr(1),
		},
	}
}

// SeedShifts returns the demo shifts, both on the reference day.
func SeedShifts() []sched.Shift {
	day := referenceTime.Truncate(24 * time.Hour)
	return []sched.Shift{
		{
			ID:           0,
			SupervisorID: 1,
			EmployeeID:   IntPtr(0),
			Start:        day.Add(8*time.Hour + 30*time.Minute),
			End:          day.Add(19 * time.Hour),
			Repeat:       sched.NeverRepeat,
		},
		{
			ID:           1,
			SupervisorID: 1,
			EmployeeID:   IntPtr(1),
			Start:        day.Add(7 * time.Hour),
			End:          day.Add(17 * time.Hour),
			Repeat:       sched.NeverRepeat,
		},
	}
}

// SeedConfigs returns one viewing configuration per demo employee, each with
// the whole roster visible and minutes shown.
func SeedConfigs() []sched.ViewConfig {
	return []sched.ViewConfig{
		{
			ID:            0,
			EmployeeID:    0,
			ConfigName:    "Default",
			HourFormat:    sched.Hour12,
			LastNameStyle: sched.FirstInitial,
			ViewEmployees: []int{0, 1},
			ShowMinutes:   true,
			ShowShifts:    true,
		},
		{
			ID:            1,
			EmployeeID:    1,
			ConfigName:    "Default",
			HourFormat:    sched.Hour12,
			LastNameStyle: sched.FirstInitial,
			ViewEmployees: []int{0, 1},
			ShowMinutes:   true,
			ShowShifts:    true,
		},
	}
}
