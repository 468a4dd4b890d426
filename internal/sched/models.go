package sched

import (
	"slices"
	"time"
)

// EmployeeLevel orders the privilege tiers an account can hold.
type EmployeeLevel string

const (
	LevelRead       EmployeeLevel = "Read"
	LevelSupervisor EmployeeLevel = "Supervisor"
	LevelAdmin      EmployeeLevel = "Admin"
)

// Rank maps the level onto the privilege order. Unknown levels rank below Read.
func (l EmployeeLevel) Rank() int {
	switch l {
	case LevelRead:
		return 1
	case LevelSupervisor:
		return 2
	case LevelAdmin:
		return 3
	}
	return 0
}

// AtLeast reports whether the level grants at least the privilege of other.
func (l EmployeeLevel) AtLeast(other EmployeeLevel) bool {
	return l.Rank() >= other.Rank()
}

// EmployeeColor is the display color assigned to an employee's shifts.
type EmployeeColor string

const (
	ColorBlue      EmployeeColor = "Blue"
	ColorLightBlue EmployeeColor = "LightBlue"
	ColorRed       EmployeeColor = "Red"
	ColorGreen     EmployeeColor = "Green"
	ColorYellow    EmployeeColor = "Yellow"
	ColorPurple    EmployeeColor = "Purple"
)

// ShiftRepeat describes how a shift recurs. Recurrence is stored but never
// expanded into occurrences here.
type ShiftRepeat string

const (
	NeverRepeat ShiftRepeat = "NeverRepeat"
	EveryWeek   ShiftRepeat = "EveryWeek"
	EveryDay    ShiftRepeat = "EveryDay"
)

// HourFormat selects 12-hour or 24-hour time rendering.
type HourFormat string

const (
	Hour12 HourFormat = "Hour12"
	Hour24 HourFormat = "Hour24"
)

// LastNameStyle selects how an employee's last name is rendered.
type LastNameStyle string

const (
	FullName     LastNameStyle = "FullName"
	FirstInitial LastNameStyle = "FirstInitial"
	Hidden       LastNameStyle = "Hidden"
)

// Employee is an account that can own shifts and viewing configurations.
type Employee struct {
	ID           int           `json:"id"`
	Email        string        `json:"email"`
	Level        EmployeeLevel `json:"level"`
	First        string        `json:"first"`
	Last         string        `json:"last"`
	PhoneNumber  *string       `json:"phone_number,omitempty"`
	DefaultColor EmployeeColor `json:"default_color"`
	ActiveConfig *int          `json:"active_config,omitempty"`
}

// EntityID returns the employee identity.
func (e Employee) EntityID() int { return e.ID }

// WithEntityID returns a copy of the employee with the identity replaced.
func (e Employee) WithEntityID(id int) Employee {
	e.ID = id
	return e
}

// Shift is a single scheduled period of work. An unassigned shift has a nil
// EmployeeID and is never visible under any configuration.
type Shift struct {
	ID           int
	SupervisorID int
	EmployeeID   *int
	Start        time.Time
	End          time.Time
	Repeat       ShiftRepeat
	EveryX       *int
	Note         *string
	OnCall       bool
}

// EntityID returns the shift identity.
func (s Shift) EntityID() int { return s.ID }

// WithEntityID returns a copy of the shift with the identity replaced.
func (s Shift) WithEntityID(id int) Shift {
	s.ID = id
	return s
}

// Equal reports whether two shifts carry the same data, comparing the
// timestamps instant-for-instant rather than structurally.
func (s Shift) Equal(other Shift) bool {
	return s.ID == other.ID &&
		s.SupervisorID == other.SupervisorID &&
		equalIntPtr(s.EmployeeID, other.EmployeeID) &&
		s.Start.Equal(other.Start) &&
		s.End.Equal(other.End) &&
		s.Repeat == other.Repeat &&
		equalIntPtr(s.EveryX, other.EveryX) &&
		equalStringPtr(s.Note, other.Note) &&
		s.OnCall == other.OnCall
}

// ViewConfig is a supervisor-defined viewing configuration: which employees'
// shifts are visible and how names and times are rendered.
type ViewConfig struct {
	ID             int           `json:"id"`
	EmployeeID     int           `json:"employee_id"`
	ConfigName     string        `json:"config_name"`
	HourFormat     HourFormat    `json:"hour_format"`
	LastNameStyle  LastNameStyle `json:"last_name_style"`
	ViewEmployees  []int         `json:"view_employees"`
	ShowMinutes    bool          `json:"show_minutes"`
	ShowShifts     bool          `json:"show_shifts"`
	ShowVacations  bool          `json:"show_vacations"`
	ShowCallShifts bool          `json:"show_call_shifts"`
	ShowDisabled   bool          `json:"show_disabled"`
}

// DefaultViewConfig returns the configuration a fresh account starts with:
// only the owner visible, hour-only 12-hour times, first initial last names.
func DefaultViewConfig(id, employeeID int) ViewConfig {
	return ViewConfig{
		ID:            id,
		EmployeeID:    employeeID,
		ConfigName:    "Default",
		HourFormat:    Hour12,
		LastNameStyle: FirstInitial,
		ViewEmployees: []int{employeeID},
		ShowShifts:    true,
	}
}

// EntityID returns the configuration identity.
func (c ViewConfig) EntityID() int { return c.ID }

// WithEntityID returns a copy of the configuration with the identity replaced.
func (c ViewConfig) WithEntityID(id int) ViewConfig {
	c.ID = id
	return c
}

// Views reports whether shifts assigned to the employee are visible under
// this configuration.
func (c ViewConfig) Views(employeeID int) bool {
	return slices.Contains(c.ViewEmployees, employeeID)
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
