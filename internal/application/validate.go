package application

import (
	"github.com/example/shift-scheduler/internal/sched"
)

// ValidateShift checks a shift before it reaches a store. A shift ending
// before it starts is rejected here rather than stored; a repeat stride is
// only meaningful on a repeating shift.
func ValidateShift(s sched.Shift) error {
	vErr := &ValidationError{}

	if s.End.Before(s.Start) {
		vErr.add("end", "must not be before start")
	}
	if s.EveryX != nil {
		if s.Repeat == sched.NeverRepeat {
			vErr.add("every_x", "requires a repeating shift")
		} else if *s.EveryX < 1 {
			vErr.add("every_x", "must be at least 1")
		}
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// ValidateViewConfig checks a viewing configuration before it reaches a
// store. The view set must not contain the same employee twice.
func ValidateViewConfig(c sched.ViewConfig) error {
	vErr := &ValidationError{}

	seen := make(map[int]bool, len(c.ViewEmployees))
	for _, id := range c.ViewEmployees {
		if seen[id] {
			vErr.add("view_employees", "contains duplicate employee ids")
			break
		}
		seen[id] = true
	}
	if c.ConfigName == "" {
		vErr.add("config_name", "must not be empty")
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}
