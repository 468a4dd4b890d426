package sched

import "time"

// ViewDate is the day currently displayed by the calendar. Only the calendar
// day matters for filtering; the time-of-day component is carried but
// ignored. The calendar screen owns the cursor and moves it exclusively
// through AddDays.
type ViewDate struct {
	current time.Time
}

// NewViewDate returns a cursor positioned at the instant reported by now.
// The time source is injected so date filtering stays deterministic in
// tests; a nil now falls back to time.Now.
func NewViewDate(now func() time.Time) *ViewDate {
	if now == nil {
		now = time.Now
	}
	return &ViewDate{current: now()}
}

// Get returns the currently displayed instant.
func (v *ViewDate) Get() time.Time {
	return v.current
}

// AddDays moves the cursor by a relative number of calendar days. Negative
// values navigate backwards.
func (v *ViewDate) AddDays(days int) {
	v.current = v.current.AddDate(0, 0, days)
}
