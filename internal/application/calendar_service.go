package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/shift-scheduler/internal/sched"
	"github.com/example/shift-scheduler/internal/store"
)

// Rendered in place of a name when a visible shift references an employee
// that no longer exists. A display fallback, not a filtering error.
const employeeNotFound = "Employee Not Found"

// DayViewEntry is one rendered shift row for the calendar's day view.
type DayViewEntry struct {
	ShiftID      int     `json:"shift_id"`
	EmployeeName string  `json:"employee_name"`
	Start        string  `json:"start"`
	End          string  `json:"end"`
	OnCall       bool    `json:"on_call"`
	Note         *string `json:"note,omitempty"`
}

// DayView is the rendered day: the shifts visible under the viewer's active
// configuration, in display order.
type DayView struct {
	Date     string         `json:"date"`
	ConfigID int            `json:"config_id"`
	Entries  []DayViewEntry `json:"entries"`
}

// CalendarService computes day views from the entity stores. It owns no
// state of its own; every call works from fresh store snapshots.
type CalendarService struct {
	employees store.Store[sched.Employee]
	shifts    store.Store[sched.Shift]
	configs   store.Store[sched.ViewConfig]
	logger    *slog.Logger
}

// NewCalendarService wires the calendar service to its entity stores.
func NewCalendarService(employees store.Store[sched.Employee], shifts store.Store[sched.Shift], configs store.Store[sched.ViewConfig], logger *slog.Logger) *CalendarService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CalendarService{
		employees: employees,
		shifts:    shifts,
		configs:   configs,
		logger:    logger,
	}
}

// DayView renders the calendar day containing ref for the given viewer,
// under the viewer's active configuration.
func (s *CalendarService) DayView(ctx context.Context, viewer sched.Employee, ref time.Time) (DayView, error) {
	employees, err := s.employees.Get(ctx)
	if err != nil {
		return DayView{}, fmt.Errorf("loading employees: %w", err)
	}
	shifts, err := s.shifts.Get(ctx)
	if err != nil {
		return DayView{}, fmt.Errorf("loading shifts: %w", err)
	}
	configs, err := s.configs.Get(ctx)
	if err != nil {
		return DayView{}, fmt.Errorf("loading view configs: %w", err)
	}

	cfg := s.resolveConfig(ctx, viewer, configs)

	entries := sched.VisibleDay(ref, shifts, employees, cfg)
	rendered := make([]DayViewEntry, 0, len(entries))
	for _, entry := range entries {
		name := employeeNotFound
		if entry.Employee != nil {
			name = sched.FormatName(*entry.Employee, cfg.LastNameStyle)
		}
		rendered = append(rendered, DayViewEntry{
			ShiftID:      entry.Shift.ID,
			EmployeeName: name,
			Start:        sched.FormatTime(entry.Shift.Start, cfg.HourFormat, cfg.ShowMinutes),
			End:          sched.FormatTime(entry.Shift.End, cfg.HourFormat, cfg.ShowMinutes),
			OnCall:       entry.Shift.OnCall,
			Note:         entry.Shift.Note,
		})
	}

	dayStart, _ := sched.DayBounds(ref)
	return DayView{
		Date:     dayStart.Format("2006-01-02"),
		ConfigID: cfg.ID,
		Entries:  rendered,
	}, nil
}

// resolveConfig picks the viewer's active configuration. When the viewer has
// none, or it points at a configuration that no longer exists, the first
// configuration the viewer owns is used; failing that, a default view that
// only shows the viewer's own shifts.
func (s *CalendarService) resolveConfig(ctx context.Context, viewer sched.Employee, configs []sched.ViewConfig) sched.ViewConfig {
	if viewer.ActiveConfig != nil {
		for _, c := range configs {
			if c.ID == *viewer.ActiveConfig {
				return c
			}
		}
		s.logger.WarnContext(ctx, "active config missing, falling back",
			"employee_id", viewer.ID, "config_id", *viewer.ActiveConfig)
	}
	for _, c := range configs {
		if c.EmployeeID == viewer.ID {
			return c
		}
	}
	return sched.DefaultViewConfig(-1, viewer.ID)
}
