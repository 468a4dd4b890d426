package remote

import (
	"context"

	"github.com/example/shift-scheduler/internal/sched"
	"github.com/example/shift-scheduler/internal/store"
)

// entityRoutes names the four API operations backing one collection.
type entityRoutes struct {
	list    string
	add     string
	replace string
	remove  string
}

// EntityStore implements the store contract for one collection by posting
// to the API. The zero value is not usable; build one with a constructor.
type EntityStore[T store.Entity[T]] struct {
	client *Client
	routes entityRoutes
}

// NewEmployeeStore returns the employee collection backed by the API.
func NewEmployeeStore(client *Client) *EntityStore[sched.Employee] {
	return &EntityStore[sched.Employee]{client: client, routes: entityRoutes{
		list:    "get_employees",
		add:     "add_employee",
		replace: "replace_employee",
		remove:  "remove_employee",
	}}
}

// NewConfigStore returns the view configuration collection backed by the
// API.
func NewConfigStore(client *Client) *EntityStore[sched.ViewConfig] {
	return &EntityStore[sched.ViewConfig]{client: client, routes: entityRoutes{
		list:    "get_settings",
		add:     "add_settings",
		replace: "replace_settings",
		remove:  "remove_settings",
	}}
}

// Get fetches the full collection.
func (s *EntityStore[T]) Get(ctx context.Context) ([]T, error) {
	var items []T
	if err := s.client.post(ctx, s.routes.list, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Add inserts the entity and returns it with its server-assigned identity.
func (s *EntityStore[T]) Add(ctx context.Context, t T) (T, error) {
	var added T
	if err := s.client.post(ctx, s.routes.add, t, &added); err != nil {
		var zero T
		return zero, err
	}
	return added, nil
}

// Update replaces the record matching t's identity wholesale.
func (s *EntityStore[T]) Update(ctx context.Context, t T) (T, error) {
	var updated T
	if err := s.client.post(ctx, s.routes.replace, t, &updated); err != nil {
		var zero T
		return zero, err
	}
	return updated, nil
}

// Remove deletes the record matching t's identity. Removing an absent
// record succeeds.
func (s *EntityStore[T]) Remove(ctx context.Context, t T) error {
	return s.client.post(ctx, s.routes.remove, t, nil)
}

// ShiftStore implements the shift store contract over the API. Shifts
// travel as their wire message form and convert back at this boundary, so
// a malformed server timestamp surfaces as ErrMalformedTimestamp.
type ShiftStore struct {
	client *Client
}

// NewShiftStore returns the shift collection backed by the API.
func NewShiftStore(client *Client) *ShiftStore {
	return &ShiftStore{client: client}
}

// Get fetches all shifts.
func (s *ShiftStore) Get(ctx context.Context) ([]sched.Shift, error) {
	var messages []sched.ShiftMessage
	if err := s.client.post(ctx, "get_shifts", nil, &messages); err != nil {
		return nil, err
	}

	shifts := make([]sched.Shift, 0, len(messages))
	for _, m := range messages {
		shift, err := sched.ShiftFromMessage(m)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	return shifts, nil
}

// Add inserts the shift and returns it with its server-assigned identity.
func (s *ShiftStore) Add(ctx context.Context, shift sched.Shift) (sched.Shift, error) {
	var added sched.ShiftMessage
	if err := s.client.post(ctx, "add_shift", shift.Message(), &added); err != nil {
		return sched.Shift{}, err
	}
	return sched.ShiftFromMessage(added)
}

// Update replaces the shift matching the identity wholesale.
func (s *ShiftStore) Update(ctx context.Context, shift sched.Shift) (sched.Shift, error) {
	var updated sched.ShiftMessage
	if err := s.client.post(ctx, "replace_shift", shift.Message(), &updated); err != nil {
		return sched.Shift{}, err
	}
	return sched.ShiftFromMessage(updated)
}

// Remove deletes the shift matching the identity.
func (s *ShiftStore) Remove(ctx context.Context, shift sched.Shift) error {
	return s.client.post(ctx, "remove_shift", shift.Message(), nil)
}
