package sched

import "context"

// Credentials resolves the current session to an employee. The core only
// consumes the resolved employee, to pick the active viewing configuration
// and to attribute edits; how the session is transported is up to the
// implementation.
type Credentials interface {
	// Current returns the employee resolved by the most recent Check or
	// Login, without touching the session source.
	Current() (Employee, bool)
	// Check resolves the existing session, if any.
	Check(ctx context.Context) (Employee, error)
	// Login authenticates and resolves the session in one step.
	Login(ctx context.Context, email, password string) (Employee, error)
	// Logout discards the session.
	Logout(ctx context.Context) error
}
