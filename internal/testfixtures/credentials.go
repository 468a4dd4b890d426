package testfixtures

import (
	"context"
	"errors"

	"github.com/example/shift-scheduler/internal/sched"
)

// ErrNoSession is returned by MockCredentials when no login has happened.
var ErrNoSession = errors.New("testfixtures: no session")

// MockCredentials resolves every login to a fixed employee, mirroring the
// development credentials used before the remote auth service existed.
type MockCredentials struct {
	Employee sched.Employee
	current  *sched.Employee
}

// NewMockCredentials returns credentials that resolve to the given employee.
func NewMockCredentials(employee sched.Employee) *MockCredentials {
	return &MockCredentials{Employee: employee}
}

// Current returns the employee resolved by the last Check or Login.
func (m *MockCredentials) Current() (sched.Employee, bool) {
	if m.current == nil {
		return sched.Employee{}, false
	}
	return *m.current, true
}

// Check resolves the session to the fixed employee.
func (m *MockCredentials) Check(ctx context.Context) (sched.Employee, error) {
	employee := m.Employee
	m.current = &employee
	return employee, nil
}

// Login ignores the supplied credentials and resolves like Check.
func (m *MockCredentials) Login(ctx context.Context, email, password string) (sched.Employee, error) {
	return m.Check(ctx)
}

// Logout discards the session.
func (m *MockCredentials) Logout(ctx context.Context) error {
	if m.current == nil {
		return ErrNoSession
	}
	m.current = nil
	return nil
}
