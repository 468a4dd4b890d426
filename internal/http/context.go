package http

import (
	"context"

	"github.com/example/shift-scheduler/internal/sched"
)

type employeeKey struct{}

// ContextWithEmployee attaches the authenticated employee to the context.
func ContextWithEmployee(ctx context.Context, employee sched.Employee) context.Context {
	return context.WithValue(ctx, employeeKey{}, employee)
}

// EmployeeFromContext extracts the authenticated employee, if any.
func EmployeeFromContext(ctx context.Context) (sched.Employee, bool) {
	employee, ok := ctx.Value(employeeKey{}).(sched.Employee)
	return employee, ok
}
