package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/shift-scheduler/internal/sched"
	"github.com/example/shift-scheduler/internal/store"
)

// CredentialDirectory backs the auth service with employee credentials
// stored alongside the employee records.
type CredentialDirectory struct {
	db *DB
}

// NewCredentialDirectory returns a credential directory over the given
// database.
func NewCredentialDirectory(db *DB) *CredentialDirectory {
	return &CredentialDirectory{db: db}
}

// CredentialsByEmail returns the employee with the given email and their
// password hash. An employee without stored credentials cannot log in and
// reports NotFound like a missing account.
func (d *CredentialDirectory) CredentialsByEmail(ctx context.Context, email string) (sched.Employee, string, error) {
	row := d.db.conn.QueryRowContext(ctx,
		`SELECT e.id, e.email, e.level, e.first, e.last, e.phone_number, e.default_color, e.active_config,
		        c.password_hash
		 FROM employees e
		 JOIN credentials c ON c.employee_id = e.id
		 WHERE e.email = ?`, email)

	var (
		e            sched.Employee
		level, color string
		phone        sql.NullString
		activeConfig sql.NullInt64
		hash         string
	)
	err := row.Scan(&e.ID, &e.Email, &level, &e.First, &e.Last, &phone, &color, &activeConfig, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return sched.Employee{}, "", store.ErrNotFound
	}
	if err != nil {
		return sched.Employee{}, "", fmt.Errorf("looking up credentials: %w", err)
	}

	e.Level = sched.EmployeeLevel(level)
	e.DefaultColor = sched.EmployeeColor(color)
	if phone.Valid {
		e.PhoneNumber = &phone.String
	}
	if activeConfig.Valid {
		id := int(activeConfig.Int64)
		e.ActiveConfig = &id
	}
	return e, hash, nil
}

// EmployeeByID resolves an employee id to its record.
func (d *CredentialDirectory) EmployeeByID(ctx context.Context, id int) (sched.Employee, error) {
	row := d.db.conn.QueryRowContext(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE id = ?", id)

	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sched.Employee{}, store.ErrNotFound
		}
		return sched.Employee{}, err
	}
	return e, nil
}

// SetPassword stores or replaces the password hash for an employee.
func (d *CredentialDirectory) SetPassword(ctx context.Context, employeeID int, hash string) error {
	_, err := d.db.conn.ExecContext(ctx,
		`INSERT INTO credentials (employee_id, password_hash) VALUES (?, ?)
		 ON CONFLICT (employee_id) DO UPDATE SET password_hash = excluded.password_hash`,
		employeeID, hash)
	if err != nil {
		return fmt.Errorf("storing password hash: %w", err)
	}
	return nil
}
