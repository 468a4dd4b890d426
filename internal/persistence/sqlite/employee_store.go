package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/shift-scheduler/internal/sched"
	"github.com/example/shift-scheduler/internal/store"
)

// EmployeeStore implements the entity store contract for employees. The
// store is authoritative for identity allocation.
type EmployeeStore struct {
	db *DB
}

// NewEmployeeStore returns an employee store over the given database.
func NewEmployeeStore(db *DB) *EmployeeStore {
	return &EmployeeStore{db: db}
}

const employeeColumns = "id, email, level, first, last, phone_number, default_color, active_config"

// Get returns every employee in identity order.
func (s *EmployeeStore) Get(ctx context.Context) ([]sched.Employee, error) {
	rows, err := s.db.conn.QueryContext(ctx, "SELECT "+employeeColumns+" FROM employees ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	defer rows.Close()

	var employees []sched.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	return employees, nil
}

// Add inserts the employee under a freshly allocated identity.
func (s *EmployeeStore) Add(ctx context.Context, e sched.Employee) (sched.Employee, error) {
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return sched.Employee{}, fmt.Errorf("adding employee: %w", err)
	}
	defer tx.Rollback()

	id, err := nextID(ctx, tx, "employees")
	if err != nil {
		return sched.Employee{}, err
	}
	e.ID = id

	_, err = tx.ExecContext(ctx,
		`INSERT INTO employees (id, email, level, first, last, phone_number, default_color, active_config)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Email, string(e.Level), e.First, e.Last, e.PhoneNumber, string(e.DefaultColor), e.ActiveConfig,
	)
	if err != nil {
		return sched.Employee{}, fmt.Errorf("adding employee: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return sched.Employee{}, fmt.Errorf("adding employee: %w", err)
	}
	return e, nil
}

// Update replaces the employee matching e's identity wholesale.
func (s *EmployeeStore) Update(ctx context.Context, e sched.Employee) (sched.Employee, error) {
	result, err := s.db.conn.ExecContext(ctx,
		`UPDATE employees
		 SET email = ?, level = ?, first = ?, last = ?, phone_number = ?, default_color = ?, active_config = ?
		 WHERE id = ?`,
		e.Email, string(e.Level), e.First, e.Last, e.PhoneNumber, string(e.DefaultColor), e.ActiveConfig, e.ID,
	)
	if err != nil {
		return sched.Employee{}, fmt.Errorf("updating employee: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return sched.Employee{}, fmt.Errorf("updating employee: %w", err)
	}
	if affected == 0 {
		return sched.Employee{}, store.ErrNotFound
	}
	return e, nil
}

// Remove deletes the employee matching e's identity, if present.
func (s *EmployeeStore) Remove(ctx context.Context, e sched.Employee) error {
	if _, err := s.db.conn.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", e.ID); err != nil {
		return fmt.Errorf("removing employee: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (sched.Employee, error) {
	var (
		e            sched.Employee
		level, color string
		phone        sql.NullString
		activeConfig sql.NullInt64
	)
	if err := row.Scan(&e.ID, &e.Email, &level, &e.First, &e.Last, &phone, &color, &activeConfig); err != nil {
		return sched.Employee{}, fmt.Errorf("scanning employee: %w", err)
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
	return e, nil
}
