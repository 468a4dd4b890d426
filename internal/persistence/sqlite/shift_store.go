package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/shift-scheduler/internal/sched"
	"github.com/example/shift-scheduler/internal/store"
)

// ShiftStore implements the entity store contract for shifts. The store is
// authoritative for identity allocation. Timestamps are persisted as
// RFC 3339 strings so the stored zone offset survives the round trip.
type ShiftStore struct {
	db *DB
}

// NewShiftStore returns a shift store over the given database.
func NewShiftStore(db *DB) *ShiftStore {
	return &ShiftStore{db: db}
}

const shiftColumns = `id, supervisor_id, employee_id, start, "end", repeat, every_x, note, on_call`

// Get returns every shift in identity order.
func (s *ShiftStore) Get(ctx context.Context) ([]sched.Shift, error) {
	rows, err := s.db.conn.QueryContext(ctx, "SELECT "+shiftColumns+" FROM shifts ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing shifts: %w", err)
	}
	defer rows.Close()

	var shifts []sched.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing shifts: %w", err)
	}
	return shifts, nil
}

// Add inserts the shift under a freshly allocated identity. The
// read-max/assign/insert sequence runs in one transaction, so concurrent
// adds cannot allocate the same identity.
func (s *ShiftStore) Add(ctx context.Context, shift sched.Shift) (sched.Shift, error) {
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return sched.Shift{}, fmt.Errorf("adding shift: %w", err)
	}
	defer tx.Rollback()

	id, err := nextID(ctx, tx, "shifts")
	if err != nil {
		return sched.Shift{}, err
	}
	shift.ID = id

	_, err = tx.ExecContext(ctx,
		`INSERT INTO shifts (id, supervisor_id, employee_id, start, "end", repeat, every_x, note, on_call)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		shift.ID, shift.SupervisorID, shift.EmployeeID,
		shift.Start.Format(time.RFC3339Nano), shift.End.Format(time.RFC3339Nano),
		string(shift.Repeat), shift.EveryX, shift.Note, shift.OnCall,
	)
	if err != nil {
		return sched.Shift{}, fmt.Errorf("adding shift: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return sched.Shift{}, fmt.Errorf("adding shift: %w", err)
	}
	return shift, nil
}

// Update replaces the shift matching the identity wholesale.
func (s *ShiftStore) Update(ctx context.Context, shift sched.Shift) (sched.Shift, error) {
	result, err := s.db.conn.ExecContext(ctx,
		`UPDATE shifts
		 SET supervisor_id = ?, employee_id = ?, start = ?, "end" = ?, repeat = ?, every_x = ?, note = ?, on_call = ?
		 WHERE id = ?`,
		shift.SupervisorID, shift.EmployeeID,
		shift.Start.Format(time.RFC3339Nano), shift.End.Format(time.RFC3339Nano),
		string(shift.Repeat), shift.EveryX, shift.Note, shift.OnCall, shift.ID,
	)
	if err != nil {
		return sched.Shift{}, fmt.Errorf("updating shift: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return sched.Shift{}, fmt.Errorf("updating shift: %w", err)
	}
	if affected == 0 {
		return sched.Shift{}, store.ErrNotFound
	}
	return shift, nil
}

// Remove deletes the shift matching the identity, if present.
func (s *ShiftStore) Remove(ctx context.Context, shift sched.Shift) error {
	if _, err := s.db.conn.ExecContext(ctx, "DELETE FROM shifts WHERE id = ?", shift.ID); err != nil {
		return fmt.Errorf("removing shift: %w", err)
	}
	return nil
}

func scanShift(row rowScanner) (sched.Shift, error) {
	var (
		shift      sched.Shift
		employeeID sql.NullInt64
		start, end string
		repeat     string
		everyX     sql.NullInt64
		note       sql.NullString
	)
	if err := row.Scan(&shift.ID, &shift.SupervisorID, &employeeID, &start, &end, &repeat, &everyX, &note, &shift.OnCall); err != nil {
		return sched.Shift{}, fmt.Errorf("scanning shift: %w", err)
	}

	var err error
	if shift.Start, err = time.Parse(time.RFC3339Nano, start); err != nil {
		return sched.Shift{}, fmt.Errorf("parsing shift start: %w", err)
	}
	if shift.End, err = time.Parse(time.RFC3339Nano, end); err != nil {
		return sched.Shift{}, fmt.Errorf("parsing shift end: %w", err)
	}

	shift.Repeat = sched.ShiftRepeat(repeat)
	if employeeID.Valid {
		id := int(employeeID.Int64)
		shift.EmployeeID = &id
	}
	if everyX.Valid {
		x := int(everyX.Int64)
		shift.EveryX = &x
	}
	if note.Valid {
		shift.Note = &note.String
	}
	return shift, nil
}
