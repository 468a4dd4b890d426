package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/shift-scheduler/internal/sched"
	"github.com/example/shift-scheduler/internal/store"
)

// ConfigStore implements the entity store contract for viewing
// configurations. The view set lives in a child table ordered by position,
// so the display order of view employees is preserved.
type ConfigStore struct {
	db *DB
}

// NewConfigStore returns a view configuration store over the given database.
func NewConfigStore(db *DB) *ConfigStore {
	return &ConfigStore{db: db}
}

// Get returns every configuration in identity order, with view sets in
// their stored order.
func (s *ConfigStore) Get(ctx context.Context) ([]sched.ViewConfig, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT id, employee_id, config_name, hour_format, last_name_style,
		        show_minutes, show_shifts, show_vacations, show_call_shifts, show_disabled
		 FROM view_configs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing view configs: %w", err)
	}
	defer rows.Close()

	var configs []sched.ViewConfig
	for rows.Next() {
		var (
			c             sched.ViewConfig
			format, style string
		)
		err := rows.Scan(&c.ID, &c.EmployeeID, &c.ConfigName, &format, &style,
			&c.ShowMinutes, &c.ShowShifts, &c.ShowVacations, &c.ShowCallShifts, &c.ShowDisabled)
		if err != nil {
			return nil, fmt.Errorf("scanning view config: %w", err)
		}
		c.HourFormat = sched.HourFormat(format)
		c.LastNameStyle = sched.LastNameStyle(style)
		configs = append(configs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing view configs: %w", err)
	}

	for i := range configs {
		if configs[i].ViewEmployees, err = s.viewSet(ctx, configs[i].ID); err != nil {
			return nil, err
		}
	}
	return configs, nil
}

// Add inserts the configuration under a freshly allocated identity.
func (s *ConfigStore) Add(ctx context.Context, c sched.ViewConfig) (sched.ViewConfig, error) {
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return sched.ViewConfig{}, fmt.Errorf("adding view config: %w", err)
	}
	defer tx.Rollback()

	id, err := nextID(ctx, tx, "view_configs")
	if err != nil {
		return sched.ViewConfig{}, err
	}
	c.ID = id

	_, err = tx.ExecContext(ctx,
		`INSERT INTO view_configs (id, employee_id, config_name, hour_format, last_name_style,
		                           show_minutes, show_shifts, show_vacations, show_call_shifts, show_disabled)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.EmployeeID, c.ConfigName, string(c.HourFormat), string(c.LastNameStyle),
		c.ShowMinutes, c.ShowShifts, c.ShowVacations, c.ShowCallShifts, c.ShowDisabled,
	)
	if err != nil {
		return sched.ViewConfig{}, fmt.Errorf("adding view config: %w", err)
	}
	if err := replaceViewSet(ctx, tx, c.ID, c.ViewEmployees); err != nil {
		return sched.ViewConfig{}, err
	}
	if err := tx.Commit(); err != nil {
		return sched.ViewConfig{}, fmt.Errorf("adding view config: %w", err)
	}
	return c, nil
}

// Update replaces the configuration matching the identity wholesale,
// including its view set.
func (s *ConfigStore) Update(ctx context.Context, c sched.ViewConfig) (sched.ViewConfig, error) {
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return sched.ViewConfig{}, fmt.Errorf("updating view config: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE view_configs
		 SET employee_id = ?, config_name = ?, hour_format = ?, last_name_style = ?,
		     show_minutes = ?, show_shifts = ?, show_vacations = ?, show_call_shifts = ?, show_disabled = ?
		 WHERE id = ?`,
		c.EmployeeID, c.ConfigName, string(c.HourFormat), string(c.LastNameStyle),
		c.ShowMinutes, c.ShowShifts, c.ShowVacations, c.ShowCallShifts, c.ShowDisabled, c.ID,
	)
	if err != nil {
		return sched.ViewConfig{}, fmt.Errorf("updating view config: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return sched.ViewConfig{}, fmt.Errorf("updating view config: %w", err)
	}
	if affected == 0 {
		return sched.ViewConfig{}, store.ErrNotFound
	}

	if err := replaceViewSet(ctx, tx, c.ID, c.ViewEmployees); err != nil {
		return sched.ViewConfig{}, err
	}
	if err := tx.Commit(); err != nil {
		return sched.ViewConfig{}, fmt.Errorf("updating view config: %w", err)
	}
	return c, nil
}

// Remove deletes the configuration matching the identity, if present. The
// view set rows cascade.
func (s *ConfigStore) Remove(ctx context.Context, c sched.ViewConfig) error {
	if _, err := s.db.conn.ExecContext(ctx, "DELETE FROM view_configs WHERE id = ?", c.ID); err != nil {
		return fmt.Errorf("removing view config: %w", err)
	}
	return nil
}

func (s *ConfigStore) viewSet(ctx context.Context, configID int) ([]int, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		"SELECT employee_id FROM view_config_employees WHERE config_id = ? ORDER BY position", configID)
	if err != nil {
		return nil, fmt.Errorf("loading view set: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning view set: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading view set: %w", err)
	}
	return ids, nil
}

func replaceViewSet(ctx context.Context, tx *sql.Tx, configID int, employeeIDs []int) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM view_config_employees WHERE config_id = ?", configID); err != nil {
		return fmt.Errorf("clearing view set: %w", err)
	}
	for position, employeeID := range employeeIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO view_config_employees (config_id, employee_id, position) VALUES (?, ?, ?)",
			configID, employeeID, position)
		if err != nil {
			return fmt.Errorf("storing view set: %w", err)
		}
	}
	return nil
}
