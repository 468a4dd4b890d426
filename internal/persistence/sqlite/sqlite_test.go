package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/shift-scheduler/internal/sched"
	"github.com/example/shift-scheduler/internal/store"
	"github.com/example/shift-scheduler/internal/testfixtures"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("closing test database: %v", err)
		}
	})
	return db
}

func addEmployees(t *testing.T, s *EmployeeStore, employees ...sched.Employee) []sched.Employee {
	t.Helper()
	added := make([]sched.Employee, 0, len(employees))
	for _, e := range employees {
		stored, err := s.Add(context.Background(), e)
		if err != nil {
			t.Fatalf("seeding employee: %v", err)
		}
		added = append(added, stored)
	}
	return added
}

func TestEmployeeStore(t *testing.T) {
	ctx := context.Background()

	t.Run("add allocates sequential identities from zero", func(t *testing.T) {
		s := NewEmployeeStore(openTestDB(t))

		added := addEmployees(t, s, testfixtures.NewEmployee(), testfixtures.NewEmployee())

		if added[0].ID != 0 || added[1].ID != 1 {
			t.Fatalf("expected ids 0 and 1, got %d and %d", added[0].ID, added[1].ID)
		}
	})

	t.Run("add allocates one past the maximum after a removal", func(t *testing.T) {
		s := NewEmployeeStore(openTestDB(t))
		added := addEmployees(t, s, testfixtures.NewEmployee(), testfixtures.NewEmployee(), testfixtures.NewEmployee())

		if err := s.Remove(ctx, added[1]); err != nil {
			t.Fatalf("remove failed: %v", err)
		}

		next, err := s.Add(ctx, testfixtures.NewEmployee())
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if next.ID != 3 {
			t.Fatalf("expected id 3, got %d", next.ID)
		}
	})

	t.Run("get round-trips optional fields", func(t *testing.T) {
		s := NewEmployeeStore(openTestDB(t))
		original := testfixtures.NewEmployee(testfixtures.WithActiveConfig(2))
		original.PhoneNumber = testfixtures.StringPtr("555-0117")

		stored := addEmployees(t, s, original)[0]

		got, err := s.Get(ctx)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 employee, got %d", len(got))
		}
		if got[0].PhoneNumber == nil || *got[0].PhoneNumber != "555-0117" {
			t.Fatalf("phone number lost: %+v", got[0])
		}
		if got[0].ActiveConfig == nil || *got[0].ActiveConfig != 2 {
			t.Fatalf("active config lost: %+v", got[0])
		}
		if got[0].ID != stored.ID {
			t.Fatalf("expected id %d, got %d", stored.ID, got[0].ID)
		}
	})

	t.Run("update replaces wholesale", func(t *testing.T) {
		s := NewEmployeeStore(openTestDB(t))
		stored := addEmployees(t, s, testfixtures.NewEmployee())[0]

		stored.First = "Renamed"
		stored.Level = sched.LevelSupervisor
		if _, err := s.Update(ctx, stored); err != nil {
			t.Fatalf("update failed: %v", err)
		}

		got, _ := s.Get(ctx)
		if got[0].First != "Renamed" || got[0].Level != sched.LevelSupervisor {
			t.Fatalf("update not applied: %+v", got[0])
		}
	})

	t.Run("updating a missing employee reports NotFound", func(t *testing.T) {
		s := NewEmployeeStore(openTestDB(t))

		_, err := s.Update(ctx, testfixtures.NewEmployee(testfixtures.WithEmployeeID(9)))
		if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected store.ErrNotFound, got %v", err)
		}
	})

	t.Run("removing a missing employee is a no-op", func(t *testing.T) {
		s := NewEmployeeStore(openTestDB(t))
		addEmployees(t, s, testfixtures.NewEmployee())

		if err := s.Remove(ctx, testfixtures.NewEmployee(testfixtures.WithEmployeeID(9))); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
		got, _ := s.Get(ctx)
		if len(got) != 1 {
			t.Fatalf("expected the collection unchanged, got %d employees", len(got))
		}
	})
}

func TestShiftStore(t *testing.T) {
	ctx := context.Background()

	t.Run("shifts round-trip instant-for-instant", func(t *testing.T) {
		s := NewShiftStore(openTestDB(t))
		zone := time.FixedZone("UTC-8", -8*3600)
		original := testfixtures.NewShift(
			testfixtures.WithShiftTimes(
				time.Date(2019, time.June, 27, 8, 30, 0, 0, zone),
				time.Date(2019, time.June, 27, 19, 0, 0, 0, zone),
			),
			testfixtures.WithShiftNote("trade with Tim"),
		)
		original.Repeat = sched.EveryWeek
		original.EveryX = testfixtures.IntPtr(2)

		stored, err := s.Add(ctx, original)
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}

		got, err := s.Get(ctx)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 shift, got %d", len(got))
		}
		if !got[0].Equal(stored) {
			t.Fatalf("expected %+v, got %+v", stored, got[0])
		}
	})

	t.Run("unassigned shifts keep a nil employee", func(t *testing.T) {
		s := NewShiftStore(openTestDB(t))

		if _, err := s.Add(ctx, testfixtures.NewShift(testfixtures.WithUnassignedShift())); err != nil {
			t.Fatalf("add failed: %v", err)
		}

		got, _ := s.Get(ctx)
		if got[0].EmployeeID != nil {
			t.Fatalf("expected nil employee id, got %v", *got[0].EmployeeID)
		}
	})

	t.Run("identity allocation starts at zero", func(t *testing.T) {
		s := NewShiftStore(openTestDB(t))

		first, err := s.Add(ctx, testfixtures.NewShift())
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}
		second, err := s.Add(ctx, testfixtures.NewShift())
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}

		if first.ID != 0 || second.ID != 1 {
			t.Fatalf("expected ids 0 and 1, got %d and %d", first.ID, second.ID)
		}
	})

	t.Run("update and remove behave like the contract", func(t *testing.T) {
		s := NewShiftStore(openTestDB(t))
		stored, err := s.Add(ctx, testfixtures.NewShift())
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}

		stored.OnCall = true
		if _, err := s.Update(ctx, stored); err != nil {
			t.Fatalf("update failed: %v", err)
		}
		got, _ := s.Get(ctx)
		if !got[0].OnCall {
			t.Fatal("update not applied")
		}

		if _, err := s.Update(ctx, stored.WithEntityID(99)); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected store.ErrNotFound, got %v", err)
		}

		if err := s.Remove(ctx, stored); err != nil {
			t.Fatalf("remove failed: %v", err)
		}
		if err := s.Remove(ctx, stored); err != nil {
			t.Fatalf("second remove should be a no-op, got %v", err)
		}
		if got, _ := s.Get(ctx); len(got) != 0 {
			t.Fatalf("expected an empty collection, got %d shifts", len(got))
		}
	})
}

func TestConfigStore(t *testing.T) {
	ctx := context.Background()

	t.Run("view set order survives the round trip", func(t *testing.T) {
		s := NewConfigStore(openTestDB(t))
		cfg := testfixtures.NewViewConfig(testfixtures.WithViewEmployees(4, 0, 2))

		stored, err := s.Add(ctx, cfg)
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}

		got, err := s.Get(ctx)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 config, got %d", len(got))
		}
		want := []int{4, 0, 2}
		for i, id := range got[0].ViewEmployees {
			if id != want[i] {
				t.Fatalf("expected view set %v, got %v", want, got[0].ViewEmployees)
			}
		}
		if got[0].ID != stored.ID {
			t.Fatalf("expected id %d, got %d", stored.ID, got[0].ID)
		}
	})

	t.Run("update replaces the view set", func(t *testing.T) {
		s := NewConfigStore(openTestDB(t))
		stored, err := s.Add(ctx, testfixtures.NewViewConfig(testfixtures.WithViewEmployees(0, 1)))
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}

		stored.ViewEmployees = []int{3}
		stored.HourFormat = sched.Hour24
		if _, err := s.Update(ctx, stored); err != nil {
			t.Fatalf("update failed: %v", err)
		}

		got, _ := s.Get(ctx)
		if len(got[0].ViewEmployees) != 1 || got[0].ViewEmployees[0] != 3 {
			t.Fatalf("expected view set [3], got %v", got[0].ViewEmployees)
		}
		if got[0].HourFormat != sched.Hour24 {
			t.Fatalf("expected Hour24, got %v", got[0].HourFormat)
		}
	})

	t.Run("remove cascades the view set", func(t *testing.T) {
		db := openTestDB(t)
		s := NewConfigStore(db)
		stored, err := s.Add(ctx, testfixtures.NewViewConfig(testfixtures.WithViewEmployees(0, 1)))
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}

		if err := s.Remove(ctx, stored); err != nil {
			t.Fatalf("remove failed: %v", err)
		}

		var count int
		if err := db.conn.QueryRow("SELECT COUNT(*) FROM view_config_employees").Scan(&count); err != nil {
			t.Fatalf("counting view set rows: %v", err)
		}
		if count != 0 {
			t.Fatalf("expected the view set rows to cascade, %d left", count)
		}
	})
}

func TestCredentialDirectory(t *testing.T) {
	ctx := context.Background()

	t.Run("looks up credentials by email", func(t *testing.T) {
		db := openTestDB(t)
		employees := NewEmployeeStore(db)
		directory := NewCredentialDirectory(db)

		stored := addEmployees(t, employees, testfixtures.NewEmployee())[0]
		if err := directory.SetPassword(ctx, stored.ID, "hash-one"); err != nil {
			t.Fatalf("set password failed: %v", err)
		}

		got, hash, err := directory.CredentialsByEmail(ctx, stored.Email)
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if got.ID != stored.ID || hash != "hash-one" {
			t.Fatalf("unexpected lookup result: %+v, %q", got, hash)
		}
	})

	t.Run("employee without credentials reports NotFound", func(t *testing.T) {
		db := openTestDB(t)
		employees := NewEmployeeStore(db)
		directory := NewCredentialDirectory(db)

		stored := addEmployees(t, employees, testfixtures.NewEmployee())[0]

		if _, _, err := directory.CredentialsByEmail(ctx, stored.Email); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected store.ErrNotFound, got %v", err)
		}
	})

	t.Run("set password replaces an existing hash", func(t *testing.T) {
		db := openTestDB(t)
		employees := NewEmployeeStore(db)
		directory := NewCredentialDirectory(db)

		stored := addEmployees(t, employees, testfixtures.NewEmployee())[0]
		if err := directory.SetPassword(ctx, stored.ID, "hash-one"); err != nil {
			t.Fatalf("set password failed: %v", err)
		}
		if err := directory.SetPassword(ctx, stored.ID, "hash-two"); err != nil {
			t.Fatalf("replacing password failed: %v", err)
		}

		_, hash, err := directory.CredentialsByEmail(ctx, stored.Email)
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if hash != "hash-two" {
			t.Fatalf("expected the replaced hash, got %q", hash)
		}
	})

	t.Run("resolves employees by id", func(t *testing.T) {
		db := openTestDB(t)
		employees := NewEmployeeStore(db)
		directory := NewCredentialDirectory(db)

		stored := addEmployees(t, employees, testfixtures.NewEmployee())[0]

		got, err := directory.EmployeeByID(ctx, stored.ID)
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if got.Email != stored.Email {
			t.Fatalf("expected %s, got %s", stored.Email, got.Email)
		}

		if _, err := directory.EmployeeByID(ctx, 99); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected store.ErrNotFound, got %v", err)
		}
	})
}
