package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/shift-scheduler/internal/application"
	"github.com/example/shift-scheduler/internal/sched"
	"github.com/example/shift-scheduler/internal/store"
	"github.com/example/shift-scheduler/internal/testfixtures"
)

// apiStub is a canned server for one test: route name to handler.
func apiStub(t *testing.T, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	for route, handler := range routes {
		mux.HandleFunc("/sched/api/"+route, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Errorf("encode stub response: %v", err)
	}
}

func TestClientSessionFlow(t *testing.T) {
	employee := testfixtures.NewEmployee(testfixtures.WithEmployeeName("Jeff", "Wright"))

	var sawToken string
	srv := apiStub(t, map[string]http.HandlerFunc{
		"login_request": func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password != "hunter2" {
				writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "authentication failed"})
				return
			}
			http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "issued-token"})
			writeJSON(t, w, http.StatusOK, employee)
		},
		"check_session": func(w http.ResponseWriter, r *http.Request) {
			sawToken = r.Header.Get("Authorization")
			writeJSON(t, w, http.StatusOK, employee)
		},
		"logout_request": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
	})

	client := NewClient(srv.URL, srv.Client())
	creds := NewCredentials(client)
	ctx := context.Background()

	t.Run("failed login surfaces invalid credentials", func(t *testing.T) {
		_, err := creds.Login(ctx, employee.Email, "wrong")
		if !errors.Is(err, application.ErrInvalidCredentials) {
			t.Fatalf("err = %v, want ErrInvalidCredentials", err)
		}
		if errors.Is(err, application.ErrInvalidSession) {
			t.Fatal("rejected credentials must not look like a stale session")
		}
		if _, ok := creds.Current(); ok {
			t.Fatal("failed login must not cache an employee")
		}
	})

	t.Run("login picks up the session cookie", func(t *testing.T) {
		got, err := creds.Login(ctx, employee.Email, "hunter2")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if got.Last != "Wright" {
			t.Fatalf("employee = %+v, want Wright", got)
		}
		if token := client.currentToken(); token != "issued-token" {
			t.Fatalf("token = %q, want issued-token", token)
		}
	})

	t.Run("check sends the bearer token", func(t *testing.T) {
		if _, err := creds.Check(ctx); err != nil {
			t.Fatalf("Check: %v", err)
		}
		if sawToken != "Bearer issued-token" {
			t.Fatalf("Authorization = %q, want Bearer issued-token", sawToken)
		}
		if current, ok := creds.Current(); !ok || current.ID != employee.ID {
			t.Fatal("check must cache the session employee")
		}
	})

	t.Run("logout drops token and cached employee", func(t *testing.T) {
		if err := creds.Logout(ctx); err != nil {
			t.Fatalf("Logout: %v", err)
		}
		if token := client.currentToken(); token != "" {
			t.Fatalf("token = %q, want empty", token)
		}
		if _, ok := creds.Current(); ok {
			t.Fatal("logout must drop the cached employee")
		}
	})
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		wantErr error
	}{
		{
			name:    "not found",
			status:  http.StatusNotFound,
			body:    map[string]string{"message": "the requested record does not exist"},
			wantErr: store.ErrNotFound,
		},
		{
			name:    "conflict",
			status:  http.StatusConflict,
			body:    map[string]string{"message": "a record with that id already exists"},
			wantErr: store.ErrDuplicateIdentity,
		},
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			body:    map[string]string{"message": "authentication failed"},
			wantErr: application.ErrInvalidSession,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := apiStub(t, map[string]http.HandlerFunc{
				"replace_employee": func(w http.ResponseWriter, r *http.Request) {
					writeJSON(t, w, tc.status, tc.body)
				},
			})

			employees := NewEmployeeStore(NewClient(srv.URL, srv.Client()))
			_, err := employees.Update(context.Background(), testfixtures.NewEmployee())
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}

	t.Run("validation errors keep their fields", func(t *testing.T) {
		srv := apiStub(t, map[string]http.HandlerFunc{
			"add_settings": func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusUnprocessableEntity, map[string]any{
					"message": "validation failed",
					"errors":  map[string]string{"config_name": "must not be empty"},
				})
			},
		})

		configs := NewConfigStore(NewClient(srv.URL, srv.Client()))
		_, err := configs.Add(context.Background(), testfixtures.NewViewConfig())

		var vErr *application.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("err = %v, want *ValidationError", err)
		}
		if vErr.FieldErrors["config_name"] == "" {
			t.Fatalf("FieldErrors = %v, want config_name entry", vErr.FieldErrors)
		}
	})
}

func TestShiftStoreRoundTrip(t *testing.T) {
	shift := testfixtures.NewShift(testfixtures.WithShiftEmployee(1))

	srv := apiStub(t, map[string]http.HandlerFunc{
		"get_shifts": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, []sched.ShiftMessage{shift.Message()})
		},
		"add_shift": func(w http.ResponseWriter, r *http.Request) {
			var msg sched.ShiftMessage
			if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
				t.Errorf("decode add_shift body: %v", err)
			}
			writeJSON(t, w, http.StatusCreated, msg.WithEntityID(7))
		},
	})

	shifts := NewShiftStore(NewClient(srv.URL, srv.Client()))
	ctx := context.Background()

	t.Run("get converts messages back to shifts", func(t *testing.T) {
		got, err := shifts.Get(ctx)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if len(got) != 1 || !got[0].Equal(shift) {
			t.Fatalf("got = %+v, want the original shift", got)
		}
	})

	t.Run("add returns the assigned identity", func(t *testing.T) {
		added, err := shifts.Add(ctx, shift)
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if added.ID != 7 {
			t.Fatalf("added.ID = %d, want 7", added.ID)
		}
	})
}

func TestShiftStoreRejectsMalformedServerTimestamps(t *testing.T) {
	srv := apiStub(t, map[string]http.HandlerFunc{
		"get_shifts": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, []sched.ShiftMessage{{
				ID:    1,
				Start: "yesterday",
				End:   "today",
			}})
		},
	})

	shifts := NewShiftStore(NewClient(srv.URL, srv.Client()))
	_, err := shifts.Get(context.Background())
	if !errors.Is(err, sched.ErrMalformedTimestamp) {
		t.Fatalf("err = %v, want ErrMalformedTimestamp", err)
	}
}
