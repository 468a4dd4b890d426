package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/example/shift-scheduler/internal/sched"
)

// RouterConfig carries the handlers the router mounts.
type RouterConfig struct {
	Auth      *AuthHandler
	Employees *EntityHandler[sched.Employee]
	Shifts    *ShiftHandler
	Configs   *EntityHandler[sched.ViewConfig]
	Calendar  *CalendarHandler
	Hub       *Hub
	Verifier  SessionVerifier
	Logger    *slog.Logger
}

// NewRouter mounts the API under /sched/api. All operations are POST with a
// JSON body; the route name carries the verb. Everything except login sits
// behind the session middleware, and mutations additionally require
// supervisor level (employee records require admin).
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(cfg.Logger))

	r.Route("/sched/api", func(r chi.Router) {
		r.Post("/login_request", cfg.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(RequireSession(cfg.Verifier, cfg.Logger))

			r.Post("/logout_request", cfg.Auth.Logout)
			r.Post("/check_session", cfg.Auth.CheckSession)
			r.Post("/change_password", cfg.Auth.ChangePassword)

			r.Post("/get_employees", cfg.Employees.List)
			r.Post("/get_shifts", cfg.Shifts.List)
			r.Post("/get_settings", cfg.Configs.List)
			r.Post("/get_day_shifts", cfg.Calendar.DayShifts)

			r.Get("/watch", cfg.Hub.ServeWS)

			// Settings belong to the session employee, so any level may
			// manage its own.
			r.Post("/add_settings", cfg.Configs.Add)
			r.Post("/replace_settings", cfg.Configs.Replace)
			r.Post("/remove_settings", cfg.Configs.Remove)

			r.Group(func(r chi.Router) {
				r.Use(RequireLevel(sched.LevelSupervisor, cfg.Logger))

				r.Post("/add_shift", cfg.Shifts.Add)
				r.Post("/replace_shift", cfg.Shifts.Replace)
				r.Post("/remove_shift", cfg.Shifts.Remove)

				r.Post("/replace_employee", cfg.Employees.Replace)
			})

			r.Group(func(r chi.Router) {
				r.Use(RequireLevel(sched.LevelAdmin, cfg.Logger))

				r.Post("/add_employee", cfg.Employees.Add)
				r.Post("/remove_employee", cfg.Employees.Remove)
			})
		})
	})

	return r
}
