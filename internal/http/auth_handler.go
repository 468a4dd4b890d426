package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/shift-scheduler/internal/sched"
)

// AuthSessions is the slice of the auth service the handler needs.
type AuthSessions interface {
	Login(ctx context.Context, email, password string) (sched.Employee, string, error)
	Logout(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, employeeID int, password string) error
}

// AuthHandler serves login, logout and session introspection.
type AuthHandler struct {
	sessions   AuthSessions
	sessionTTL time.Duration
	responder  responder
}

// NewAuthHandler wires the auth endpoints.
func NewAuthHandler(sessions AuthSessions, sessionTTL time.Duration, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, sessionTTL: sessionTTL, responder: newResponder(logger)}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	employee, token, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	h.responder.writeJSON(r.Context(), w, http.StatusOK, employee)
}

// Logout revokes the current session and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if err := h.sessions.Logout(r.Context(), token); err != nil {
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type changePasswordRequest struct {
	// EmployeeID defaults to the session employee when omitted.
	EmployeeID *int   `json:"employee_id,omitempty"`
	Password   string `json:"password"`
}

// ChangePassword sets a new password. Employees change their own; setting
// another employee's password requires admin level, which is how new
// accounts get a first password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	current, ok := EmployeeFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	target := current.ID
	if req.EmployeeID != nil {
		target = *req.EmployeeID
	}
	if target != current.ID && !current.Level.AtLeast(sched.LevelAdmin) {
		h.responder.writeError(r.Context(), w, http.StatusForbidden, errInsufficientLevel)
		return
	}

	if err := h.sessions.ChangePassword(r.Context(), target, req.Password); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// CheckSession returns the employee behind the current session. It runs
// after RequireSession, so the employee is already resolved.
func (h *AuthHandler) CheckSession(w http.ResponseWriter, r *http.Request) {
	employee, ok := EmployeeFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, employee)
}
