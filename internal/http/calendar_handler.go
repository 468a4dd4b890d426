package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/shift-scheduler/internal/application"
)

// CalendarHandler serves the rendered day view for the session employee.
type CalendarHandler struct {
	calendar  *application.CalendarService
	responder responder
}

// NewCalendarHandler wires the day view endpoint.
func NewCalendarHandler(calendar *application.CalendarService, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{calendar: calendar, responder: newResponder(logger)}
}

type dayViewRequest struct {
	Date string `json:"date"`
}

// DayShifts renders the shifts visible to the session employee on the
// requested calendar day. The date is a plain "2006-01-02" string.
func (h *CalendarHandler) DayShifts(w http.ResponseWriter, r *http.Request) {
	viewer, ok := EmployeeFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	var req dayViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	ref, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	view, err := h.calendar.DayView(r.Context(), viewer, ref)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, view)
}
