package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/shift-scheduler/internal/application"
	"github.com/example/shift-scheduler/internal/sched"
	"github.com/example/shift-scheduler/internal/store"
)

// ShiftHandler serves the shift collection. Shifts cross the wire as
// ShiftMessage, so every request decodes the message form and converts;
// malformed timestamps are rejected before they reach the store.
type ShiftHandler struct {
	store     store.Store[sched.Shift]
	notifier  Notifier
	responder responder
}

// NewShiftHandler wires the shift CRUD endpoints.
func NewShiftHandler(s store.Store[sched.Shift], notifier Notifier, logger *slog.Logger) *ShiftHandler {
	return &ShiftHandler{store: s, notifier: notifier, responder: newResponder(logger)}
}

// List returns the full collection, projected to wire form.
func (h *ShiftHandler) List(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.store.Get(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	messages := make([]sched.ShiftMessage, 0, len(shifts))
	for _, s := range shifts {
		messages = append(messages, s.Message())
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, messages)
}

// Add inserts the posted shift and returns it with its assigned identity.
func (h *ShiftHandler) Add(w http.ResponseWriter, r *http.Request) {
	shift, ok := h.decode(w, r)
	if !ok {
		return
	}

	added, err := h.store.Add(r.Context(), shift)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.notify()
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, added.Message())
}

// Replace updates the shift matching the posted identity wholesale.
func (h *ShiftHandler) Replace(w http.ResponseWriter, r *http.Request) {
	shift, ok := h.decode(w, r)
	if !ok {
		return
	}

	updated, err := h.store.Update(r.Context(), shift)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.notify()
	h.responder.writeJSON(r.Context(), w, http.StatusOK, updated.Message())
}

// Remove deletes the shift matching the posted identity.
func (h *ShiftHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var msg sched.ShiftMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	// Removal is identity-based; the timestamps are irrelevant.
	if err := h.store.Remove(r.Context(), sched.Shift{ID: msg.ID}); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.notify()
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ShiftHandler) decode(w http.ResponseWriter, r *http.Request) (sched.Shift, bool) {
	var msg sched.ShiftMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return sched.Shift{}, false
	}

	shift, err := sched.ShiftFromMessage(msg)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return sched.Shift{}, false
	}
	if err := application.ValidateShift(shift); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return sched.Shift{}, false
	}
	return shift, true
}

func (h *ShiftHandler) notify() {
	if h.notifier != nil {
		h.notifier.Notify("shifts")
	}
}
