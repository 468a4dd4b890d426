package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/shift-scheduler/internal/store"
)

// Notifier receives the name of a collection after one of its records
// mutates. A nil Notifier disables notifications.
type Notifier interface {
	Notify(collection string)
}

// EntityHandler serves the uniform get/add/replace/remove quartet for one
// entity collection, directly over its store.
type EntityHandler[T store.Entity[T]] struct {
	collection string
	store      store.Store[T]
	validate   func(T) error
	notifier   Notifier
	responder  responder
}

// NewEntityHandler wires the CRUD endpoints for one collection. validate
// runs before add and replace; nil means no validation.
func NewEntityHandler[T store.Entity[T]](collection string, s store.Store[T], validate func(T) error, notifier Notifier, logger *slog.Logger) *EntityHandler[T] {
	return &EntityHandler[T]{
		collection: collection,
		store:      s,
		validate:   validate,
		notifier:   notifier,
		responder:  newResponder(logger),
	}
}

// List returns the full collection snapshot.
func (h *EntityHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.Get(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, items)
}

// Add inserts the posted record and returns it with its assigned identity.
func (h *EntityHandler[T]) Add(w http.ResponseWriter, r *http.Request) {
	entity, ok := h.decode(w, r)
	if !ok {
		return
	}

	added, err := h.store.Add(r.Context(), entity)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.notify()
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, added)
}

// Replace updates the record matching the posted identity wholesale.
func (h *EntityHandler[T]) Replace(w http.ResponseWriter, r *http.Request) {
	entity, ok := h.decode(w, r)
	if !ok {
		return
	}

	updated, err := h.store.Update(r.Context(), entity)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.notify()
	h.responder.writeJSON(r.Context(), w, http.StatusOK, updated)
}

// Remove deletes the record matching the posted identity. Removing an
// absent record succeeds, matching the store contract.
func (h *EntityHandler[T]) Remove(w http.ResponseWriter, r *http.Request) {
	var entity T
	if err := json.NewDecoder(r.Body).Decode(&entity); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	if err := h.store.Remove(r.Context(), entity); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.notify()
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *EntityHandler[T]) decode(w http.ResponseWriter, r *http.Request) (T, bool) {
	var entity T
	if err := json.NewDecoder(r.Body).Decode(&entity); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return entity, false
	}
	if h.validate != nil {
		if err := h.validate(entity); err != nil {
			h.responder.handleServiceError(r.Context(), w, err)
			return entity, false
		}
	}
	return entity, true
}

func (h *EntityHandler[T]) notify() {
	if h.notifier != nil {
		h.notifier.Notify(h.collection)
	}
}
