package category

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cofferapp/coffer/internal/http/httperr"
	"github.com/cofferapp/coffer/internal/ledger"
	"github.com/cofferapp/coffer/internal/vault"
)

type Handler struct {
	session *vault.Session
}

func NewHandler(session *vault.Session) *Handler {
	return &Handler{session: session}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type categoryRequest struct {
	Name  string              `json:"name"`
	Kind  ledger.CategoryKind `json:"type"`
	Color string              `json:"color"`
}

func (r categoryRequest) draft() ledger.CategoryDraft {
	return ledger.CategoryDraft{Name: r.Name, Kind: r.Kind, Color: r.Color}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var created *ledger.Category

	err := h.session.Mutate(r.Context(), func(eng *ledger.Engine) error {
		var err error

		created, err = eng.CreateCategory(req.draft())

		return err
	})
	if err != nil {
		httperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var categories []*ledger.Category

	err := h.session.View(func(l *ledger.Ledger) error {
		categories = l.Categories
		return nil
	})
	if err != nil {
		httperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]*ledger.Category{"categories": categories})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var updated *ledger.Category

	err := h.session.Mutate(r.Context(), func(eng *ledger.Engine) error {
		var err error

		updated, err = eng.UpdateCategory(id, req.draft())

		return err
	})
	if err != nil {
		httperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.session.Mutate(r.Context(), func(eng *ledger.Engine) error {
		return eng.DeleteCategory(id)
	})
	if err != nil {
		httperr.Write(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
