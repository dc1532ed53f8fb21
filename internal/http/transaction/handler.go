package transaction

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
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	draft, err := req.draft()
	if err != nil {
		httperr.Write(w, err)
		return
	}

	var created *ledger.Transaction

	err = h.session.Mutate(r.Context(), func(eng *ledger.Engine) error {
		created, err = eng.CreateTransaction(draft)
		return err
	})
	if err != nil {
		httperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := ledger.Filter{
		Type:      ledger.TransactionType(r.URL.Query().Get("type")),
		AccountID: r.URL.Query().Get("account"),
		Search:    r.URL.Query().Get("q"),
	}

	var txs []*ledger.Transaction

	err := h.session.View(func(l *ledger.Ledger) error {
		txs = l.List(filter)
		return nil
	})
	if err != nil {
		httperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Transactions: txs})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var tx *ledger.Transaction

	err := h.session.View(func(l *ledger.Ledger) error {
		found := l.FindTransaction(id)
		if found == nil {
			return ledger.ErrNotFound
		}

		tx = found

		return nil
	})
	if err != nil {
		httperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	draft, err := req.draft()
	if err != nil {
		httperr.Write(w, err)
		return
	}

	var updated *ledger.Transaction

	err = h.session.Mutate(r.Context(), func(eng *ledger.Engine) error {
		updated, err = eng.UpdateTransaction(id, draft)
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
		return eng.DeleteTransaction(id)
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
