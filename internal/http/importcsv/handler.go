package importcsv

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cofferapp/coffer/internal/http/httperr"
	"github.com/cofferapp/coffer/internal/importer"
	"github.com/cofferapp/coffer/internal/importer/generic"
	"github.com/cofferapp/coffer/internal/ledger"
	"github.com/cofferapp/coffer/internal/vault"
)

type Handler struct {
	session *vault.Session
	svc     *importer.Service
}

func NewHandler(session *vault.Session, svc *importer.Service) *Handler {
	return &Handler{session: session, svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.preview)
	r.Post("/confirm", h.confirm)
}

type previewResponse struct {
	Rows []generic.Row `json:"rows"`
}

type confirmRequest struct {
	Rows []generic.Row `json:"rows"`
}

type confirmResponse struct {
	Imported int `json:"imported"`
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := h.svc.Preview(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, previewResponse{Rows: rows})
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	var imported int

	err := h.session.Mutate(r.Context(), func(eng *ledger.Engine) error {
		var err error

		imported, err = h.svc.Commit(req.Rows, eng)

		return err
	})
	if err != nil {
		httperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, confirmResponse{Imported: imported})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
