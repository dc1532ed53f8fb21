package session

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cofferapp/coffer/internal/http/auth"
	"github.com/cofferapp/coffer/internal/http/httperr"
	"github.com/cofferapp/coffer/internal/vault"
)

type Handler struct {
	session *vault.Session
	issuer  *auth.Issuer
}

func NewHandler(session *vault.Session, issuer *auth.Issuer) *Handler {
	return &Handler{session: session, issuer: issuer}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/status", h.status)
	r.Post("/setup", h.setup)
	r.Post("/unlock", h.unlock)
	r.Post("/lock", h.lock)
	r.Post("/reset", h.reset)
}

type passwordRequest struct {
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type statusResponse struct {
	Initialized bool `json:"initialized"`
	Unlocked    bool `json:"unlocked"`
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	exists, err := h.session.Exists(r.Context())
	if err != nil {
		httperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Initialized: exists,
		Unlocked:    h.session.Unlocked(),
	})
}

func (h *Handler) setup(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.session.Setup(r.Context(), req.Password); err != nil {
		httperr.Write(w, err)
		return
	}

	h.issueToken(w, http.StatusCreated)
}

func (h *Handler) unlock(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.session.Unlock(r.Context(), req.Password); err != nil {
		httperr.Write(w, err)
		return
	}

	h.issueToken(w, http.StatusOK)
}

func (h *Handler) lock(w http.ResponseWriter, _ *http.Request) {
	h.session.Lock()
	w.WriteHeader(http.StatusNoContent)
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !req.Confirm {
		http.Error(w, "reset must be confirmed", http.StatusBadRequest)
		return
	}

	if err := h.session.Reset(r.Context()); err != nil {
		httperr.Write(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) issueToken(w http.ResponseWriter, status int) {
	token, expires, err := h.issuer.Issue(h.session.Epoch())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, status, tokenResponse{Token: token, ExpiresAt: expires})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
