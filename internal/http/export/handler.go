package export

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cofferapp/coffer/internal/export"
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
	r.Get("/", h.download)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	err := h.session.View(func(l *ledger.Ledger) error {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", export.Filename(now)))

		return export.Write(w, l, now)
	})
	if err != nil {
		httperr.Write(w, err)
		return
	}
}
