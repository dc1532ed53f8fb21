package report

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

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
	r.Get("/summary", h.summary)
	r.Get("/breakdown", h.breakdown)
	r.Get("/balance", h.balance)
	r.Get("/recent", h.recent)
}

type summaryResponse struct {
	Month   string `json:"month"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
	Net     int64  `json:"net"`
	Count   int    `json:"count"`
}

type breakdownResponse struct {
	Month      string                 `json:"month"`
	Categories []ledger.CategoryTotal `json:"categories"`
}

type balanceResponse struct {
	Total int64 `json:"total"`
}

type recentResponse struct {
	Transactions []*ledger.Transaction `json:"transactions"`
}

const defaultRecentLimit = 10

// month reads the ?month=YYYY-MM query parameter, defaulting to the
// current month.
func month(r *http.Request) (int, time.Month, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		now := time.Now()
		return now.Year(), now.Month(), nil
	}

	t, err := time.Parse("2006-01", raw)
	if err != nil {
		return 0, 0, err
	}

	return t.Year(), t.Month(), nil
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	year, m, err := month(r)
	if err != nil {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return
	}

	var summary ledger.Summary

	err = h.session.View(func(l *ledger.Ledger) error {
		summary = l.MonthlySummary(year, m)
		return nil
	})
	if err != nil {
		httperr.Write(w, err)
		return
	}

	writeJSON(w, summaryResponse{
		Month:   time.Date(year, m, 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
		Income:  summary.Income,
		Expense: summary.Expense,
		Net:     summary.Net,
		Count:   summary.Count,
	})
}

func (h *Handler) breakdown(w http.ResponseWriter, r *http.Request) {
	year, m, err := month(r)
	if err != nil {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return
	}

	totals := []ledger.CategoryTotal{}

	err = h.session.View(func(l *ledger.Ledger) error {
		totals = append(totals, l.ExpenseBreakdown(year, m)...)
		return nil
	})
	if err != nil {
		httperr.Write(w, err)
		return
	}

	writeJSON(w, breakdownResponse{
		Month:      time.Date(year, m, 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
		Categories: totals,
	})
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}

		limit = parsed
	}

	txs := []*ledger.Transaction{}

	err := h.session.View(func(l *ledger.Ledger) error {
		txs = append(txs, l.Recent(limit)...)
		return nil
	})
	if err != nil {
		httperr.Write(w, err)
		return
	}

	writeJSON(w, recentResponse{Transactions: txs})
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	var total int64

	err := h.session.View(func(l *ledger.Ledger) error {
		total = l.TotalBalance()
		return nil
	})
	if err != nil {
		httperr.Write(w, err)
		return
	}

	writeJSON(w, balanceResponse{Total: total})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
