package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cofferapp/coffer/internal/http/account"
	"github.com/cofferapp/coffer/internal/http/auth"
	"github.com/cofferapp/coffer/internal/http/category"
	"github.com/cofferapp/coffer/internal/http/export"
	"github.com/cofferapp/coffer/internal/http/importcsv"
	"github.com/cofferapp/coffer/internal/http/report"
	"github.com/cofferapp/coffer/internal/http/session"
	"github.com/cofferapp/coffer/internal/http/transaction"
	"github.com/cofferapp/coffer/internal/vault"
)

func New(
	vaultSession *vault.Session,
	issuer *auth.Issuer,
	sessionV1 *session.Handler,
	accountsV1 *account.Handler,
	categoriesV1 *category.Handler,
	transactionsV1 *transaction.Handler,
	importV1 *importcsv.Handler,
	exportV1 *export.Handler,
	reportsV1 *report.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			sessionV1.Routes(r)
		})

		// Everything below needs a token from the current unlocked epoch.
		r.Group(func(r chi.Router) {
			r.Use(issuer.Middleware(vaultSession))

			r.Route("/accounts", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				accountsV1.Routes(r)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				categoriesV1.Routes(r)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				transactionsV1.Routes(r)
			})

			r.Route("/import", importV1.Routes)
			r.Route("/export", exportV1.Routes)
			r.Route("/reports", reportsV1.Routes)
		})
	})

	return router
}
