package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/moneta-app/moneta/internal/auth"
	accountHandler "github.com/moneta-app/moneta/internal/http/account"
	"github.com/moneta-app/moneta/internal/http/authapi"
	budgetHandler "github.com/moneta-app/moneta/internal/http/budget"
	reportHandler "github.com/moneta-app/moneta/internal/http/report"
	txHandler "github.com/moneta-app/moneta/internal/http/transaction"
)

func New(
	issuer *auth.TokenIssuer,
	allowedOrigins []string,
	authV1 *authapi.Handler,
	accountsV1 *accountHandler.Handler,
	transactionsV1 *txHandler.Handler,
	budgetsV1 *budgetHandler.Handler,
	reportsV1 *reportHandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticator(issuer))

			r.Route("/accounts", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				accountsV1.Routes(r)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				transactionsV1.Routes(r)
			})

			r.Route("/budgets", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				budgetsV1.Routes(r)
			})

			r.Route("/reports", reportsV1.Routes)
		})
	})

	return router
}
