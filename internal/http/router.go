package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/dindin/internal/http/account"
	"github.com/MrJamesThe3rd/dindin/internal/http/auth"
	"github.com/MrJamesThe3rd/dindin/internal/http/transaction"
	"github.com/MrJamesThe3rd/dindin/internal/http/user"
)

func New(
	allowedOrigins []string,
	authV1 *auth.Handler,
	accountsV1 *account.Handler,
	transactionsV1 *transaction.Handler,
	usersV1 *user.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/login", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			usersV1.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Route("/accounts", accountsV1.Routes)

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				transactionsV1.Routes(r)
			})
		})
	})

	return router
}
