package http

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"shopcrawl/internal/auth"
	"shopcrawl/internal/config"
	"shopcrawl/internal/products"
	"shopcrawl/internal/search"
	"shopcrawl/internal/shops"
	"shopcrawl/internal/users"
)

// Services bundles everything the router needs. Google is nil when OAuth is
// not configured; the Google login routes then answer 503.
type Services struct {
	Users    *users.Service
	Auth     *auth.Service
	Issuer   *auth.TokenIssuer
	Shops    *shops.Service
	Products *products.Service
	Search   *search.Service
	Google   googleAuthenticator
}

// NewRouter wires application routes and middleware using chi.
func NewRouter(cfg config.Config, svcs Services, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(securityHeaders)
	r.Use(requestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":      "ok",
			"environment": cfg.Environment,
		})
	})

	userHandler := NewUserHandler(svcs.Users, svcs.Auth, logger)
	shopHandler := NewShopHandler(svcs.Shops, logger)
	productHandler := NewProductHandler(svcs.Products, logger)
	searchHandler := NewSearchHandler(svcs.Search, logger)

	// OAuth routes
	if svcs.Google != nil {
		oauthHandler := NewOAuthHandler(svcs.Google, svcs.Auth, cfg.FrontendURL, cfg.Environment, logger)
		r.Get("/authorize_google", oauthHandler.AuthorizeGoogle)
		r.Get("/google_login/callback", oauthHandler.GoogleCallback)
		r.Post("/google_login/callback", oauthHandler.GoogleTokenLogin)
	} else {
		logger.Warn("Google OAuth not configured; login routes disabled")
		oauthUnavailable := func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusServiceUnavailable, "Google login is not configured")
		}
		r.Get("/authorize_google", oauthUnavailable)
		r.Get("/google_login/callback", oauthUnavailable)
		r.Post("/google_login/callback", oauthUnavailable)
	}

	// Public routes
	r.Post("/register", userHandler.Register)
	r.Post("/login", userHandler.Login)
	r.Post("/forgot-password", userHandler.ForgotPassword)
	r.Post("/reset-password/{token}", userHandler.ResetPassword)
	r.Get("/shops", shopHandler.List)
	r.Get("/shops/{id}", shopHandler.Get)

	// Bearer-protected routes
	r.Group(func(r chi.Router) {
		r.Use(requireUser(svcs.Issuer, svcs.Users))

		r.Get("/me", userHandler.Me)
		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/", userHandler.Get)
			r.Put("/", userHandler.Update)
			r.Delete("/", userHandler.Delete)
		})

		r.Post("/shops", shopHandler.Create)
		r.Put("/shops/{id}", shopHandler.Update)
		r.Delete("/shops/{id}", shopHandler.Delete)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Post("/", productHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", productHandler.Get)
				r.Put("/", productHandler.Update)
				r.Delete("/", productHandler.Delete)
			})
		})

		r.Get("/search", searchHandler.Search)
		r.Post("/save-search", searchHandler.SaveSearch)
		r.Get("/searches/{user_id}", searchHandler.ListByUser)
		r.Delete("/delete-search/{search_id}", searchHandler.Delete)
	})

	r.NotFound(http.NotFoundHandler().ServeHTTP)

	return r
}
