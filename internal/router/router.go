// Package router sets up all HTTP routes and middleware chains for the
// Pressroom API. It organizes routes into public, authenticated, elevated,
// and admin-only groups with appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pressroom/internal/handlers"
	"pressroom/internal/middleware"
	"pressroom/internal/models"
	"pressroom/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(
	sessions *session.Store,
	loginLimiter *middleware.RateLimiter,
	auth *handlers.Auth,
	blogs *handlers.Blogs,
	categories *handlers.Categories,
	media *handlers.Media,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Authenticate(sessions))

	r.Get("/health", healthHandler)

	r.Route("/auth", func(r chi.Router) {
		r.With(loginLimiter.Middleware).Post("/login", auth.Login)
		// Logout is deliberately unauthenticated: it succeeds even
		// without a valid credential.
		r.Post("/logout", auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/me", auth.Me)
			// 2FA setup/verify run before the RequireVerified gate.
			r.Post("/2fa/setup", auth.TwoFASetup)
			r.Post("/2fa/enable", auth.TwoFAEnable)
			r.Post("/2fa/verify", auth.TwoFAVerify)
		})
	})

	r.Route("/blogs", func(r chi.Router) {
		// Static segments must register before the {slug} wildcard.
		r.Get("/public", blogs.PublicList)
		r.Get("/public/{slug}", blogs.PublicGetBySlug)
		r.Get("/trending", blogs.Trending)
		r.Get("/popular", blogs.Popular)
		r.Get("/tag/{tag}", blogs.TagFeed)

		r.With(middleware.RequireAuth).Get("/", blogs.List)
		r.Get("/{slug}", blogs.GetBySlug)

		// Content management — admin or subadmin, 2FA-verified.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleSubadmin))
			r.Use(middleware.RequireVerified)
			r.Get("/id/{id}", blogs.GetByID)
			r.Post("/", blogs.Create)
			r.Put("/{id}", blogs.Update)
		})

		// Hard delete is admin only.
		r.With(
			middleware.RequireRole(models.RoleAdmin),
			middleware.RequireVerified,
		).Delete("/{id}", blogs.Delete)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", categories.List)
		r.Get("/id/{id}", categories.GetByID)
		r.Get("/{slug}", categories.GetBySlug)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleSubadmin))
			r.Use(middleware.RequireVerified)
			r.Post("/", categories.Create)
			r.Put("/{id}", categories.Update)
		})

		r.With(
			middleware.RequireRole(models.RoleAdmin),
			middleware.RequireVerified,
		).Delete("/{id}", categories.Delete)
	})

	r.With(
		middleware.RequireRole(models.RoleAdmin, models.RoleSubadmin),
		middleware.RequireVerified,
	).Post("/media", media.Upload)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
