package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(app.Recoverer)
	router.Use(app.RateLimiter)
	router.Use(app.Authenticate)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", app.healthcheck)
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", app.listCategories)
			r.With(app.requireCatalogAdmin).Post("/", app.createCategory)
			r.With(app.requireCatalogAdmin).Delete("/{slug}", app.deleteCategory)
		})
		r.Route("/genres", func(r chi.Router) {
			r.Get("/", app.listGenres)
			r.With(app.requireCatalogAdmin).Post("/", app.createGenre)
			r.With(app.requireCatalogAdmin).Delete("/{slug}", app.deleteGenre)
		})
		r.Route("/titles", func(r chi.Router) {
			r.Get("/", app.listTitles)
			r.With(app.requireCatalogAdmin).Post("/", app.createTitle)
			r.Get("/{titleID}", app.getTitle)
			r.With(app.requireCatalogAdmin).Patch("/{titleID}", app.updateTitle)
			r.With(app.requireCatalogAdmin).Delete("/{titleID}", app.deleteTitle)
			r.Route("/{titleID}/reviews", func(r chi.Router) {
				r.Get("/", app.listReviews)
				r.With(app.requireAuthenticatedUser).Post("/", app.createReview)
				r.Get("/{reviewID}", app.getReview)
				r.With(app.requireAuthenticatedUser).Patch("/{reviewID}", app.updateReview)
				r.With(app.requireAuthenticatedUser).Delete("/{reviewID}", app.deleteReview)
				r.Route("/{reviewID}/comments", func(r chi.Router) {
					r.Get("/", app.listComments)
					r.With(app.requireAuthenticatedUser).Post("/", app.createComment)
					r.Get("/{commentID}", app.getComment)
					r.With(app.requireAuthenticatedUser).Patch("/{commentID}", app.updateComment)
					r.With(app.requireAuthenticatedUser).Delete("/{commentID}", app.deleteComment)
				})
			})
		})
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", app.signup)
			r.Post("/token", app.token)
		})
		r.Route("/users", func(r chi.Router) {
			r.With(app.requireAuthenticatedUser).Get("/me", app.getMe)
			r.With(app.requireAuthenticatedUser).Patch("/me", app.updateMe)
			r.With(app.requireAdminUser).Get("/", app.listUsers)
			r.With(app.requireAdminUser).Post("/", app.createUser)
			r.With(app.requireAdminUser).Get("/{username}", app.getUser)
			r.With(app.requireAdminUser).Patch("/{username}", app.updateUser)
			r.With(app.requireAdminUser).Delete("/{username}", app.deleteUser)
		})
	})
	return router
}
