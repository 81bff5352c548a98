package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/taskward/api/internal/core/ports"
)

func NewHandler(
	logger *zap.Logger,
	authService ports.AuthService,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	taskHandler *TaskHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(Authenticator(authService))

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/me", userHandler.GetMe)
			r.Delete("/me", userHandler.DeleteMe)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", taskHandler.Get)
					r.Put("/", taskHandler.Update)
					r.Patch("/", taskHandler.PartialUpdate)
					r.Delete("/", taskHandler.Delete)
					r.Post("/complete", taskHandler.Complete)
					r.Post("/reopen", taskHandler.Reopen)
				})
			})
		})
	})

	return r
}
