package api

import (
	"net/http"
	"tasktrack/internal/api/handler"
	"tasktrack/internal/api/middleware"
	"tasktrack/internal/app/service"
	"tasktrack/internal/common/security"
	"tasktrack/internal/domain/repository"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	tokens *security.TokenService,
	userRepo repository.UserRepository,
	authService *service.AuthService,
	taskService *service.TaskService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Seeks a token in "Authorization: Bearer T" and puts its claims in the
	// request context. Rejection happens later, in Authenticator, so public
	// routes stay reachable without a token.
	r.Use(jwtauth.Verifier(tokens.JWTAuth()))

	authMiddleware := middleware.NewAuthMiddleware(userRepo)

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		// Task routes (any authenticated identity)
		taskHandler := handler.NewTaskHandler(taskService)
		v1.Route("/tasks", func(tasks chi.Router) {
			tasks.Use(authMiddleware.Authenticator)
			tasks.Use(middleware.RequireRoles()) // no role restriction beyond authentication
			taskHandler.RegisterRoutes(tasks)
		})
	})

	return r
}
