package routers

import (
	"net/http"
	"time"

	"github.com/mockwiseai/backend/internal/handlers"
	"github.com/mockwiseai/backend/internal/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Interviews  *handlers.InterviewHandler
	Invitations *handlers.InvitationHandler
	Sessions    *handlers.SessionHandler
	Questions   *handlers.QuestionHandler
	Judge       *handlers.JudgeHandler
}

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	// AccessLog enables chi's request logger
	AccessLog bool
}

// New builds the service router with the standard middleware stack.
func New(opts Options, h Handlers) *chi.Mux {
	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(chimw.RequestID, chimw.RealIP)
	if opts.AccessLog {
		router.Use(chimw.Logger)
	}
	router.Use(chimw.Recoverer, metrics.Middleware, chimw.Timeout(60*time.Second))

	HealthRoutes(router, h.Health)
	AuthRoutes(router, h.Auth, opts.JWTSecret)
	InterviewRoutes(router, h.Interviews, h.Invitations, opts.JWTSecret)
	InvitationRoutes(router, h.Invitations, opts.JWTSecret)
	SessionRoutes(router, h.Sessions, opts.JWTSecret)
	QuestionRoutes(router, h.Questions, opts.JWTSecret)
	JudgeRoutes(router, h.Judge)
	return router
}
