package routers

import (
	"github.com/mockwiseai/backend/internal/handlers"
	"github.com/mockwiseai/backend/internal/metrics"
	"github.com/mockwiseai/backend/internal/middleware"
	"github.com/mockwiseai/backend/internal/models"

	"github.com/go-chi/chi/v5"
)

func HealthRoutes(router *chi.Mux, healthHandler *handlers.HealthHandler) {
	router.Get("/healthz", healthHandler.HealthzHandler)
	router.Get("/readyz", healthHandler.ReadyzHandler)
	router.Handle("/metrics", metrics.Handler())
}

func AuthRoutes(router *chi.Mux, authHandler *handlers.AuthHandler, secret string) {
	router.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.ValidateRequest[*models.RegisterRequest]()).Post("/register", authHandler.RegisterHandler)
		r.With(middleware.ValidateRequest[*models.LoginRequest]()).Post("/login", authHandler.LoginHandler)
		r.With(middleware.Auth(secret)).Get("/me", authHandler.MeHandler)
	})
}

func InterviewRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler, invitationHandler *handlers.InvitationHandler, secret string) {
	router.Route("/api/v1/interviews", func(r chi.Router) {
		r.Use(middleware.Auth(secret))
		r.With(middleware.ValidateRequest[*models.InterviewRequest]()).Post("/", interviewHandler.CreateHandler)
		r.Get("/", interviewHandler.ListHandler)
		r.Get("/{id}", interviewHandler.GetHandler)
		r.With(middleware.ValidateRequest[*models.InterviewRequest]()).Put("/{id}", interviewHandler.UpdateHandler)
		r.Delete("/{id}", interviewHandler.DeleteHandler)
		r.Post("/{id}/link", interviewHandler.RegenerateLinkHandler)
		r.Get("/{id}/submissions", interviewHandler.SubmissionsHandler)
		r.Get("/{id}/invitations", invitationHandler.ListHandler)
	})
}

func InvitationRoutes(router *chi.Mux, invitationHandler *handlers.InvitationHandler, secret string) {
	router.Route("/api/v1/invitations", func(r chi.Router) {
		r.Get("/verify/{token}", invitationHandler.VerifyHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(secret))
			r.With(middleware.ValidateRequest[*models.SendInvitationsRequest]()).Post("/send", invitationHandler.SendHandler)
			r.With(middleware.ValidateRequest[*models.ResendInvitationRequest]()).Post("/resend", invitationHandler.ResendHandler)
			r.Post("/expire/{token}", invitationHandler.ExpireHandler)
		})
	})
}

func SessionRoutes(router *chi.Mux, sessionHandler *handlers.SessionHandler, secret string) {
	router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Get("/link/{link}", sessionHandler.GetByLinkHandler)
		r.With(middleware.ValidateRequest[*models.BeginSessionRequest]()).Post("/{interviewId}/begin", sessionHandler.BeginHandler)
		r.With(middleware.ValidateRequest[*models.SubmitAnswersRequest]()).Post("/{interviewId}/answers", sessionHandler.SubmitAnswersHandler)
		r.With(middleware.ValidateRequest[*models.CompleteSessionRequest]()).Post("/{interviewId}/complete", sessionHandler.CompleteHandler)
		r.Get("/{interviewId}/progress/{email}", sessionHandler.ProgressHandler)

		r.With(middleware.Auth(secret), middleware.ValidateRequest[*models.UpdateStatusRequest]()).
			Patch("/{interviewId}/status", sessionHandler.UpdateStatusHandler)
	})
}

func QuestionRoutes(router *chi.Mux, questionHandler *handlers.QuestionHandler, secret string) {
	router.Route("/api/v1/questions", func(r chi.Router) {
		r.Get("/", questionHandler.ListHandler)
		r.Get("/{id}", questionHandler.GetHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(secret))
			r.With(middleware.ValidateRequest[*models.QuestionRequest]()).Post("/", questionHandler.CreateHandler)
			r.With(middleware.ValidateRequest[*models.QuestionRequest]()).Put("/{id}", questionHandler.UpdateHandler)
			r.Delete("/{id}", questionHandler.DeleteHandler)
		})
	})
}

func JudgeRoutes(router *chi.Mux, judgeHandler *handlers.JudgeHandler) {
	router.Route("/api/v1/judge", func(r chi.Router) {
		r.Use(middleware.ValidateRequest[*models.RunCodeRequest]())
		r.Post("/run", judgeHandler.RunHandler)
		r.Post("/questions/{id}/test", judgeHandler.TestHandler)
	})
}
