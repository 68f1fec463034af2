package handlers

import (
	"net/http"
	"net/url"

	"github.com/mockwiseai/backend/internal/middleware"
	"github.com/mockwiseai/backend/internal/models"
	"github.com/mockwiseai/backend/internal/services"
	"github.com/mockwiseai/backend/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SessionHandler serves the candidate session lifecycle.
type SessionHandler struct {
	sessions   *services.SessionService
	interviews *services.InterviewService
	logger     *zap.Logger
}

func NewSessionHandler(sessions *services.SessionService, interviews *services.InterviewService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, interviews: interviews, logger: logger}
}

func (h *SessionHandler) GetByLinkHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.GetSession(r.Context(), chi.URLParam(r, "link"))
	if err != nil {
		writeError(w, r, h.logger, candidate, err)
		return
	}
	utils.JSON(w, http.StatusOK, view)
}

func (h *SessionHandler) BeginHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.BeginSessionRequest](r)
	interviewID := chi.URLParam(r, "interviewId")

	sub, err := h.sessions.Start(r.Context(), interviewID, req.Email, req.Name)
	if err != nil {
		writeError(w, r, h.logger, candidate, err)
		return
	}
	utils.JSON(w, http.StatusCreated, models.BeginSessionResponse{
		Status:      sub.Status,
		InitiatedAt: sub.InitiatedAt,
	})
}

func (h *SessionHandler) SubmitAnswersHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SubmitAnswersRequest](r)

	sub, accepted, err := h.sessions.SubmitAnswers(r.Context(), chi.URLParam(r, "interviewId"), req.Email, req.Name, req.Answers)
	if err != nil {
		writeError(w, r, h.logger, candidate, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.SubmitAnswersResponse{
		Status:        sub.Status,
		AcceptedCount: accepted,
	})
}

func (h *SessionHandler) CompleteHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CompleteSessionRequest](r)

	sub, err := h.sessions.Complete(r.Context(), chi.URLParam(r, "interviewId"), req.Email)
	if err != nil {
		writeError(w, r, h.logger, candidate, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.CompleteSessionResponse{
		Status:      sub.Status,
		SubmittedAt: sub.SubmittedAt,
	})
}

func (h *SessionHandler) ProgressHandler(w http.ResponseWriter, r *http.Request) {
	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "validation_error",
			Message: "email is not a valid path segment",
		})
		return
	}

	progress, err := h.sessions.GetProgress(r.Context(), chi.URLParam(r, "interviewId"), email)
	if err != nil {
		writeError(w, r, h.logger, candidate, err)
		return
	}
	utils.JSON(w, http.StatusOK, progress)
}

// UpdateStatusHandler lets the owning recruiter start or complete a session
// on the candidate's behalf.
func (h *SessionHandler) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.UpdateStatusRequest](r)

	iv, err := h.interviews.GetOwned(r.Context(), chi.URLParam(r, "interviewId"), middleware.RecruiterID(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, recruiter, err)
		return
	}
	sub, err := h.sessions.UpdateStatus(r.Context(), iv.ID, req.Status, req.Email, req.Name)
	if err != nil {
		writeError(w, r, h.logger, recruiter, err)
		return
	}
	utils.JSON(w, http.StatusOK, sub)
}
