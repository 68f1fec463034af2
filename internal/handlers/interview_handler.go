package handlers

import (
	"net/http"

	"github.com/mockwiseai/backend/internal/middleware"
	"github.com/mockwiseai/backend/internal/models"
	"github.com/mockwiseai/backend/internal/services"
	"github.com/mockwiseai/backend/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// InterviewHandler serves the recruiter's interview management endpoints.
type InterviewHandler struct {
	interviews *services.InterviewService
	sessions   *services.SessionService
	logger     *zap.Logger
}

func NewInterviewHandler(interviews *services.InterviewService, sessions *services.SessionService, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{interviews: interviews, sessions: sessions, logger: logger}
}

func (h *InterviewHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.InterviewRequest](r)

	iv, err := h.interviews.Create(r.Context(), middleware.RecruiterID(r.Context()), req)
	if err != nil {
		writeError(w, r, h.logger, recruiter, err)
		return
	}
	h.logger.Info("interview created", zap.String("interview_id", iv.ID))
	w.Header().Set("Location", "/api/v1/interviews/"+iv.ID)
	utils.JSON(w, http.StatusCreated, iv)
}

func (h *InterviewHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.interviews.List(r.Context(), middleware.RecruiterID(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, recruiter, err)
		return
	}
	if list == nil {
		list = []models.Interview{}
	}
	utils.JSON(w, http.StatusOK, list)
}

func (h *InterviewHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	iv, err := h.interviews.GetOwned(r.Context(), chi.URLParam(r, "id"), middleware.RecruiterID(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, recruiter, err)
		return
	}
	utils.JSON(w, http.StatusOK, iv)
}

func (h *InterviewHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.InterviewRequest](r)

	iv, err := h.interviews.Update(r.Context(), chi.URLParam(r, "id"), middleware.RecruiterID(r.Context()), req)
	if err != nil {
		writeError(w, r, h.logger, recruiter, err)
		return
	}
	utils.JSON(w, http.StatusOK, iv)
}

func (h *InterviewHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.interviews.Delete(r.Context(), id, middleware.RecruiterID(r.Context())); err != nil {
		writeError(w, r, h.logger, recruiter, err)
		return
	}
	h.logger.Info("interview deleted", zap.String("interview_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// RegenerateLinkHandler replaces the interview's unique link.
func (h *InterviewHandler) RegenerateLinkHandler(w http.ResponseWriter, r *http.Request) {
	iv, err := h.interviews.RegenerateLink(r.Context(), chi.URLParam(r, "id"), middleware.RecruiterID(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, recruiter, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"uniqueLink": iv.UniqueLink})
}

func (h *InterviewHandler) SubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	iv, err := h.interviews.GetOwned(r.Context(), chi.URLParam(r, "id"), middleware.RecruiterID(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, recruiter, err)
		return
	}
	subs, err := h.sessions.ListSubmissions(r.Context(), iv.ID)
	if err != nil {
		writeError(w, r, h.logger, recruiter, err)
		return
	}
	if subs == nil {
		subs = []models.Submission{}
	}
	utils.JSON(w, http.StatusOK, subs)
}
