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

type InvitationHandler struct {
	interviews  *services.InterviewService
	invitations *services.InvitationService
	logger      *zap.Logger
}

func NewInvitationHandler(interviews *services.InterviewService, invitations *services.InvitationService, logger *zap.Logger) *InvitationHandler {
	return &InvitationHandler{interviews: interviews, invitations: invitations, logger: logger}
}

// SendHandler invites a batch of candidates. Per-email failures are reported
// in the results, not as an error status.
func (h *InvitationHandler) SendHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SendInvitationsRequest](r)

	iv, err := h.interviews.GetOwned(r.Context(), req.InterviewID, middleware.RecruiterID(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, recruiter, err)
		return
	}

	results := h.invitations.IssueAll(r.Context(), iv, req.All())
	h.logger.Info("invitations processed",
		zap.String("interview_id", iv.ID), zap.Int("count", len(results)))
	utils.JSON(w, http.StatusOK, models.SendInvitationsResponse{
		Message: "Invitations processed",
		Results: results,
	})
}

func (h *InvitationHandler) ResendHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ResendInvitationRequest](r)

	iv, err := h.interviews.GetOwned(r.Context(), req.InterviewID, middleware.RecruiterID(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, recruiter, err)
		return
	}
	inv, sent, err := h.invitations.Resend(r.Context(), iv, req.Email)
	if err != nil {
		writeError(w, r, h.logger, recruiter, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.ResendInvitationResponse{
		Message:   "Invitation resent successfully",
		EmailSent: sent,
		ExpiresAt: inv.ExpiresAt,
	})
}

func (h *InvitationHandler) ExpireHandler(w http.ResponseWriter, r *http.Request) {
	inv, err := h.invitations.Lookup(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, r, h.logger, recruiter, err)
		return
	}
	if _, err := h.interviews.GetOwned(r.Context(), inv.InterviewID, middleware.RecruiterID(r.Context())); err != nil {
		writeError(w, r, h.logger, recruiter, err)
		return
	}
	if err := h.invitations.Expire(r.Context(), inv); err != nil {
		writeError(w, r, h.logger, recruiter, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Invitation expired successfully"})
}

// ListHandler returns every invitation of an interview.
func (h *InvitationHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	iv, err := h.interviews.GetOwned(r.Context(), chi.URLParam(r, "id"), middleware.RecruiterID(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, recruiter, err)
		return
	}
	list, err := h.invitations.List(r.Context(), iv.ID)
	if err != nil {
		writeError(w, r, h.logger, recruiter, err)
		return
	}
	if list == nil {
		list = []models.Invitation{}
	}
	utils.JSON(w, http.StatusOK, list)
}

func (h *InvitationHandler) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	inv, err := h.invitations.Verify(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, r, h.logger, candidate, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.VerifyInvitationResponse{
		Valid:       true,
		InterviewID: inv.InterviewID,
		Email:       inv.Email,
		Name:        inv.Name,
		ExpiresAt:   inv.ExpiresAt,
	})
}
