package handlers

import (
	"net/http"

	"github.com/mockwiseai/backend/internal/middleware"
	"github.com/mockwiseai/backend/internal/models"
	"github.com/mockwiseai/backend/internal/services"
	"github.com/mockwiseai/backend/internal/utils"

	"go.uber.org/zap"
)

// AuthHandler manages recruiter accounts.
type AuthHandler struct {
	auth   *services.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.RegisterRequest](r)

	resp, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, recruiter, err)
		return
	}
	h.logger.Info("recruiter registered", zap.String("recruiter_id", resp.Recruiter.ID))
	utils.JSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.LoginRequest](r)

	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, recruiter, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := h.auth.Me(r.Context(), middleware.RecruiterID(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, recruiter, err)
		return
	}
	utils.JSON(w, http.StatusOK, rec)
}
