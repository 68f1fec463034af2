package handlers

import (
	"errors"
	"net/http"

	"github.com/mockwiseai/backend/internal/models"
	"github.com/mockwiseai/backend/internal/services"
	"github.com/mockwiseai/backend/internal/utils"

	"go.uber.org/zap"
)

// audience decides how much of an internal error reaches the client.
type audience int

const (
	candidate audience = iota
	recruiter
)

type errorKind struct {
	target error
	status int
	code   string
}

var errorKinds = []errorKind{
	{models.ErrNotFound, http.StatusNotFound, "not_found"},
	{models.ErrInvalidInvitation, http.StatusForbidden, "invalid_invitation"},
	{models.ErrExpired, http.StatusGone, "invitation_expired"},
	{models.ErrAlreadyStarted, http.StatusConflict, "already_started"},
	{models.ErrAlreadyCompleted, http.StatusConflict, "already_completed"},
	{models.ErrDuplicateAnswer, http.StatusConflict, "already_answered"},
	{models.ErrInvalidAnswerList, http.StatusBadRequest, "invalid_answer_list"},
	{models.ErrValidation, http.StatusBadRequest, "validation_error"},
	{models.ErrForbidden, http.StatusForbidden, "forbidden"},
	{models.ErrConflict, http.StatusConflict, "conflict"},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
}

// statusFor maps a service error to its HTTP status and error code.
func statusFor(err error) (int, string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return k.status, k.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

// writeError renders err as an ErrorResponse. Server errors are logged;
// recruiters get the underlying text in details, candidates a generic message.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, who audience, err error) {
	status, code := statusFor(err)
	if status < http.StatusInternalServerError {
		utils.Error(w, status, code, models.Message(err))
		return
	}

	logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))

	resp := models.ErrorResponse{Code: code, Message: "Something went wrong, please try again later"}
	if who == recruiter {
		resp.Details = []models.ValidationErrorDetail{{Field: "error", Reason: err.Error()}}
	}
	utils.JSON(w, status, resp)
}
