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

// QuestionHandler serves the catalog. Reads are public and never include
// hidden test cases.
type QuestionHandler struct {
	questions *services.QuestionService
	logger    *zap.Logger
}

func NewQuestionHandler(questions *services.QuestionService, logger *zap.Logger) *QuestionHandler {
	return &QuestionHandler{questions: questions, logger: logger}
}

func (handler *QuestionHandler) ListHandler(writer http.ResponseWriter, request *http.Request) {
	qType := models.QuestionType(request.URL.Query().Get("type"))
	if qType != "" && !qType.Valid() {
		utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_type",
			Message: "type must be CodingQuestion or BehavioralQuestion",
		})
		return
	}

	questions, err := handler.questions.List(request.Context(), qType, false)
	if err != nil {
		writeError(writer, request, handler.logger, candidate, err)
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}
	utils.JSON(writer, http.StatusOK, models.QuestionsResponse{Total: len(questions), Items: questions})
}

func (handler *QuestionHandler) GetHandler(writer http.ResponseWriter, request *http.Request) {
	question, err := handler.questions.Get(request.Context(), chi.URLParam(request, "id"), false)
	if err != nil {
		writeError(writer, request, handler.logger, candidate, err)
		return
	}
	utils.JSON(writer, http.StatusOK, question)
}

func (handler *QuestionHandler) CreateHandler(writer http.ResponseWriter, request *http.Request) {
	req := middleware.GetValidatedRequest[*models.QuestionRequest](request)

	question := req.Question
	if err := handler.questions.Create(request.Context(), &question); err != nil {
		writeError(writer, request, handler.logger, recruiter, err)
		return
	}
	writer.Header().Set("Location", "/api/v1/questions/"+question.ID)
	utils.JSON(writer, http.StatusCreated, question)
}

func (handler *QuestionHandler) UpdateHandler(writer http.ResponseWriter, request *http.Request) {
	req := middleware.GetValidatedRequest[*models.QuestionRequest](request)

	question := req.Question
	if err := handler.questions.Update(request.Context(), chi.URLParam(request, "id"), &question); err != nil {
		writeError(writer, request, handler.logger, recruiter, err)
		return
	}
	utils.JSON(writer, http.StatusOK, question)
}

func (handler *QuestionHandler) DeleteHandler(writer http.ResponseWriter, request *http.Request) {
	if err := handler.questions.Delete(request.Context(), chi.URLParam(request, "id")); err != nil {
		writeError(writer, request, handler.logger, recruiter, err)
		return
	}
	writer.WriteHeader(http.StatusNoContent)
}
