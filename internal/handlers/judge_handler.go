package handlers

import (
	"errors"
	"net/http"

	"github.com/mockwiseai/backend/internal/judge"
	"github.com/mockwiseai/backend/internal/middleware"
	"github.com/mockwiseai/backend/internal/models"
	"github.com/mockwiseai/backend/internal/services"
	"github.com/mockwiseai/backend/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// JudgeHandler proxies code execution to the judge.
type JudgeHandler struct {
	runner    judge.Runner
	questions *services.QuestionService
	logger    *zap.Logger
}

func NewJudgeHandler(runner judge.Runner, questions *services.QuestionService, logger *zap.Logger) *JudgeHandler {
	return &JudgeHandler{runner: runner, questions: questions, logger: logger}
}

func (h *JudgeHandler) RunHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.RunCodeRequest](r)

	res, err := h.runner.Run(r.Context(), req.SourceCode, req.Language, req.Stdin)
	if err != nil {
		h.judgeError(w, r, err)
		return
	}
	resp := models.RunCodeResponse{
		Stdout: res.Stdout,
		Status: res.Status.Description,
		Time:   res.Time,
		Memory: res.Memory,
	}
	if !res.Accepted() {
		resp.Stderr = res.ErrorText()
	}
	utils.JSON(w, http.StatusOK, resp)
}

// TestHandler grades code against every test case of a catalog question.
// Hidden cases are run but their expected output is withheld.
func (h *JudgeHandler) TestHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.RunCodeRequest](r)

	q, err := h.questions.Get(r.Context(), chi.URLParam(r, "id"), true)
	if err != nil {
		writeError(w, r, h.logger, candidate, err)
		return
	}
	if q.Type != models.CodingQuestion {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "not_a_coding_question",
			Message: "only coding questions have test cases",
		})
		return
	}

	results, err := judge.Grade(r.Context(), h.runner, q, req.SourceCode, req.Language)
	if err != nil {
		h.judgeError(w, r, err)
		return
	}
	passed := 0
	for _, res := range results {
		if res.IsPassed {
			passed++
		}
	}
	utils.JSON(w, http.StatusOK, models.TestCodeResponse{
		Passed:          passed,
		Total:           len(results),
		TestCaseResults: results,
	})
}

func (h *JudgeHandler) judgeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, judge.ErrUnsupportedLanguage):
		utils.Error(w, http.StatusBadRequest, "unsupported_language", "language must be one of javascript, python, java, cpp")
	case errors.Is(err, judge.ErrTimeout):
		utils.Error(w, http.StatusGatewayTimeout, "judge_timeout", "code execution timed out")
	default:
		h.logger.Error("judge request failed", zap.String("path", r.URL.Path), zap.Error(err))
		utils.Error(w, http.StatusBadGateway, "judge_error", "code execution service unavailable")
	}
}
