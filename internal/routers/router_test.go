package routers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mockwiseai/backend/internal/catalog"
	"github.com/mockwiseai/backend/internal/events"
	"github.com/mockwiseai/backend/internal/handlers"
	"github.com/mockwiseai/backend/internal/judge"
	"github.com/mockwiseai/backend/internal/models"
	"github.com/mockwiseai/backend/internal/repositories"
	"github.com/mockwiseai/backend/internal/services"
	"github.com/mockwiseai/backend/internal/testhelpers"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "router-test-secret"

type nopRunner struct{}

func (nopRunner) Run(context.Context, string, string, string) (*judge.Result, error) {
	return &judge.Result{Status: judge.Status{ID: 3, Description: "Accepted"}}, nil
}

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	logger := zap.NewNop()

	interviews := &repositories.InterviewRepository{DB: db}
	invitations := &repositories.InvitationRepository{DB: db}
	submissions := &repositories.SubmissionRepository{DB: db}
	questions := &repositories.QuestionRepository{DB: db}
	recruiters := &repositories.RecruiterRepository{DB: db}

	_, err := catalog.Seed(context.Background(), questions, "")
	require.NoError(t, err)

	bus := events.NewBus(logger)
	services.NewEvaluator(submissions, nil, logger).Register(bus)

	sessionSvc := services.NewSessionService(services.SessionDeps{
		Interviews:  interviews,
		Invitations: invitations,
		Submissions: submissions,
		Questions:   questions,
		Publisher:   bus,
		Logger:      logger,
	})
	t.Cleanup(sessionSvc.Shutdown)

	interviewSvc := services.NewInterviewService(interviews)
	invitationSvc := services.NewInvitationService(services.InvitationDeps{
		Interviews:  interviews,
		Invitations: invitations,
		FrontendURL: "https://app.example.com",
		Logger:      logger,
	})
	questionSvc := services.NewQuestionService(questions)
	authSvc := services.NewAuthService(recruiters, testSecret, 0)
	authSvc.SetCost(bcrypt.MinCost)

	return New(Options{JWTSecret: testSecret, AllowedOrigins: []string{"*"}}, Handlers{
		Health:      handlers.NewHealthHandler(nil),
		Auth:        handlers.NewAuthHandler(authSvc, logger),
		Interviews:  handlers.NewInterviewHandler(interviewSvc, sessionSvc, logger),
		Invitations: handlers.NewInvitationHandler(interviewSvc, invitationSvc, logger),
		Sessions:    handlers.NewSessionHandler(sessionSvc, interviewSvc, logger),
		Questions:   handlers.NewQuestionHandler(questionSvc, logger),
		Judge:       handlers.NewJudgeHandler(nopRunner{}, questionSvc, logger),
	})
}

type client struct {
	t      *testing.T
	router http.Handler
	token  string
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func register(t *testing.T, router http.Handler, email string) *client {
	t.Helper()
	anon := &client{t: t, router: router}
	rec := anon.do(http.MethodPost, "/api/v1/auth/register", models.RegisterRequest{Name: "Rec", Email: email, Password: "correct horse"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return &client{t: t, router: router, token: decode[models.AuthResponse](t, rec).Token}
}

func TestRoutesAreRegistered(t *testing.T) {
	router := newTestRouter(t)

	paths := map[string]bool{}
	err := chi.Walk(router, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		paths[method+" "+route] = true
		return nil
	})
	require.NoError(t, err)

	expected := []string{
		"GET /healthz",
		"GET /readyz",
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"GET /api/v1/auth/me",
		"GET /api/v1/interviews/{id}",
		"PUT /api/v1/interviews/{id}",
		"DELETE /api/v1/interviews/{id}",
		"POST /api/v1/interviews/{id}/link",
		"GET /api/v1/interviews/{id}/submissions",
		"GET /api/v1/interviews/{id}/invitations",
		"GET /api/v1/invitations/verify/{token}",
		"POST /api/v1/invitations/send",
		"POST /api/v1/invitations/resend",
		"POST /api/v1/invitations/expire/{token}",
		"GET /api/v1/sessions/link/{link}",
		"POST /api/v1/sessions/{interviewId}/begin",
		"POST /api/v1/sessions/{interviewId}/answers",
		"POST /api/v1/sessions/{interviewId}/complete",
		"GET /api/v1/sessions/{interviewId}/progress/{email}",
		"PATCH /api/v1/sessions/{interviewId}/status",
		"GET /api/v1/questions/{id}",
		"PUT /api/v1/questions/{id}",
		"DELETE /api/v1/questions/{id}",
		"POST /api/v1/judge/run",
		"POST /api/v1/judge/questions/{id}/test",
	}
	for _, route := range expected {
		assert.True(t, paths[route], "expected route %s to be registered", route)
	}
}

func TestOpsEndpoints(t *testing.T) {
	c := &client{t: t, router: newTestRouter(t)}
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/readyz", nil).Code)

	rec := c.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mockwise_http_requests_total")
}

func TestRecruiterRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t)
	anon := &client{t: t, router: router}

	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodGet, "/api/v1/interviews", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodPost, "/api/v1/invitations/send", map[string]any{}).Code)
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodDelete, "/api/v1/questions/two-sum", nil).Code)

	// public catalog reads stay open
	assert.Equal(t, http.StatusOK, anon.do(http.MethodGet, "/api/v1/questions", nil).Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "rec@example.com")
	anon := &client{t: t, router: router}

	rec := anon.do(http.MethodPost, "/api/v1/auth/login", models.LoginRequest{Email: "rec@example.com", Password: "wrong password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = anon.do(http.MethodPost, "/api/v1/auth/login", models.LoginRequest{Email: "REC@example.com", Password: "correct horse"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[models.AuthResponse](t, rec).Token)

	rec = anon.do(http.MethodPost, "/api/v1/auth/register", models.RegisterRequest{Name: "Again", Email: "rec@example.com", Password: "another password"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestInterviewSessionLifecycle(t *testing.T) {
	router := newTestRouter(t)
	rec := register(t, router, "rec@example.com")
	cand := &client{t: t, router: router}

	// recruiter sets up the interview
	resp := rec.do(http.MethodPost, "/api/v1/interviews", models.InterviewRequest{
		Title:     "Backend screen",
		JobRole:   "Go engineer",
		TotalTime: 30,
		Status:    models.InterviewPublished,
		Questions: []models.QuestionRef{
			{QuestionID: "two-sum", QuestionType: models.CodingQuestion},
			{QuestionID: "team-conflict", QuestionType: models.BehavioralQuestion},
			{QuestionID: "ownership", QuestionType: models.BehavioralQuestion},
		},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	iv := decode[models.Interview](t, resp)
	base := "/api/v1/sessions/" + iv.ID

	resp = rec.do(http.MethodPost, "/api/v1/invitations/send", models.SendInvitationsRequest{
		InterviewID: iv.ID,
		Candidates:  []models.CandidateInput{{Email: "a@example.com", Name: "Ada"}, {Email: "a@example.com"}},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	sent := decode[models.SendInvitationsResponse](t, resp)
	require.Len(t, sent.Results, 2)
	assert.True(t, sent.Results[0].Success)
	assert.False(t, sent.Results[1].Success)

	resp = rec.do(http.MethodGet, "/api/v1/interviews/"+iv.ID+"/invitations", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	invs := decode[[]models.Invitation](t, resp)
	require.Len(t, invs, 1)

	// candidate side
	resp = cand.do(http.MethodGet, "/api/v1/invitations/verify/"+invs[0].Token, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, iv.ID, decode[models.VerifyInvitationResponse](t, resp).InterviewID)

	resp = cand.do(http.MethodGet, "/api/v1/sessions/link/"+iv.UniqueLink, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	view := decode[models.SessionView](t, resp)
	require.Len(t, view.Questions, 3)
	require.NotNil(t, view.Questions[0].Question)
	for _, tc := range view.Questions[0].Question.TestCases {
		assert.False(t, tc.IsHidden)
	}

	resp = cand.do(http.MethodPost, base+"/begin", models.BeginSessionRequest{Email: "nobody@example.com"})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = cand.do(http.MethodPost, base+"/begin", models.BeginSessionRequest{Email: "a@example.com", Name: "Ada"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Equal(t, models.SubmissionStarted, decode[models.BeginSessionResponse](t, resp).Status)

	resp = cand.do(http.MethodPost, base+"/begin", models.BeginSessionRequest{Email: "a@example.com", Name: "Ada"})
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "already_started", decode[models.ErrorResponse](t, resp).Code)

	answers := models.SubmitAnswersRequest{
		Email: "a@example.com",
		Answers: []models.Answer{
			{QuestionID: "team-conflict", QuestionType: models.BehavioralQuestion, Response: "We had a great outcome after I listened to both sides."},
			{QuestionID: "ownership", QuestionType: models.BehavioralQuestion, Response: "I led a migration that improved latency."},
		},
	}
	resp = cand.do(http.MethodPost, base+"/answers", answers)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	submitted := decode[models.SubmitAnswersResponse](t, resp)
	assert.Equal(t, 2, submitted.AcceptedCount)
	assert.Equal(t, models.SubmissionCompleted, submitted.Status)

	resp = cand.do(http.MethodPost, base+"/answers", answers)
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "already_answered", decode[models.ErrorResponse](t, resp).Code)

	resp = cand.do(http.MethodPost, base+"/answers", models.SubmitAnswersRequest{
		Email:   "Ada <a@example.com>",
		Answers: []models.Answer{{QuestionID: "failure", QuestionType: models.BehavioralQuestion, Response: "x"}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "validation_error", decode[models.ErrorResponse](t, resp).Code)

	resp = cand.do(http.MethodPost, base+"/answers", models.SubmitAnswersRequest{Email: "a@example.com"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "invalid_answer_list", decode[models.ErrorResponse](t, resp).Code)

	resp = cand.do(http.MethodGet, base+"/progress/a@example.com", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	progress := decode[models.Progress](t, resp)
	assert.Equal(t, 3, progress.TotalQuestions)
	assert.ElementsMatch(t, []string{"team-conflict", "ownership"}, progress.CompletedQuestionIDs)
	assert.Equal(t, models.CandidateCompleted, progress.Status)

	resp = cand.do(http.MethodPost, base+"/complete", models.CompleteSessionRequest{Email: "a@example.com"})
	require.Equal(t, http.StatusOK, resp.Code)
	done := decode[models.CompleteSessionResponse](t, resp)
	assert.Equal(t, models.SubmissionCompleted, done.Status)
	assert.NotNil(t, done.SubmittedAt)

	resp = cand.do(http.MethodGet, base+"/progress/ghost@example.com", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// recruiter reviews
	resp = rec.do(http.MethodGet, "/api/v1/interviews/"+iv.ID+"/submissions", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	subs := decode[[]models.Submission](t, resp)
	require.Len(t, subs, 1)
	assert.Len(t, subs[0].Answers, 2)
	require.NotNil(t, subs[0].AIEvaluation)
	assert.Equal(t, "No coding tests were attempted", subs[0].AIEvaluation.CodingPerformance)

	resp = rec.do(http.MethodGet, "/api/v1/interviews/"+iv.ID, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	reviewed := decode[models.Interview](t, resp)
	entry := reviewed.Candidate("a@example.com")
	require.NotNil(t, entry)
	assert.Equal(t, models.CandidateCompleted, entry.Status)
	assert.Equal(t, 2, entry.QuestionsCompleted)

	other := register(t, router, "other@example.com")
	assert.Equal(t, http.StatusForbidden, other.do(http.MethodGet, "/api/v1/interviews/"+iv.ID, nil).Code)
	assert.Equal(t, http.StatusForbidden, other.do(http.MethodPost, "/api/v1/invitations/expire/"+invs[0].Token, nil).Code)

	resp = rec.do(http.MethodPost, "/api/v1/invitations/expire/"+invs[0].Token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	resp = cand.do(http.MethodGet, "/api/v1/invitations/verify/"+invs[0].Token, nil)
	assert.Equal(t, http.StatusGone, resp.Code)
}

func TestUpdateStatusRoute(t *testing.T) {
	router := newTestRouter(t)
	rec := register(t, router, "rec@example.com")

	resp := rec.do(http.MethodPost, "/api/v1/interviews", models.InterviewRequest{
		Title:     "Screen",
		JobRole:   "SRE",
		TotalTime: 15,
		Questions: []models.QuestionRef{{QuestionID: "failure", QuestionType: models.BehavioralQuestion}},
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	iv := decode[models.Interview](t, resp)
	path := "/api/v1/sessions/" + iv.ID + "/status"

	resp = rec.do(http.MethodPatch, path, models.UpdateStatusRequest{Status: models.SubmissionStarted, Email: "b@example.com", Name: "B"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, models.SubmissionStarted, decode[models.Submission](t, resp).Status)

	resp = rec.do(http.MethodPatch, path, models.UpdateStatusRequest{Status: models.SubmissionCompleted, Email: "b@example.com"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, models.SubmissionCompleted, decode[models.Submission](t, resp).Status)

	resp = rec.do(http.MethodPatch, path, map[string]string{"status": "paused", "email": "b@example.com"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
