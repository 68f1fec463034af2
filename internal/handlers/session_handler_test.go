package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/mockwiseai/backend/internal/middleware"
	"github.com/mockwiseai/backend/internal/models"
	"github.com/mockwiseai/backend/internal/notify"
	"github.com/mockwiseai/backend/internal/repositories"
	"github.com/mockwiseai/backend/internal/services"
	"github.com/mockwiseai/backend/internal/testhelpers"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBeginHandler_LogsSessionStartOnce(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	db := testhelpers.SetupTestDB(t)
	interviews := &repositories.InterviewRepository{DB: db}
	invitations := &repositories.InvitationRepository{DB: db}
	iv := &models.Interview{
		ID:          uuid.NewString(),
		Title:       "Screen",
		JobRole:     "SRE",
		RecruiterID: "rec-1",
		Questions:   []models.QuestionRef{{QuestionID: "conflict", QuestionType: models.BehavioralQuestion}},
		TotalTime:   30,
		UniqueLink:  uuid.NewString(),
		Status:      models.InterviewPublished,
	}
	require.NoError(t, interviews.CreateInterview(ctx, iv))

	invSvc := services.NewInvitationService(services.InvitationDeps{
		Interviews:  interviews,
		Invitations: invitations,
		Notifier:    notify.LogNotifier{Logger: zap.NewNop()},
		FrontendURL: "http://localhost:3000",
		Logger:      zap.NewNop(),
	})
	_, _, err := invSvc.Issue(ctx, iv, "a@example.com", "Ada")
	require.NoError(t, err)

	sessions := services.NewSessionService(services.SessionDeps{
		Interviews:  interviews,
		Invitations: invitations,
		Submissions: &repositories.SubmissionRepository{DB: db},
		Questions:   &repositories.QuestionRepository{DB: db},
		Logger:      logger,
	})
	t.Cleanup(sessions.Shutdown)
	h := NewSessionHandler(sessions, services.NewInterviewService(interviews), logger)

	r := chi.NewRouter()
	r.With(middleware.ValidateRequest[*models.BeginSessionRequest]()).Post("/sessions/{interviewId}/begin", h.BeginHandler)

	resp := doJSON(t, r, http.MethodPost, "/sessions/"+iv.ID+"/begin", models.BeginSessionRequest{Email: "a@example.com", Name: "Ada"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Equal(t, models.SubmissionStarted, decode[models.BeginSessionResponse](t, resp).Status)

	started := logs.FilterMessage("session started")
	require.Equal(t, 1, started.Len())
	assert.Contains(t, started.All()[0].ContextMap(), "deadline")
}
