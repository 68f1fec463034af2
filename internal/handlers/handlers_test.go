package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mockwiseai/backend/internal/judge"
	"github.com/mockwiseai/backend/internal/models"
	"github.com/mockwiseai/backend/internal/repositories"
	"github.com/mockwiseai/backend/internal/services"
	"github.com/mockwiseai/backend/internal/testhelpers"

	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	runFn func(ctx context.Context, source, language, stdin string) (*judge.Result, error)
}

func (s *stubRunner) Run(ctx context.Context, source, language, stdin string) (*judge.Result, error) {
	return s.runFn(ctx, source, language, stdin)
}

// echoRunner accepts every program and prints its stdin back.
func echoRunner() *stubRunner {
	return &stubRunner{runFn: func(_ context.Context, _, _, stdin string) (*judge.Result, error) {
		return &judge.Result{Stdout: stdin + "\n", Status: judge.Status{ID: 3, Description: "Accepted"}}, nil
	}}
}

func newQuestionService(t *testing.T) *services.QuestionService {
	t.Helper()
	store := &repositories.QuestionRepository{DB: testhelpers.SetupTestDB(t)}
	ctx := context.Background()
	require.NoError(t, store.CreateQuestion(ctx, &models.Question{
		ID:         "echo",
		Type:       models.CodingQuestion,
		Title:      "Echo",
		Difficulty: models.Easy,
		TestCases: []models.TestCase{
			{ID: "1", Input: "a", Output: "a"},
			{ID: "2", Input: "b", Output: "b"},
			{ID: "3", Input: "c", Output: "not c", IsHidden: true},
		},
	}))
	require.NoError(t, store.CreateQuestion(ctx, &models.Question{
		ID:       "conflict",
		Type:     models.BehavioralQuestion,
		Title:    "Conflict",
		Category: "teamwork",
	}))
	return services.NewQuestionService(store)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
