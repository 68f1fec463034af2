package judge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mockwiseai/backend/internal/config"
	"github.com/mockwiseai/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJudgeServer(t *testing.T, pendingPolls int32, final Result) (*httptest.Server, *int32) {
	t.Helper()
	var polls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/submissions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "judge.test", r.Header.Get("X-RapidAPI-Host"))

		var body submissionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 71, body.LanguageID)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
	})
	mux.HandleFunc("/submissions/tok-1", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&polls, 1)
		w.Header().Set("Content-Type", "application/json")
		if n <= pendingPolls {
			json.NewEncoder(w).Encode(Result{Status: Status{ID: 2, Description: "Processing"}})
			return
		}
		json.NewEncoder(w).Encode(final)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &polls
}

func testClient(url string, timeout time.Duration) *Client {
	return NewClient(config.JudgeConfig{
		BaseURL:      url,
		APIKey:       "secret",
		Host:         "judge.test",
		Timeout:      timeout,
		PollInterval: 5 * time.Millisecond,
	})
}

func TestClient_RunPollsUntilFinished(t *testing.T) {
	srv, polls := newJudgeServer(t, 2, Result{Stdout: "3\n", Status: Status{ID: 3, Description: "Accepted"}})

	res, err := testClient(srv.URL, time.Second).Run(context.Background(), "print(3)", "Python", "")
	require.NoError(t, err)
	assert.True(t, res.Accepted())
	assert.Equal(t, "3\n", res.Stdout)
	assert.Equal(t, int32(3), atomic.LoadInt32(polls))
}

func TestClient_RunTimesOut(t *testing.T) {
	srv, _ := newJudgeServer(t, 1<<30, Result{})

	_, err := testClient(srv.URL, 30*time.Millisecond).Run(context.Background(), "while True: pass", "python", "")
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
}

func TestClient_UnsupportedLanguage(t *testing.T) {
	_, err := testClient("http://unused", time.Second).Run(context.Background(), "x", "cobol", "")
	assert.True(t, errors.Is(err, ErrUnsupportedLanguage))
}

func TestClient_SurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, time.Second).Run(context.Background(), "print(1)", "python", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

type stubRunner map[string]*Result

func (s stubRunner) Run(_ context.Context, _, _, stdin string) (*Result, error) {
	return s[stdin], nil
}

func TestGrade(t *testing.T) {
	q := &models.Question{
		ID:   "sum",
		Type: models.CodingQuestion,
		TestCases: []models.TestCase{
			{ID: "1", Input: "1 2", Output: "3"},
			{ID: "2", Input: "2 2", Output: "4"},
			{ID: "3", Input: "bad", Output: "0", IsHidden: true},
		},
	}
	runner := stubRunner{
		"1 2": {Stdout: "3  \n", Status: Status{ID: 3}},
		"2 2": {Stdout: "5\n", Status: Status{ID: 3}},
		"bad": {Stderr: "ValueError", Status: Status{ID: 11, Description: "Runtime Error"}},
	}

	results, err := Grade(context.Background(), runner, q, "src", "python")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].IsPassed)
	assert.False(t, results[1].IsPassed)
	assert.Equal(t, "5\n", results[1].UserOutput)
	assert.False(t, results[2].IsPassed)
	assert.Empty(t, results[2].ExpectedOutput, "hidden expectations stay hidden")
}

func TestResultErrorText(t *testing.T) {
	assert.Equal(t, "", (&Result{Status: Status{ID: 3}}).ErrorText())
	assert.Equal(t, "boom", (&Result{CompileOutput: "boom", Status: Status{ID: 6}}).ErrorText())
	assert.Equal(t, "Execution error", (&Result{Status: Status{ID: 13}}).ErrorText())
}
