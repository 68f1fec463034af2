package repositories_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mockwiseai/backend/internal/models"
	"github.com/mockwiseai/backend/internal/repositories"
	"github.com/mockwiseai/backend/internal/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := &repositories.QuestionRepository{DB: testhelpers.SetupTestDB(t)}

	q := &models.Question{
		ID:          "two-sum",
		Type:        models.CodingQuestion,
		Title:       "Two Sum",
		Difficulty:  models.Easy,
		StarterCode: map[string]string{"python": "def solve():\n    pass"},
		TestCases: []models.TestCase{
			{ID: "1", Input: "1 2", Output: "3"},
			{ID: "2", Input: "2 2", Output: "4", IsHidden: true},
		},
	}
	require.NoError(t, repo.CreateQuestion(ctx, q))
	require.NoError(t, repo.CreateQuestion(ctx, &models.Question{ID: "teamwork", Type: models.BehavioralQuestion, Title: "Teamwork", Category: "collaboration"}))

	got, err := repo.GetQuestion(ctx, "two-sum")
	require.NoError(t, err)
	assert.Len(t, got.TestCases, 2)
	assert.Equal(t, "def solve():\n    pass", got.StarterCode["python"])

	coding, err := repo.ListQuestions(ctx, models.CodingQuestion)
	require.NoError(t, err)
	assert.Len(t, coding, 1)

	many, err := repo.GetQuestions(ctx, []string{"two-sum", "teamwork", "missing"})
	require.NoError(t, err)
	assert.Len(t, many, 2)

	q.Title = "Two Sum II"
	require.NoError(t, repo.UpdateQuestion(ctx, q))
	got, err = repo.GetQuestion(ctx, "two-sum")
	require.NoError(t, err)
	assert.Equal(t, "Two Sum II", got.Title)

	require.NoError(t, repo.DeleteQuestion(ctx, "two-sum"))
	assert.True(t, models.IsNotFound(repo.DeleteQuestion(ctx, "two-sum")))
}

func TestQuestionRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := &repositories.QuestionRepository{DB: testhelpers.SetupTestDB(t)}

	require.NoError(t, repo.UpsertQuestion(ctx, &models.Question{ID: "q", Type: models.BehavioralQuestion, Title: "v1"}))
	require.NoError(t, repo.UpsertQuestion(ctx, &models.Question{ID: "q", Type: models.BehavioralQuestion, Title: "v2"}))

	got, err := repo.GetQuestion(ctx, "q")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Title)
}

func TestRecruiterRepository(t *testing.T) {
	ctx := context.Background()
	repo := &repositories.RecruiterRepository{DB: testhelpers.SetupTestDB(t)}

	rec := &models.Recruiter{ID: "rec-1", Name: "R", Email: "r@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.CreateRecruiter(ctx, rec))

	dup := &models.Recruiter{ID: "rec-2", Name: "R2", Email: "r@example.com", PasswordHash: "hash"}
	assert.True(t, errors.Is(repo.CreateRecruiter(ctx, dup), models.ErrConflict))

	got, err := repo.GetRecruiterByEmail(ctx, "r@example.com")
	require.NoError(t, err)
	assert.Equal(t, "rec-1", got.ID)

	_, err = repo.GetRecruiterByID(ctx, "nope")
	assert.True(t, models.IsNotFound(err))
}
