package services

import (
	"context"
	"strings"

	"github.com/mockwiseai/backend/internal/models"

	"github.com/google/uuid"
)

// QuestionService fronts the catalog. Candidate reads never see hidden test
// cases.
type QuestionService struct {
	questions QuestionStore
}

func NewQuestionService(questions QuestionStore) *QuestionService {
	return &QuestionService{questions: questions}
}

func (s *QuestionService) List(ctx context.Context, qType models.QuestionType, includeHidden bool) ([]models.Question, error) {
	qs, err := s.questions.ListQuestions(ctx, qType)
	if err != nil {
		return nil, err
	}
	if !includeHidden {
		for i := range qs {
			qs[i] = qs[i].Public()
		}
	}
	return qs, nil
}

func (s *QuestionService) Get(ctx context.Context, id string, includeHidden bool) (*models.Question, error) {
	q, err := s.questions.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if !includeHidden {
		public := q.Public()
		return &public, nil
	}
	return q, nil
}

func (s *QuestionService) Create(ctx context.Context, q *models.Question) error {
	if strings.TrimSpace(q.ID) == "" {
		q.ID = uuid.NewString()
	}
	return s.questions.CreateQuestion(ctx, q)
}

func (s *QuestionService) Update(ctx context.Context, id string, q *models.Question) error {
	q.ID = id
	return s.questions.UpdateQuestion(ctx, q)
}

func (s *QuestionService) Delete(ctx context.Context, id string) error {
	return s.questions.DeleteQuestion(ctx, id)
}
