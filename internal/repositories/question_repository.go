package repositories

import (
	"context"

	"github.com/mockwiseai/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func (r *QuestionRepository) CreateQuestion(ctx context.Context, q *models.Question) error {
	return translate(r.DB.WithContext(ctx).Create(q).Error)
}

// UpsertQuestion inserts q or overwrites the row with the same id.
func (r *QuestionRepository) UpsertQuestion(ctx context.Context, q *models.Question) error {
	return translate(r.DB.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(q).Error)
}

func (r *QuestionRepository) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	var q models.Question
	if err := r.DB.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &q, nil
}

// GetQuestions returns the questions found among ids; missing ids are skipped.
func (r *QuestionRepository) GetQuestions(ctx context.Context, ids []string) ([]models.Question, error) {
	if len(ids) == 0 {
		return []models.Question{}, nil
	}
	var out []models.Question
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// ListQuestions returns the catalog, optionally filtered by type.
func (r *QuestionRepository) ListQuestions(ctx context.Context, qType models.QuestionType) ([]models.Question, error) {
	tx := r.DB.WithContext(ctx).Order("created_at ASC")
	if qType != "" {
		tx = tx.Where("type = ?", qType)
	}
	var out []models.Question
	if err := tx.Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *QuestionRepository) UpdateQuestion(ctx context.Context, q *models.Question) error {
	res := r.DB.WithContext(ctx).Model(q).
		Select("Type", "Title", "Description", "Difficulty", "Category", "Examples", "StarterCode", "TestCases", "UpdatedAt").
		Updates(q)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.Question{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
