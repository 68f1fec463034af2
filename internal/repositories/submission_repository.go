package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/mockwiseai/backend/internal/models"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func preloadAnswers(db *gorm.DB) *gorm.DB {
	return db.Preload("Answers", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") })
}

// CreateSubmission fails with models.ErrConflict when the pair already has one.
func (r *SubmissionRepository) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	return translate(r.DB.WithContext(ctx).Omit("Answers").Create(sub).Error)
}

func (r *SubmissionRepository) GetSubmission(ctx context.Context, interviewID, email string) (*models.Submission, error) {
	var sub models.Submission
	err := preloadAnswers(r.DB.WithContext(ctx)).
		Where("interview_id = ? AND email = ?", interviewID, email).
		First(&sub).Error
	if err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (r *SubmissionRepository) GetSubmissionByID(ctx context.Context, id string) (*models.Submission, error) {
	var sub models.Submission
	if err := preloadAnswers(r.DB.WithContext(ctx)).First(&sub, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (r *SubmissionRepository) ListSubmissions(ctx context.Context, interviewID string) ([]models.Submission, error) {
	var out []models.Submission
	err := preloadAnswers(r.DB.WithContext(ctx)).
		Where("interview_id = ?", interviewID).
		Order("initiated_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// ListOpenSubmissions returns every submission that has not completed yet.
func (r *SubmissionRepository) ListOpenSubmissions(ctx context.Context) ([]models.Submission, error) {
	var out []models.Submission
	err := r.DB.WithContext(ctx).
		Where("status <> ?", models.SubmissionCompleted).
		Order("initiated_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// AppendAnswers adds the whole batch or nothing. Any question already
// answered in the submission fails the batch with models.ErrDuplicateAnswer;
// the unique (submission_id, question_id) index covers concurrent writers
// that both pass the pre-check.
func (r *SubmissionRepository) AppendAnswers(ctx context.Context, submissionID string, answers []models.Answer, at time.Time) error {
	ids := make([]string, 0, len(answers))
	for i := range answers {
		answers[i].ID = 0
		answers[i].SubmissionID = submissionID
		if answers[i].CreatedAt.IsZero() {
			answers[i].CreatedAt = at
		}
		ids = append(ids, answers[i].QuestionID)
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var answered []string
		err := tx.Model(&models.Answer{}).
			Where("submission_id = ? AND question_id IN ?", submissionID, ids).
			Pluck("question_id", &answered).Error
		if err != nil {
			return err
		}
		if len(answered) > 0 {
			return models.NewOpError("append answers", models.ErrDuplicateAnswer,
				"question already answered: %s", strings.Join(answered, ", "))
		}

		if err := tx.Create(&answers).Error; err != nil {
			if isDuplicate(err) {
				return models.NewOpError("append answers", models.ErrDuplicateAnswer,
					"question already answered: %s", strings.Join(ids, ", "))
			}
			return err
		}

		res := tx.Model(&models.Submission{}).
			Where("id = ?", submissionID).
			Updates(map[string]any{
				"status":       models.SubmissionCompleted,
				"submitted_at": at,
				"updated_at":   at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return nil
	})
	if err != nil {
		for i := range answers {
			answers[i].ID = 0
		}
	}
	return translate(err)
}

// CompleteSubmission finalizes an open submission. It reports false without
// touching the row when the submission is already completed.
func (r *SubmissionRepository) CompleteSubmission(ctx context.Context, submissionID string, at time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Submission{}).
		Where("id = ? AND status <> ?", submissionID, models.SubmissionCompleted).
		Updates(map[string]any{
			"status":       models.SubmissionCompleted,
			"submitted_at": at,
			"updated_at":   at,
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *SubmissionRepository) SaveEvaluation(ctx context.Context, submissionID string, eval models.Evaluation, score float64) error {
	res := r.DB.WithContext(ctx).Model(&models.Submission{ID: submissionID}).
		Select("AIEvaluation", "Score").
		Updates(&models.Submission{AIEvaluation: &eval, Score: score})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
