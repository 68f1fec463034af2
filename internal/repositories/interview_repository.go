package repositories

import (
	"context"
	"time"

	"github.com/mockwiseai/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InterviewRepository struct {
	DB *gorm.DB
}

func preloadCandidates(db *gorm.DB) *gorm.DB {
	return db.Preload("Candidates", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") })
}

func (r *InterviewRepository) CreateInterview(ctx context.Context, iv *models.Interview) error {
	return translate(r.DB.WithContext(ctx).Create(iv).Error)
}

func (r *InterviewRepository) GetInterview(ctx context.Context, id string) (*models.Interview, error) {
	var iv models.Interview
	if err := preloadCandidates(r.DB.WithContext(ctx)).First(&iv, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &iv, nil
}

func (r *InterviewRepository) GetInterviewByLink(ctx context.Context, link string) (*models.Interview, error) {
	var iv models.Interview
	if err := preloadCandidates(r.DB.WithContext(ctx)).First(&iv, "unique_link = ?", link).Error; err != nil {
		return nil, translate(err)
	}
	return &iv, nil
}

func (r *InterviewRepository) ListInterviews(ctx context.Context, recruiterID string) ([]models.Interview, error) {
	var out []models.Interview
	err := preloadCandidates(r.DB.WithContext(ctx)).
		Where("recruiter_id = ?", recruiterID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// UpdateInterview writes the recruiter-editable fields. Candidates are left
// alone; they only change through the candidate methods below.
func (r *InterviewRepository) UpdateInterview(ctx context.Context, iv *models.Interview) error {
	res := r.DB.WithContext(ctx).Model(iv).
		Select("Title", "JobRole", "Questions", "TotalTime", "UniqueLink", "Status", "ScheduleDate", "UpdatedAt").
		Omit(clause.Associations).
		Updates(iv)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteInterview removes the interview and everything scoped to it.
func (r *InterviewRepository) DeleteInterview(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Interview{}, "id = ?", id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.ErrNotFound
		}
		subIDs := tx.Model(&models.Submission{}).Select("id").Where("interview_id = ?", id)
		if err := tx.Where("submission_id IN (?)", subIDs).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		for _, model := range []any{&models.Submission{}, &models.Invitation{}, &models.CandidateEntry{}} {
			if err := tx.Where("interview_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// EnsureCandidate adds entry unless the interview already has one for the
// same email.
func (r *InterviewRepository) EnsureCandidate(ctx context.Context, interviewID string, entry models.CandidateEntry) error {
	entry.ID = 0
	entry.InterviewID = interviewID
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "interview_id"}, {Name: "email"}},
			DoNothing: true,
		}).
		Create(&entry).Error
	return translate(err)
}

// SetCandidateStatus projects a submission status onto the candidate entry,
// creating the entry when it is missing.
func (r *InterviewRepository) SetCandidateStatus(ctx context.Context, interviewID, email, name string, status models.CandidateStatus, submittedAt *time.Time) error {
	updates := map[string]any{"status": status}
	if submittedAt != nil {
		updates["submitted_at"] = *submittedAt
	}
	res := r.DB.WithContext(ctx).Model(&models.CandidateEntry{}).
		Where("interview_id = ? AND email = ?", interviewID, email).
		Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	entry := models.NewCandidateEntry(email, name)
	entry.Status = status
	entry.SubmittedAt = submittedAt
	if err := r.EnsureCandidate(ctx, interviewID, entry); err != nil {
		return err
	}
	// lost a race with a concurrent insert; apply the update to that row
	return translate(r.DB.WithContext(ctx).Model(&models.CandidateEntry{}).
		Where("interview_id = ? AND email = ?", interviewID, email).
		Updates(updates).Error)
}

// ApplyAnswerCounters records n newly answered questions. questions_in_progress
// never drops below zero.
func (r *InterviewRepository) ApplyAnswerCounters(ctx context.Context, interviewID, email string, n int) error {
	res := r.DB.WithContext(ctx).Model(&models.CandidateEntry{}).
		Where("interview_id = ? AND email = ?", interviewID, email).
		UpdateColumns(map[string]any{
			"questions_attempted":   gorm.Expr("questions_attempted + ?", n),
			"questions_completed":   gorm.Expr("questions_completed + ?", n),
			"questions_in_progress": gorm.Expr("CASE WHEN questions_in_progress > ? THEN questions_in_progress - ? ELSE 0 END", n, n),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
