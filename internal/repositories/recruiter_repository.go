package repositories

import (
	"context"

	"github.com/mockwiseai/backend/internal/models"

	"gorm.io/gorm"
)

type RecruiterRepository struct {
	DB *gorm.DB
}

func (r *RecruiterRepository) CreateRecruiter(ctx context.Context, rec *models.Recruiter) error {
	return translate(r.DB.WithContext(ctx).Create(rec).Error)
}

func (r *RecruiterRepository) GetRecruiterByEmail(ctx context.Context, email string) (*models.Recruiter, error) {
	var rec models.Recruiter
	if err := r.DB.WithContext(ctx).First(&rec, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *RecruiterRepository) GetRecruiterByID(ctx context.Context, id string) (*models.Recruiter, error) {
	var rec models.Recruiter
	if err := r.DB.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}
