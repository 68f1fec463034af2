package repositories

import (
	"context"
	"errors"

	"github.com/mockwiseai/backend/internal/models"

	"gorm.io/gorm"
)

type InvitationRepository struct {
	DB *gorm.DB
}

// UpsertInvitation stores inv as the single invitation for its
// (interview, email) pair. An existing row keeps its id and gets the new
// token, expiry, status and name.
func (r *InvitationRepository) UpsertInvitation(ctx context.Context, inv *models.Invitation) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Invitation
		err := tx.Where("interview_id = ? AND email = ?", inv.InterviewID, inv.Email).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(inv).Error
		}
		if err != nil {
			return err
		}
		inv.ID = existing.ID
		inv.CreatedAt = existing.CreatedAt
		return rotate(tx, inv)
	})
	if err != nil && isDuplicate(err) {
		// a concurrent issue for the same pair won the insert; last write wins
		existing, getErr := r.GetInvitation(ctx, inv.InterviewID, inv.Email)
		if getErr != nil {
			return getErr
		}
		inv.ID = existing.ID
		inv.CreatedAt = existing.CreatedAt
		return translate(rotate(r.DB.WithContext(ctx), inv))
	}
	return translate(err)
}

func rotate(tx *gorm.DB, inv *models.Invitation) error {
	return tx.Model(inv).
		Select("Token", "ExpiresAt", "Status", "Name", "RecruiterID", "UpdatedAt").
		Updates(inv).Error
}

func (r *InvitationRepository) GetInvitationByToken(ctx context.Context, token string) (*models.Invitation, error) {
	var inv models.Invitation
	if err := r.DB.WithContext(ctx).First(&inv, "token = ?", token).Error; err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

func (r *InvitationRepository) GetInvitation(ctx context.Context, interviewID, email string) (*models.Invitation, error) {
	var inv models.Invitation
	err := r.DB.WithContext(ctx).
		Where("interview_id = ? AND email = ?", interviewID, email).
		First(&inv).Error
	if err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

// UpdateInvitation writes token, expiry, status and name of an existing row.
func (r *InvitationRepository) UpdateInvitation(ctx context.Context, inv *models.Invitation) error {
	res := r.DB.WithContext(ctx).Model(inv).
		Select("Token", "ExpiresAt", "Status", "Name", "UpdatedAt").
		Updates(inv)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *InvitationRepository) ListInvitations(ctx context.Context, interviewID string) ([]models.Invitation, error) {
	var out []models.Invitation
	err := r.DB.WithContext(ctx).
		Where("interview_id = ?", interviewID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}
