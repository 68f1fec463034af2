package models

import "time"

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationExpired  InvitationStatus = "expired"
)

// Invitation grants one candidate the right to start one interview.
type Invitation struct {
	ID          string           `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	InterviewID string           `gorm:"size:36;not null;uniqueIndex:idx_invitation_interview_email" json:"interviewId" bson:"interviewId"`
	RecruiterID string           `gorm:"index" json:"recruiterId,omitempty" bson:"recruiterId,omitempty"`
	Email       string           `gorm:"not null;uniqueIndex:idx_invitation_interview_email" json:"email" bson:"email"`
	Name        string           `json:"name" bson:"name"`
	Token       string           `gorm:"uniqueIndex;size:64;not null" json:"token" bson:"token"`
	ExpiresAt   time.Time        `gorm:"not null" json:"expiresAt" bson:"expiresAt"`
	Status      InvitationStatus `gorm:"not null;default:pending" json:"status" bson:"status"`
	CreatedAt   time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// ExpiredAt reports whether the invitation is unusable at now. The timestamp
// wins over the stored status.
func (i *Invitation) ExpiredAt(now time.Time) bool {
	return i.Status == InvitationExpired || now.After(i.ExpiresAt)
}
