package models

import (
	"net/mail"
	"strings"
	"time"
)

type InterviewStatus string

const (
	InterviewDraft     InterviewStatus = "draft"
	InterviewPublished InterviewStatus = "published"
	InterviewCompleted InterviewStatus = "completed"
)

func (s InterviewStatus) Valid() bool {
	switch s {
	case InterviewDraft, InterviewPublished, InterviewCompleted:
		return true
	}
	return false
}

// progress of one candidate as seen from the interview record
type CandidateStatus string

const (
	CandidatePending    CandidateStatus = "pending"
	CandidateInProgress CandidateStatus = "in-progress"
	CandidateCompleted  CandidateStatus = "completed"
)

// reference to a catalog question
type QuestionRef struct {
	QuestionID   string       `json:"questionId" bson:"questionId"`
	QuestionType QuestionType `json:"questionType" bson:"questionType"`
}

// Interview is one recruiter-authored assessment.
type Interview struct {
	ID           string           `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	Title        string           `gorm:"not null" json:"title" bson:"title"`
	JobRole      string           `gorm:"not null" json:"jobRole" bson:"jobRole"`
	RecruiterID  string           `gorm:"not null;index" json:"recruiterId" bson:"recruiterId"`
	Questions    []QuestionRef    `gorm:"serializer:json;type:text" json:"questions" bson:"questions"`
	TotalTime    int              `gorm:"not null" json:"totalTime" bson:"totalTime"` // minutes
	UniqueLink   string           `gorm:"uniqueIndex;size:64;not null" json:"uniqueLink" bson:"uniqueLink"`
	Status       InterviewStatus  `gorm:"not null;default:draft" json:"status" bson:"status"`
	ScheduleDate *time.Time       `json:"scheduleDate,omitempty" bson:"scheduleDate,omitempty"`
	Candidates   []CandidateEntry `gorm:"foreignKey:InterviewID;constraint:OnDelete:CASCADE" json:"candidates" bson:"candidates"`
	CreatedAt    time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// Duration is the allotted time for one session.
func (i *Interview) Duration() time.Duration {
	return time.Duration(i.TotalTime) * time.Minute
}

// Candidate returns the entry for email, or nil.
func (i *Interview) Candidate(email string) *CandidateEntry {
	for idx := range i.Candidates {
		if strings.EqualFold(i.Candidates[idx].Email, email) {
			return &i.Candidates[idx]
		}
	}
	return nil
}

// CandidateEntry is the denormalized progress summary kept on the interview.
// The submission record is authoritative; this is a projection of it.
type CandidateEntry struct {
	ID                  uint            `gorm:"primaryKey" json:"-" bson:"-"`
	InterviewID         string          `gorm:"size:36;not null;uniqueIndex:idx_candidate_interview_email" json:"-" bson:"-"`
	Email               string          `gorm:"not null;uniqueIndex:idx_candidate_interview_email" json:"email" bson:"email"`
	Name                string          `json:"name" bson:"name"`
	Status              CandidateStatus `gorm:"not null;default:pending" json:"status" bson:"status"`
	QuestionsAttempted  int             `gorm:"not null;default:0" json:"questionsAttempted" bson:"questionsAttempted"`
	QuestionsCompleted  int             `gorm:"not null;default:0" json:"questionsCompleted" bson:"questionsCompleted"`
	QuestionsInProgress int             `gorm:"not null;default:0" json:"questionsInProgress" bson:"questionsInProgress"`
	SubmittedAt         *time.Time      `json:"submittedAt,omitempty" bson:"submittedAt,omitempty"`
}

// NewCandidateEntry builds a pending entry with zeroed counters.
func NewCandidateEntry(email, name string) CandidateEntry {
	return CandidateEntry{
		Email:  NormalizeEmail(email),
		Name:   name,
		Status: CandidatePending,
	}
}

// NormalizeEmail is the key form of an address: the bare address, lowercased.
// A display-name form collapses to its address.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if addr, err := mail.ParseAddress(email); err == nil {
		email = addr.Address
	}
	return strings.ToLower(email)
}
