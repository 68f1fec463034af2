package services

import (
	"context"
	"time"

	"github.com/mockwiseai/backend/internal/models"
)

// The gorm repositories and the mongo repositories both satisfy these.

type InterviewStore interface {
	CreateInterview(ctx context.Context, iv *models.Interview) error
	GetInterview(ctx context.Context, id string) (*models.Interview, error)
	GetInterviewByLink(ctx context.Context, link string) (*models.Interview, error)
	ListInterviews(ctx context.Context, recruiterID string) ([]models.Interview, error)
	UpdateInterview(ctx context.Context, iv *models.Interview) error
	DeleteInterview(ctx context.Context, id string) error
	EnsureCandidate(ctx context.Context, interviewID string, entry models.CandidateEntry) error
	SetCandidateStatus(ctx context.Context, interviewID, email, name string, status models.CandidateStatus, submittedAt *time.Time) error
	ApplyAnswerCounters(ctx context.Context, interviewID, email string, n int) error
}

type InvitationStore interface {
	UpsertInvitation(ctx context.Context, inv *models.Invitation) error
	GetInvitationByToken(ctx context.Context, token string) (*models.Invitation, error)
	GetInvitation(ctx context.Context, interviewID, email string) (*models.Invitation, error)
	UpdateInvitation(ctx context.Context, inv *models.Invitation) error
	ListInvitations(ctx context.Context, interviewID string) ([]models.Invitation, error)
}

type SubmissionStore interface {
	CreateSubmission(ctx context.Context, sub *models.Submission) error
	GetSubmission(ctx context.Context, interviewID, email string) (*models.Submission, error)
	GetSubmissionByID(ctx context.Context, id string) (*models.Submission, error)
	ListSubmissions(ctx context.Context, interviewID string) ([]models.Submission, error)
	ListOpenSubmissions(ctx context.Context) ([]models.Submission, error)
	AppendAnswers(ctx context.Context, submissionID string, answers []models.Answer, at time.Time) error
	CompleteSubmission(ctx context.Context, submissionID string, at time.Time) (bool, error)
	SaveEvaluation(ctx context.Context, submissionID string, eval models.Evaluation, score float64) error
}

type QuestionStore interface {
	CreateQuestion(ctx context.Context, q *models.Question) error
	UpsertQuestion(ctx context.Context, q *models.Question) error
	GetQuestion(ctx context.Context, id string) (*models.Question, error)
	GetQuestions(ctx context.Context, ids []string) ([]models.Question, error)
	ListQuestions(ctx context.Context, qType models.QuestionType) ([]models.Question, error)
	UpdateQuestion(ctx context.Context, q *models.Question) error
	DeleteQuestion(ctx context.Context, id string) error
}

type RecruiterStore interface {
	CreateRecruiter(ctx context.Context, rec *models.Recruiter) error
	GetRecruiterByEmail(ctx context.Context, email string) (*models.Recruiter, error)
	GetRecruiterByID(ctx context.Context, id string) (*models.Recruiter, error)
}

// Stores bundles one backend's repositories.
type Stores struct {
	Interviews  InterviewStore
	Invitations InvitationStore
	Submissions SubmissionStore
	Questions   QuestionStore
	Recruiters  RecruiterStore
}
