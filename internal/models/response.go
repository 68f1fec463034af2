package models

import "time"

// uniform error payload
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []ValidationErrorDetail `json:"details,omitempty"`
}

// lets request validators return the payload directly
func (e *ErrorResponse) Error() string {
	return e.Message
}

// a single field error
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type BeginSessionResponse struct {
	Status      SubmissionStatus `json:"status"`
	InitiatedAt time.Time        `json:"initiatedAt"`
}

type SubmitAnswersResponse struct {
	Status        SubmissionStatus `json:"status"`
	AcceptedCount int              `json:"acceptedCount"`
}

type CompleteSessionResponse struct {
	Status      SubmissionStatus `json:"status"`
	SubmittedAt *time.Time       `json:"submittedAt,omitempty"`
}

// Progress is the candidate-facing progress snapshot. TimeRemainingMs is not
// clamped and goes negative once the session is overdue.
type Progress struct {
	TotalQuestions       int             `json:"totalQuestions"`
	CompletedQuestionIDs []string        `json:"completedQuestionIds"`
	Status               CandidateStatus `json:"status"`
	TimeRemainingMs      int64           `json:"timeRemainingMs"`
}

// SessionView is what a candidate sees when opening an interview link.
type SessionView struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	JobRole   string          `json:"jobRole"`
	TotalTime int             `json:"totalTime"`
	Status    InterviewStatus `json:"status"`
	Questions []SessionItem   `json:"questions"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type SessionItem struct {
	QuestionID   string       `json:"questionId"`
	QuestionType QuestionType `json:"questionType"`
	Question     *Question    `json:"question,omitempty"`
}

type InvitationResult struct {
	Email        string `json:"email"`
	Success      bool   `json:"success"`
	InvitationID string `json:"invitationId,omitempty"`
	EmailSent    bool   `json:"emailSent"`
	Error        string `json:"error,omitempty"`
}

type SendInvitationsResponse struct {
	Message string             `json:"message"`
	Results []InvitationResult `json:"results"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	Recruiter Recruiter `json:"recruiter"`
}

type QuestionsResponse struct {
	Total int        `json:"total"`
	Items []Question `json:"items"`
}

// VerifyInvitationResponse is what a candidate learns from a valid token.
type VerifyInvitationResponse struct {
	Valid       bool      `json:"valid"`
	InterviewID string    `json:"interviewId"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type ResendInvitationResponse struct {
	Message   string    `json:"message"`
	EmailSent bool      `json:"emailSent"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type RunCodeResponse struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Status string `json:"status"`
	Time   string `json:"time,omitempty"`
	Memory int    `json:"memory,omitempty"`
}

type TestCodeResponse struct {
	Passed          int              `json:"passed"`
	Total           int              `json:"total"`
	TestCaseResults []TestCaseResult `json:"testCaseResults"`
}
