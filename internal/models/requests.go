package models

import (
	"net/mail"
	"strings"
	"time"
)

func validationError(field, reason string) *ErrorResponse {
	return &ErrorResponse{
		Code:    "validation_error",
		Message: field + " " + reason,
		Details: []ValidationErrorDetail{{Field: field, Reason: reason}},
	}
}

func validEmail(email string) bool {
	return ValidEmail(email)
}

// ValidEmail accepts a bare address only. Display-name forms such as
// "Someone <a@example.com>" parse as addresses but are refused.
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return validationError("name", "is required")
	}
	if !validEmail(r.Email) {
		return validationError("email", "must be a valid email address")
	}
	if len(r.Password) < 8 {
		return validationError("password", "must be at least 8 characters")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if !validEmail(r.Email) {
		return validationError("email", "must be a valid email address")
	}
	if r.Password == "" {
		return validationError("password", "is required")
	}
	return nil
}

// used for both create and full update
type InterviewRequest struct {
	Title        string          `json:"title"`
	JobRole      string          `json:"jobRole"`
	Questions    []QuestionRef   `json:"questions"`
	TotalTime    int             `json:"totalTime"`
	Status       InterviewStatus `json:"status"`
	ScheduleDate *time.Time      `json:"scheduleDate"`
}

func (r *InterviewRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return validationError("title", "is required")
	}
	if strings.TrimSpace(r.JobRole) == "" {
		return validationError("jobRole", "is required")
	}
	if r.TotalTime <= 0 {
		return validationError("totalTime", "must be a positive number of minutes")
	}
	if r.Status != "" && !r.Status.Valid() {
		return validationError("status", "must be one of draft, published, completed")
	}
	for _, q := range r.Questions {
		if q.QuestionID == "" {
			return validationError("questions", "questionId is required")
		}
		if !q.QuestionType.Valid() {
			return validationError("questions", "questionType must be CodingQuestion or BehavioralQuestion")
		}
	}
	return nil
}

type CandidateInput struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type SendInvitationsRequest struct {
	InterviewID string           `json:"interviewId"`
	Candidates  []CandidateInput `json:"candidates"`
	Emails      []string         `json:"emails"`
}

func (r *SendInvitationsRequest) Validate() error {
	if r.InterviewID == "" {
		return validationError("interviewId", "is required")
	}
	if len(r.Candidates) == 0 && len(r.Emails) == 0 {
		return validationError("candidates", "at least one candidate is required")
	}
	for _, c := range r.Candidates {
		if !validEmail(c.Email) {
			return validationError("candidates", "contains an invalid email address: "+c.Email)
		}
	}
	for _, e := range r.Emails {
		if !validEmail(e) {
			return validationError("emails", "contains an invalid email address: "+e)
		}
	}
	return nil
}

// All merges the plain email list into the candidate list.
func (r *SendInvitationsRequest) All() []CandidateInput {
	out := make([]CandidateInput, 0, len(r.Candidates)+len(r.Emails))
	out = append(out, r.Candidates...)
	for _, e := range r.Emails {
		out = append(out, CandidateInput{Email: e})
	}
	return out
}

type ResendInvitationRequest struct {
	InterviewID string `json:"interviewId"`
	Email       string `json:"email"`
}

func (r *ResendInvitationRequest) Validate() error {
	if r.InterviewID == "" {
		return validationError("interviewId", "is required")
	}
	if !validEmail(r.Email) {
		return validationError("email", "must be a valid email address")
	}
	return nil
}

type BeginSessionRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (r *BeginSessionRequest) Validate() error {
	if !validEmail(r.Email) {
		return validationError("email", "must be a valid email address")
	}
	return nil
}

type SubmitAnswersRequest struct {
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	Answers []Answer `json:"answers"`
}

// answers themselves are checked by the ledger
func (r *SubmitAnswersRequest) Validate() error {
	if !validEmail(r.Email) {
		return validationError("email", "must be a valid email address")
	}
	return nil
}

type CompleteSessionRequest struct {
	Email string `json:"email"`
}

func (r *CompleteSessionRequest) Validate() error {
	if !validEmail(r.Email) {
		return validationError("email", "must be a valid email address")
	}
	return nil
}

type UpdateStatusRequest struct {
	Status SubmissionStatus `json:"status"`
	Email  string           `json:"email"`
	Name   string           `json:"name"`
}

func (r *UpdateStatusRequest) Validate() error {
	if r.Status != SubmissionStarted && r.Status != SubmissionCompleted {
		return validationError("status", "must be started or completed")
	}
	if !validEmail(r.Email) {
		return validationError("email", "must be a valid email address")
	}
	return nil
}

type QuestionRequest struct {
	Question
}

func (r *QuestionRequest) Validate() error {
	if !r.Type.Valid() {
		return validationError("type", "must be CodingQuestion or BehavioralQuestion")
	}
	if strings.TrimSpace(r.Title) == "" {
		return validationError("title", "is required")
	}
	if r.Type == CodingQuestion {
		switch r.Difficulty {
		case Easy, Medium, Hard:
		default:
			return validationError("difficulty", "must be easy, medium or hard")
		}
	}
	return nil
}

type RunCodeRequest struct {
	SourceCode string `json:"sourceCode"`
	Language   string `json:"language"`
	Stdin      string `json:"stdin"`
}

func (r *RunCodeRequest) Validate() error {
	if strings.TrimSpace(r.SourceCode) == "" {
		return validationError("sourceCode", "is required")
	}
	if r.Language == "" {
		return validationError("language", "is required")
	}
	return nil
}
