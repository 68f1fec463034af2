package models

import "time"

type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "pending"
	SubmissionStarted   SubmissionStatus = "started"
	SubmissionCompleted SubmissionStatus = "completed"
)

// CandidateStatus maps the authoritative submission status onto the
// interview's candidate entry.
func (s SubmissionStatus) CandidateStatus() CandidateStatus {
	switch s {
	case SubmissionStarted:
		return CandidateInProgress
	case SubmissionCompleted:
		return CandidateCompleted
	default:
		return CandidatePending
	}
}

type TestCaseResult struct {
	TestCaseID     string `json:"testCaseId" bson:"testCaseId"`
	IsPassed       bool   `json:"isPassed" bson:"isPassed"`
	ExpectedOutput string `json:"expectedOutput" bson:"expectedOutput"`
	UserOutput     string `json:"userOutput" bson:"userOutput"`
}

// Answer is immutable once stored.
type Answer struct {
	ID              uint             `gorm:"primaryKey" json:"-" bson:"-"`
	SubmissionID    string           `gorm:"size:36;not null;uniqueIndex:idx_answer_submission_question" json:"-" bson:"-"`
	QuestionID      string           `gorm:"not null;uniqueIndex:idx_answer_submission_question" json:"questionId" bson:"questionId"`
	QuestionType    QuestionType     `gorm:"not null" json:"questionType" bson:"questionType"`
	Response        string           `gorm:"type:text" json:"response" bson:"response"`
	Language        string           `json:"language,omitempty" bson:"language,omitempty"`
	TestCaseResults []TestCaseResult `gorm:"serializer:json;type:text" json:"testCaseResults,omitempty" bson:"testCaseResults,omitempty"`
	CreatedAt       time.Time        `json:"createdAt" bson:"createdAt"`
}

type Evaluation struct {
	BehavioralAnalysis string `json:"behavioralAnalysis" bson:"behavioralAnalysis"`
	CodingPerformance  string `json:"codingPerformance" bson:"codingPerformance"`
	OverallFeedback    string `json:"overallFeedback" bson:"overallFeedback"`
}

// Submission is the authoritative record of one candidate session.
type Submission struct {
	ID           string           `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	InterviewID  string           `gorm:"size:36;not null;uniqueIndex:idx_submission_interview_email" json:"interviewId" bson:"interviewId"`
	Email        string           `gorm:"not null;uniqueIndex:idx_submission_interview_email" json:"email" bson:"email"`
	Name         string           `json:"name" bson:"name"`
	InitiatedAt  time.Time        `gorm:"not null" json:"initiatedAt" bson:"initiatedAt"`
	SubmittedAt  *time.Time       `json:"submittedAt,omitempty" bson:"submittedAt,omitempty"`
	Status       SubmissionStatus `gorm:"not null;index" json:"status" bson:"status"`
	Answers      []Answer         `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE" json:"answers" bson:"answers"`
	AIEvaluation *Evaluation      `gorm:"serializer:json;type:text" json:"aiEvaluation,omitempty" bson:"aiEvaluation,omitempty"`
	Score        float64          `gorm:"not null;default:0" json:"score" bson:"score"`
	CreatedAt    time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// Deadline is when the session runs out of time.
func (s *Submission) Deadline(allotted time.Duration) time.Time {
	return s.InitiatedAt.Add(allotted)
}

// Overdue reports whether an unfinished session has run past its deadline.
func (s *Submission) Overdue(allotted time.Duration, now time.Time) bool {
	return s.Status != SubmissionCompleted && now.After(s.Deadline(allotted))
}

func (s *Submission) AnsweredQuestionIDs() []string {
	ids := make([]string, 0, len(s.Answers))
	for _, a := range s.Answers {
		ids = append(ids, a.QuestionID)
	}
	return ids
}

func (s *Submission) HasAnswer(questionID string) bool {
	for _, a := range s.Answers {
		if a.QuestionID == questionID {
			return true
		}
	}
	return false
}
