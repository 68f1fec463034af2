package services

import (
	"context"
	"errors"
	"strings"

	"github.com/mockwiseai/backend/internal/events"
	"github.com/mockwiseai/backend/internal/metrics"
	"github.com/mockwiseai/backend/internal/models"
	"github.com/mockwiseai/backend/internal/scheduler"

	"go.uber.org/zap"
)

// SubmitAnswers appends a batch of answers to the candidate's submission,
// creating the submission if the candidate never began. The batch is taken
// whole or not at all.
func (s *SessionService) SubmitAnswers(ctx context.Context, interviewID, email, name string, answers []models.Answer) (*models.Submission, int, error) {
	if err := validateBatch(answers); err != nil {
		metrics.AnswerBatchRejected(rejectReason(err))
		return nil, 0, err
	}

	email = models.NormalizeEmail(email)
	iv, err := s.interviews.GetInterview(ctx, interviewID)
	if err != nil {
		return nil, 0, err
	}

	sub, err := s.submissions.GetSubmission(ctx, iv.ID, email)
	if models.IsNotFound(err) {
		sub, err = s.createForAnswers(ctx, iv, email, name)
	}
	if err != nil {
		return nil, 0, err
	}

	if s.now().After(sub.Deadline(iv.Duration())) {
		if _, err := s.expireIfOverdue(ctx, iv, sub); err != nil {
			return nil, 0, err
		}
		metrics.AnswerBatchRejected("expired")
		return nil, 0, models.NewOpError("submit answers", models.ErrAlreadyCompleted, "time for this interview has run out")
	}

	batch := make([]models.Answer, len(answers))
	copy(batch, answers)
	for i := range batch {
		batch[i].QuestionID = strings.TrimSpace(batch[i].QuestionID)
	}
	at := s.now()
	if err := s.submissions.AppendAnswers(ctx, sub.ID, batch, at); err != nil {
		if errors.Is(err, models.ErrDuplicateAnswer) {
			metrics.AnswerBatchRejected("duplicate")
		}
		return nil, 0, err
	}
	n := len(batch)

	s.applyCounters(ctx, iv.ID, email, name, n)
	s.project(ctx, iv.ID, email, name, models.CandidateCompleted, &at)
	s.disarm(ctx, scheduler.Key{InterviewID: iv.ID, Email: email})

	sub.Answers = append(sub.Answers, batch...)
	sub.Status = models.SubmissionCompleted
	sub.SubmittedAt = &at

	submitted := events.New(events.AnswersSubmitted, iv.ID, email, sub.ID)
	submitted.Count = n
	s.publish(ctx, submitted)
	completed := events.New(events.SessionCompleted, iv.ID, email, sub.ID)
	completed.Reason = reasonSubmitted
	s.publish(ctx, completed)

	metrics.AnswersAccepted(n)
	metrics.SessionCompleted(reasonSubmitted)
	s.logger.Info("answers recorded",
		zap.String("interview_id", iv.ID),
		zap.String("email", email),
		zap.Int("count", n))
	return sub, n, nil
}

// createForAnswers makes the submission for a candidate who answers without
// beginning first. A concurrent begin wins and its record is used.
func (s *SessionService) createForAnswers(ctx context.Context, iv *models.Interview, email, name string) (*models.Submission, error) {
	if err := s.interviews.EnsureCandidate(ctx, iv.ID, models.NewCandidateEntry(email, name)); err != nil {
		s.logger.Warn("candidate entry not created", zap.String("interview_id", iv.ID), zap.String("email", email), zap.Error(err))
	}
	sub, _, err := s.begin(ctx, iv, email, name)
	return sub, err
}

func (s *SessionService) applyCounters(ctx context.Context, interviewID, email, name string, n int) {
	err := s.interviews.ApplyAnswerCounters(ctx, interviewID, email, n)
	if models.IsNotFound(err) {
		if err = s.interviews.EnsureCandidate(ctx, interviewID, models.NewCandidateEntry(email, name)); err == nil {
			err = s.interviews.ApplyAnswerCounters(ctx, interviewID, email, n)
		}
	}
	if err != nil {
		s.logger.Warn("answer counters not updated",
			zap.String("interview_id", interviewID),
			zap.String("email", email),
			zap.Int("count", n),
			zap.Error(err))
	}
}

func validateBatch(answers []models.Answer) error {
	if len(answers) == 0 {
		return models.NewOpError("submit answers", models.ErrInvalidAnswerList, "answers must be a non-empty list")
	}

	seen := make(map[string]bool, len(answers))
	var repeated []string
	for i, a := range answers {
		id := strings.TrimSpace(a.QuestionID)
		if id == "" {
			return models.NewOpError("submit answers", models.ErrInvalidAnswerList, "answers[%d]: questionId is required", i)
		}
		if !a.QuestionType.Valid() {
			return models.NewOpError("submit answers", models.ErrInvalidAnswerList, "answers[%d]: unknown questionType %q", i, a.QuestionType)
		}
		if a.QuestionType == models.BehavioralQuestion && len(a.TestCaseResults) > 0 {
			return models.NewOpError("submit answers", models.ErrInvalidAnswerList, "answers[%d]: testCaseResults only apply to coding questions", i)
		}
		if seen[id] {
			repeated = append(repeated, id)
		}
		seen[id] = true
	}
	if len(repeated) > 0 {
		return models.NewOpError("submit answers", models.ErrDuplicateAnswer,
			"question already answered: %s", strings.Join(repeated, ", "))
	}
	return nil
}

func rejectReason(err error) string {
	if errors.Is(err, models.ErrDuplicateAnswer) {
		return "duplicate"
	}
	return "invalid"
}
