package services

import (
	"context"
	"strings"

	"github.com/mockwiseai/backend/internal/events"
	"github.com/mockwiseai/backend/internal/models"

	"go.uber.org/zap"
)

// ScoringPolicy turns a set of answers into an evaluation and a 0..100 score.
type ScoringPolicy interface {
	Evaluate(answers []models.Answer) (models.Evaluation, float64)
}

// KeywordPolicy is the default heuristic: keyword counting for behavioral
// answers and pass rate for coding answers.
type KeywordPolicy struct {
	Positive []string
	Negative []string
}

func DefaultKeywordPolicy() KeywordPolicy {
	return KeywordPolicy{
		Positive: []string{"teamwork", "leadership", "problem-solving", "initiative", "communication"},
		Negative: []string{"conflict", "failure", "difficulties", "struggle", "weakness"},
	}
}

func (p KeywordPolicy) Evaluate(answers []models.Answer) (models.Evaluation, float64) {
	behavioral := p.behavioral(answers)
	coding, score := codingPerformance(answers)
	return models.Evaluation{
		BehavioralAnalysis: behavioral,
		CodingPerformance:  coding,
		OverallFeedback:    behavioral + " | " + coding,
	}, score
}

func (p KeywordPolicy) behavioral(answers []models.Answer) string {
	score := 0
	for _, a := range answers {
		text := strings.ToLower(a.Response)
		for _, kw := range p.Positive {
			if strings.Contains(text, kw) {
				score++
			}
		}
		for _, kw := range p.Negative {
			if strings.Contains(text, kw) {
				score--
			}
		}
	}
	if score > 0 {
		return "Positive response"
	}
	return "Needs improvement"
}

func codingPerformance(answers []models.Answer) (string, float64) {
	total, passed := 0, 0
	for _, a := range answers {
		total += len(a.TestCaseResults)
		for _, tc := range a.TestCaseResults {
			if tc.IsPassed {
				passed++
			}
		}
	}
	if total == 0 {
		return "No coding tests were attempted", 0
	}

	rate := float64(passed) / float64(total) * 100
	switch {
	case rate > 80:
		return "Excellent coding skills", rate
	case rate > 50:
		return "Good coding skills", rate
	default:
		return "Needs improvement", rate
	}
}

// Evaluator scores a submission whenever its session completes.
type Evaluator struct {
	submissions SubmissionStore
	policy      ScoringPolicy
	logger      *zap.Logger
}

func NewEvaluator(submissions SubmissionStore, policy ScoringPolicy, logger *zap.Logger) *Evaluator {
	if policy == nil {
		policy = DefaultKeywordPolicy()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{submissions: submissions, policy: policy, logger: logger}
}

// Register subscribes the evaluator to completed sessions.
func (e *Evaluator) Register(bus *events.Bus) {
	bus.Subscribe(events.SessionCompleted, e.HandleEvent)
}

func (e *Evaluator) HandleEvent(ctx context.Context, ev events.Event) {
	if ev.Type != events.SessionCompleted {
		return
	}
	if err := e.Evaluate(ctx, ev.SubmissionID); err != nil {
		e.logger.Error("failed to evaluate submission",
			zap.String("submission_id", ev.SubmissionID),
			zap.String("event_id", ev.ID),
			zap.Error(err))
	}
}

func (e *Evaluator) Evaluate(ctx context.Context, submissionID string) error {
	sub, err := e.submissions.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return err
	}
	eval, score := e.policy.Evaluate(sub.Answers)
	return e.submissions.SaveEvaluation(ctx, sub.ID, eval, score)
}
