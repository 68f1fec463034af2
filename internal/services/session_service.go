package services

import (
	"context"
	"errors"
	"time"

	"github.com/mockwiseai/backend/internal/events"
	"github.com/mockwiseai/backend/internal/metrics"
	"github.com/mockwiseai/backend/internal/models"
	"github.com/mockwiseai/backend/internal/scheduler"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// completion reasons, used as metric labels and event reasons
const (
	reasonSubmitted = "submitted"
	reasonExplicit  = "explicit"
	reasonTimeout   = "timeout"
	reasonExpired   = "expired"
)

type SessionDeps struct {
	Interviews  InterviewStore
	Invitations InvitationStore
	Submissions SubmissionStore
	Questions   QuestionStore
	Timers      *scheduler.Timers
	// Index is optional; without it the sweeper scans open submissions.
	Index     scheduler.DeadlineIndex
	Publisher events.Publisher
	Logger    *zap.Logger
	Now       func() time.Time
}

// SessionService owns the candidate session lifecycle and the answer ledger.
// The submission record is authoritative; the candidate entry on the
// interview is kept in step with it.
type SessionService struct {
	interviews  InterviewStore
	invitations InvitationStore
	submissions SubmissionStore
	questions   QuestionStore
	timers      *scheduler.Timers
	index       scheduler.DeadlineIndex
	publisher   events.Publisher
	logger      *zap.Logger
	now         func() time.Time
}

func NewSessionService(d SessionDeps) *SessionService {
	s := &SessionService{
		interviews:  d.Interviews,
		invitations: d.Invitations,
		submissions: d.Submissions,
		questions:   d.Questions,
		timers:      d.Timers,
		index:       d.Index,
		publisher:   d.Publisher,
		logger:      d.Logger,
		now:         d.Now,
	}
	if s.timers == nil {
		s.timers = scheduler.NewTimers()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// Start begins a session for an invited candidate.
func (s *SessionService) Start(ctx context.Context, interviewID, email, name string) (*models.Submission, error) {
	email = models.NormalizeEmail(email)
	iv, err := s.interviews.GetInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}

	inv, err := s.invitations.GetInvitation(ctx, interviewID, email)
	if err != nil {
		if models.IsNotFound(err) {
			return nil, models.NewOpError("start session", models.ErrInvalidInvitation, "no invitation for %s", email)
		}
		return nil, err
	}
	if inv.ExpiredAt(s.now()) {
		return nil, models.NewOpError("start session", models.ErrInvalidInvitation, "invitation has expired")
	}

	sub, created, err := s.begin(ctx, iv, email, name)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, models.NewOpError("start session", models.ErrAlreadyStarted, "session already started for %s", email)
	}

	if inv.Status != models.InvitationAccepted {
		inv.Status = models.InvitationAccepted
		if err := s.invitations.UpdateInvitation(ctx, inv); err != nil {
			s.logger.Warn("failed to mark invitation accepted",
				zap.String("interview_id", interviewID), zap.String("email", email), zap.Error(err))
		}
	}
	return sub, nil
}

// UpdateStatus is the recruiter-side transition. "started" reuses the begin
// path but returns an existing session instead of failing.
func (s *SessionService) UpdateStatus(ctx context.Context, interviewID string, status models.SubmissionStatus, email, name string) (*models.Submission, error) {
	email = models.NormalizeEmail(email)
	switch status {
	case models.SubmissionStarted:
		iv, err := s.interviews.GetInterview(ctx, interviewID)
		if err != nil {
			return nil, err
		}
		sub, _, err := s.begin(ctx, iv, email, name)
		if err != nil {
			return nil, err
		}
		if _, err := s.expireIfOverdue(ctx, iv, sub); err != nil {
			return nil, err
		}
		return sub, nil
	case models.SubmissionCompleted:
		return s.Complete(ctx, interviewID, email)
	default:
		return nil, models.NewOpError("update status", models.ErrValidation, "unsupported status %q", status)
	}
}

// begin creates the submission for the pair unless one exists. The unique
// (interview, email) index decides races; created reports which side won.
func (s *SessionService) begin(ctx context.Context, iv *models.Interview, email, name string) (*models.Submission, bool, error) {
	sub := &models.Submission{
		ID:          uuid.NewString(),
		InterviewID: iv.ID,
		Email:       email,
		Name:        name,
		InitiatedAt: s.now(),
		Status:      models.SubmissionStarted,
	}
	if err := s.submissions.CreateSubmission(ctx, sub); err != nil {
		if !errors.Is(err, models.ErrConflict) {
			return nil, false, err
		}
		existing, gerr := s.submissions.GetSubmission(ctx, iv.ID, email)
		if gerr != nil {
			return nil, false, gerr
		}
		return existing, false, nil
	}

	s.project(ctx, iv.ID, email, name, models.CandidateInProgress, nil)
	s.arm(ctx, iv, sub)
	s.publish(ctx, events.New(events.SessionStarted, iv.ID, email, sub.ID))
	metrics.SessionStarted()

	s.logger.Info("session started",
		zap.String("interview_id", iv.ID),
		zap.String("email", email),
		zap.Time("deadline", sub.Deadline(iv.Duration())))
	return sub, true, nil
}

// Complete finalizes a session now. Completing a finished session returns
// it unchanged.
func (s *SessionService) Complete(ctx context.Context, interviewID, email string) (*models.Submission, error) {
	email = models.NormalizeEmail(email)
	iv, err := s.interviews.GetInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	sub, err := s.getSubmission(ctx, iv.ID, email)
	if err != nil {
		return nil, err
	}
	if sub.Status == models.SubmissionCompleted {
		return sub, nil
	}

	expired, err := s.expireIfOverdue(ctx, iv, sub)
	if err != nil {
		return nil, err
	}
	if expired {
		return sub, nil
	}
	if _, err := s.finalize(ctx, sub, s.now(), reasonExplicit); err != nil {
		return nil, err
	}
	return sub, nil
}

// GetProgress reports the candidate's position in the interview. Expiry is
// applied and the candidate entry repaired before reading.
func (s *SessionService) GetProgress(ctx context.Context, interviewID, email string) (*models.Progress, error) {
	email = models.NormalizeEmail(email)
	iv, err := s.interviews.GetInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}

	progress := &models.Progress{
		TotalQuestions:       len(iv.Questions),
		CompletedQuestionIDs: []string{},
	}

	sub, err := s.submissions.GetSubmission(ctx, iv.ID, email)
	if models.IsNotFound(err) {
		entry := iv.Candidate(email)
		if entry == nil {
			return nil, models.NewOpError("get progress", models.ErrNotFound, "no candidate %s on this interview", email)
		}
		progress.Status = entry.Status
		progress.TimeRemainingMs = iv.Duration().Milliseconds()
		return progress, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.expireIfOverdue(ctx, iv, sub); err != nil {
		return nil, err
	}
	s.repair(ctx, iv, sub)

	progress.CompletedQuestionIDs = sub.AnsweredQuestionIDs()
	progress.Status = sub.Status.CandidateStatus()
	progress.TimeRemainingMs = sub.Deadline(iv.Duration()).Sub(s.now()).Milliseconds()
	return progress, nil
}

// GetSession is the candidate view of an interview reached by its link.
func (s *SessionService) GetSession(ctx context.Context, link string) (*models.SessionView, error) {
	iv, err := s.interviews.GetInterviewByLink(ctx, link)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(iv.Questions))
	for _, ref := range iv.Questions {
		ids = append(ids, ref.QuestionID)
	}
	found, err := s.questions.GetQuestions(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Question, len(found))
	for _, q := range found {
		byID[q.ID] = q
	}

	view := &models.SessionView{
		ID:        iv.ID,
		Title:     iv.Title,
		JobRole:   iv.JobRole,
		TotalTime: iv.TotalTime,
		Status:    iv.Status,
		Questions: make([]models.SessionItem, 0, len(iv.Questions)),
		CreatedAt: iv.CreatedAt,
		UpdatedAt: iv.UpdatedAt,
	}
	for _, ref := range iv.Questions {
		item := models.SessionItem{QuestionID: ref.QuestionID, QuestionType: ref.QuestionType}
		if q, ok := byID[ref.QuestionID]; ok {
			public := q.Public()
			item.Question = &public
		}
		view.Questions = append(view.Questions, item)
	}
	return view, nil
}

// ListSubmissions returns every submission of an interview with overdue
// sessions finalized first.
func (s *SessionService) ListSubmissions(ctx context.Context, interviewID string) ([]models.Submission, error) {
	iv, err := s.interviews.GetInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	subs, err := s.submissions.ListSubmissions(ctx, iv.ID)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		if _, err := s.expireIfOverdue(ctx, iv, &subs[i]); err != nil {
			return nil, err
		}
	}
	return subs, nil
}

func (s *SessionService) getSubmission(ctx context.Context, interviewID, email string) (*models.Submission, error) {
	sub, err := s.submissions.GetSubmission(ctx, interviewID, email)
	if models.IsNotFound(err) {
		return nil, models.NewOpError("get session", models.ErrNotFound, "no session for %s", email)
	}
	return sub, err
}

// expireIfOverdue finalizes an unfinished session past its deadline, stamping
// the deadline as the submission time.
func (s *SessionService) expireIfOverdue(ctx context.Context, iv *models.Interview, sub *models.Submission) (bool, error) {
	if !sub.Overdue(iv.Duration(), s.now()) {
		return false, nil
	}
	if _, err := s.finalize(ctx, sub, sub.Deadline(iv.Duration()), reasonExpired); err != nil {
		return false, err
	}
	return true, nil
}

// finalize performs the conditional completion write. When another path won
// the race the stored submission is re-read into sub and false is returned.
func (s *SessionService) finalize(ctx context.Context, sub *models.Submission, at time.Time, reason string) (bool, error) {
	changed, err := s.submissions.CompleteSubmission(ctx, sub.ID, at)
	if err != nil {
		return false, err
	}
	key := scheduler.Key{InterviewID: sub.InterviewID, Email: sub.Email}
	s.disarm(ctx, key)

	if !changed {
		current, err := s.submissions.GetSubmissionByID(ctx, sub.ID)
		if err != nil {
			return false, err
		}
		*sub = *current
		return false, nil
	}

	sub.Status = models.SubmissionCompleted
	sub.SubmittedAt = &at
	s.project(ctx, sub.InterviewID, sub.Email, sub.Name, models.CandidateCompleted, &at)

	ev := events.New(events.SessionCompleted, sub.InterviewID, sub.Email, sub.ID)
	ev.Reason = reason
	s.publish(ctx, ev)
	metrics.SessionCompleted(reason)

	s.logger.Info("session completed",
		zap.String("interview_id", sub.InterviewID),
		zap.String("email", sub.Email),
		zap.String("reason", reason),
		zap.Time("submitted_at", at))
	return true, nil
}

// project writes the candidate entry. Failures are logged; the entry is
// repaired from the submission on the next progress read.
func (s *SessionService) project(ctx context.Context, interviewID, email, name string, status models.CandidateStatus, submittedAt *time.Time) {
	if err := s.interviews.SetCandidateStatus(ctx, interviewID, email, name, status, submittedAt); err != nil {
		s.logger.Warn("candidate entry not updated",
			zap.String("interview_id", interviewID),
			zap.String("email", email),
			zap.String("status", string(status)),
			zap.Error(err))
	}
}

// repair brings a stale candidate entry in line with the submission.
func (s *SessionService) repair(ctx context.Context, iv *models.Interview, sub *models.Submission) {
	want := sub.Status.CandidateStatus()
	entry := iv.Candidate(sub.Email)
	if entry != nil && entry.Status == want && sameTime(entry.SubmittedAt, sub.SubmittedAt) {
		return
	}
	s.project(ctx, iv.ID, sub.Email, sub.Name, want, sub.SubmittedAt)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func (s *SessionService) arm(ctx context.Context, iv *models.Interview, sub *models.Submission) {
	key := scheduler.Key{InterviewID: iv.ID, Email: sub.Email}
	deadline := sub.Deadline(iv.Duration())
	s.timers.Arm(key, deadline.Sub(s.now()), s.onTimeout)
	metrics.SetActiveTimers(s.timers.Pending())

	if s.index != nil {
		if err := s.index.Track(ctx, key, deadline); err != nil {
			s.logger.Warn("failed to record session deadline", zap.String("session", key.String()), zap.Error(err))
		}
	}
}

func (s *SessionService) disarm(ctx context.Context, key scheduler.Key) {
	s.timers.Cancel(key)
	metrics.SetActiveTimers(s.timers.Pending())
	if s.index != nil {
		if err := s.index.Forget(ctx, key); err != nil {
			s.logger.Warn("failed to drop session deadline", zap.String("session", key.String()), zap.Error(err))
		}
	}
}

// onTimeout runs on the timer goroutine. The completion write is conditional
// so a session finished in the meantime is left alone.
func (s *SessionService) onTimeout(key scheduler.Key, at time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sub, err := s.submissions.GetSubmission(ctx, key.InterviewID, key.Email)
	if err != nil {
		s.logger.Warn("timeout for unknown session", zap.String("session", key.String()), zap.Error(err))
		return
	}
	if sub.Status == models.SubmissionCompleted {
		return
	}
	if _, err := s.finalize(ctx, sub, at.UTC(), reasonTimeout); err != nil {
		s.logger.Error("failed to complete timed out session", zap.String("session", key.String()), zap.Error(err))
	}
}

// SweepExpired finalizes every overdue session and reports how many it
// completed. It uses the deadline index when present, otherwise it scans
// open submissions.
func (s *SessionService) SweepExpired(ctx context.Context) (int, error) {
	if s.index != nil {
		return s.sweepIndex(ctx)
	}
	return s.sweepStore(ctx)
}

func (s *SessionService) sweepIndex(ctx context.Context) (int, error) {
	due, err := s.index.Due(ctx, s.now())
	if err != nil {
		return 0, err
	}
	cache := map[string]*models.Interview{}
	finalized := 0
	for _, d := range due {
		iv, err := s.cachedInterview(ctx, cache, d.Key.InterviewID)
		if models.IsNotFound(err) {
			s.disarm(ctx, d.Key)
			continue
		}
		if err != nil {
			return finalized, err
		}
		sub, err := s.submissions.GetSubmission(ctx, d.Key.InterviewID, d.Key.Email)
		if models.IsNotFound(err) {
			s.disarm(ctx, d.Key)
			continue
		}
		if err != nil {
			return finalized, err
		}
		if sub.Status == models.SubmissionCompleted {
			s.disarm(ctx, d.Key)
			continue
		}
		expired, err := s.expireIfOverdue(ctx, iv, sub)
		if err != nil {
			return finalized, err
		}
		if expired {
			finalized++
		}
	}
	return finalized, nil
}

func (s *SessionService) sweepStore(ctx context.Context) (int, error) {
	open, err := s.submissions.ListOpenSubmissions(ctx)
	if err != nil {
		return 0, err
	}
	cache := map[string]*models.Interview{}
	finalized := 0
	for i := range open {
		iv, err := s.cachedInterview(ctx, cache, open[i].InterviewID)
		if models.IsNotFound(err) {
			continue
		}
		if err != nil {
			return finalized, err
		}
		expired, err := s.expireIfOverdue(ctx, iv, &open[i])
		if err != nil {
			return finalized, err
		}
		if expired {
			finalized++
		}
	}
	return finalized, nil
}

// ResumeTimers re-arms in-process timers for open sessions after a restart.
// Sessions already overdue are finalized instead.
func (s *SessionService) ResumeTimers(ctx context.Context) (int, error) {
	open, err := s.submissions.ListOpenSubmissions(ctx)
	if err != nil {
		return 0, err
	}
	cache := map[string]*models.Interview{}
	armed := 0
	for i := range open {
		iv, err := s.cachedInterview(ctx, cache, open[i].InterviewID)
		if models.IsNotFound(err) {
			continue
		}
		if err != nil {
			return armed, err
		}
		expired, err := s.expireIfOverdue(ctx, iv, &open[i])
		if err != nil {
			return armed, err
		}
		if !expired {
			s.arm(ctx, iv, &open[i])
			armed++
		}
	}
	return armed, nil
}

// Shutdown cancels all in-process timers.
func (s *SessionService) Shutdown() {
	s.timers.Stop()
	metrics.SetActiveTimers(0)
}

func (s *SessionService) cachedInterview(ctx context.Context, cache map[string]*models.Interview, id string) (*models.Interview, error) {
	if iv, ok := cache[id]; ok {
		return iv, nil
	}
	iv, err := s.interviews.GetInterview(ctx, id)
	if err != nil {
		return nil, err
	}
	cache[id] = iv
	return iv, nil
}

func (s *SessionService) publish(ctx context.Context, ev events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("failed to publish session event",
			zap.String("type", string(ev.Type)),
			zap.String("interview_id", ev.InterviewID),
			zap.Error(err))
	}
}
