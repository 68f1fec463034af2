package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mockwiseai/backend/internal/events"
	"github.com/mockwiseai/backend/internal/models"
	"github.com/mockwiseai/backend/internal/notify"
	"github.com/mockwiseai/backend/internal/repositories"
	"github.com/mockwiseai/backend/internal/scheduler"
	"github.com/mockwiseai/backend/internal/testhelpers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingNotifier struct {
	mu    sync.Mutex
	mails []notify.InvitationMail
	err   error
}

func (n *recordingNotifier) SendInvitation(_ context.Context, mail notify.InvitationMail) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mails = append(n.mails, mail)
	return n.err
}

type fixture struct {
	db          *gorm.DB
	stores      Stores
	clock       *fakeClock
	bus         *events.Bus
	received    *[]events.Event
	notifier    *recordingNotifier
	sessions    *SessionService
	invitations *InvitationService
	interview   *models.Interview
}

func gormStores(db *gorm.DB) Stores {
	return Stores{
		Interviews:  &repositories.InterviewRepository{DB: db},
		Invitations: &repositories.InvitationRepository{DB: db},
		Submissions: &repositories.SubmissionRepository{DB: db},
		Questions:   &repositories.QuestionRepository{DB: db},
		Recruiters:  &repositories.RecruiterRepository{DB: db},
	}
}

// newFixture wires the services over an in-memory sqlite database with a
// 30 minute interview of three questions.
func newFixture(t *testing.T, index scheduler.DeadlineIndex) *fixture {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	f := &fixture{
		db:       db,
		stores:   gormStores(db),
		clock:    newFakeClock(),
		bus:      events.NewBus(zap.NewNop()),
		notifier: &recordingNotifier{},
	}

	var received []events.Event
	f.received = &received
	record := func(_ context.Context, ev events.Event) { received = append(received, ev) }
	f.bus.Subscribe(events.SessionStarted, record)
	f.bus.Subscribe(events.AnswersSubmitted, record)
	f.bus.Subscribe(events.SessionCompleted, record)

	f.sessions = NewSessionService(SessionDeps{
		Interviews:  f.stores.Interviews,
		Invitations: f.stores.Invitations,
		Submissions: f.stores.Submissions,
		Questions:   f.stores.Questions,
		Index:       index,
		Publisher:   f.bus,
		Logger:      zap.NewNop(),
		Now:         f.clock.Now,
	})
	t.Cleanup(f.sessions.Shutdown)

	f.invitations = NewInvitationService(InvitationDeps{
		Interviews:  f.stores.Interviews,
		Invitations: f.stores.Invitations,
		Notifier:    f.notifier,
		FrontendURL: "https://app.example.com/",
		Logger:      zap.NewNop(),
		Now:         f.clock.Now,
	})

	f.interview = &models.Interview{
		ID:          uuid.NewString(),
		Title:       "Backend screen",
		JobRole:     "Go engineer",
		RecruiterID: "rec-1",
		Questions: []models.QuestionRef{
			{QuestionID: "q1", QuestionType: models.CodingQuestion},
			{QuestionID: "q2", QuestionType: models.BehavioralQuestion},
			{QuestionID: "q3", QuestionType: models.BehavioralQuestion},
		},
		TotalTime:  30,
		UniqueLink: uuid.NewString(),
		Status:     models.InterviewPublished,
	}
	require.NoError(t, f.stores.Interviews.CreateInterview(context.Background(), f.interview))
	return f
}

func (f *fixture) invite(t *testing.T, email string) *models.Invitation {
	t.Helper()
	inv, _, err := f.invitations.Issue(context.Background(), f.interview, email, "Cand")
	require.NoError(t, err)
	return inv
}

func (f *fixture) entry(t *testing.T, email string) models.CandidateEntry {
	t.Helper()
	iv, err := f.stores.Interviews.GetInterview(context.Background(), f.interview.ID)
	require.NoError(t, err)
	e := iv.Candidate(email)
	require.NotNil(t, e, "no candidate entry for %s", email)
	return *e
}

func (f *fixture) eventTypes() []events.Type {
	out := make([]events.Type, 0, len(*f.received))
	for _, ev := range *f.received {
		out = append(out, ev.Type)
	}
	return out
}

func behavioral(id, response string) models.Answer {
	return models.Answer{QuestionID: id, QuestionType: models.BehavioralQuestion, Response: response}
}
