package events

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type Type string

const (
	SessionStarted   Type = "session_started"
	AnswersSubmitted Type = "answers_submitted"
	SessionCompleted Type = "session_completed"
)

// Event is published on every session lifecycle transition.
type Event struct {
	ID           string    `json:"id"`
	Type         Type      `json:"type"`
	InterviewID  string    `json:"interviewId"`
	Email        string    `json:"email"`
	SubmissionID string    `json:"submissionId"`
	Count        int       `json:"count,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	At           time.Time `json:"at"`
}

func New(t Type, interviewID, email, submissionID string) Event {
	return Event{
		ID:           ulid.Make().String(),
		Type:         t,
		InterviewID:  interviewID,
		Email:        email,
		SubmissionID: submissionID,
		At:           time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type Handler func(ctx context.Context, ev Event)

// Bus dispatches events to in-process handlers. It is also the Publisher
// used when Redis is not configured.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
	logger   *zap.Logger
}

func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{handlers: make(map[Type][]Handler), logger: logger}
}

func (b *Bus) Subscribe(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

func (b *Bus) Publish(ctx context.Context, ev Event) error {
	b.Dispatch(ctx, ev)
	return nil
}

// Dispatch runs the handlers for ev in order. A panicking handler is logged
// and does not stop the others.
func (b *Bus) Dispatch(ctx context.Context, ev Event) {
	b.mu.RLock()
	hs := append([]Handler(nil), b.handlers[ev.Type]...)
	b.mu.RUnlock()

	for _, h := range hs {
		b.run(ctx, h, ev)
	}
}

func (b *Bus) run(ctx context.Context, h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("type", string(ev.Type)),
				zap.String("event_id", ev.ID),
				zap.Any("panic", r))
		}
	}()
	h(ctx, ev)
}
