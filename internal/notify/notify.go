package notify

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// InvitationMail is everything needed to tell a candidate about an interview.
type InvitationMail struct {
	To             string
	CandidateName  string
	InterviewTitle string
	JobRole        string
	TotalTime      int
	Link           string
	ExpiresAt      time.Time
}

// ErrDisabled is returned by notifiers that do not deliver mail.
var ErrDisabled = errors.New("email delivery disabled")

type Notifier interface {
	SendInvitation(ctx context.Context, mail InvitationMail) error
}

// LogNotifier records invitations in the log instead of sending them. It
// always returns ErrDisabled so callers can report the mail as unsent.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) SendInvitation(_ context.Context, mail InvitationMail) error {
	logger := n.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("invitation email not sent, SMTP disabled",
		zap.String("to", mail.To),
		zap.String("interview", mail.InterviewTitle),
		zap.String("link", mail.Link))
	return ErrDisabled
}
