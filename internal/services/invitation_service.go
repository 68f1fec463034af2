package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mockwiseai/backend/internal/metrics"
	"github.com/mockwiseai/backend/internal/models"
	"github.com/mockwiseai/backend/internal/notify"
	"github.com/mockwiseai/backend/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultInvitationTTL = 7 * 24 * time.Hour

type InvitationDeps struct {
	Interviews  InterviewStore
	Invitations InvitationStore
	Notifier    notify.Notifier
	FrontendURL string
	TTL         time.Duration
	Logger      *zap.Logger
	Now         func() time.Time
}

// InvitationService issues, verifies and rotates candidate invitations.
type InvitationService struct {
	interviews  InterviewStore
	invitations InvitationStore
	notifier    notify.Notifier
	frontendURL string
	ttl         time.Duration
	logger      *zap.Logger
	now         func() time.Time
	newToken    func() (string, error)
}

func NewInvitationService(d InvitationDeps) *InvitationService {
	s := &InvitationService{
		interviews:  d.Interviews,
		invitations: d.Invitations,
		notifier:    d.Notifier,
		frontendURL: strings.TrimRight(d.FrontendURL, "/"),
		ttl:         d.TTL,
		logger:      d.Logger,
		now:         d.Now,
		newToken:    utils.NewToken,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultInvitationTTL
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.notifier == nil {
		s.notifier = notify.LogNotifier{Logger: s.logger}
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// Issue creates the invitation for one candidate, or re-issues the existing
// one in place, and adds the candidate to the interview. The email is sent
// best-effort; emailSent reports whether it went out.
func (s *InvitationService) Issue(ctx context.Context, iv *models.Interview, email, name string) (*models.Invitation, bool, error) {
	email = models.NormalizeEmail(email)
	token, err := s.newToken()
	if err != nil {
		return nil, false, fmt.Errorf("generate invitation token: %w", err)
	}

	inv := &models.Invitation{
		ID:          uuid.NewString(),
		InterviewID: iv.ID,
		RecruiterID: iv.RecruiterID,
		Email:       email,
		Name:        strings.TrimSpace(name),
		Token:       token,
		ExpiresAt:   s.now().Add(s.ttl),
		Status:      models.InvitationPending,
	}
	if err := s.invitations.UpsertInvitation(ctx, inv); err != nil {
		return nil, false, err
	}
	if err := s.interviews.EnsureCandidate(ctx, iv.ID, models.NewCandidateEntry(email, inv.Name)); err != nil {
		return nil, false, err
	}
	metrics.InvitationIssued()

	return inv, s.send(ctx, iv, inv), nil
}

// IssueAll invites every candidate and reports per-email results. One
// failure does not stop the rest.
func (s *InvitationService) IssueAll(ctx context.Context, iv *models.Interview, candidates []models.CandidateInput) []models.InvitationResult {
	results := make([]models.InvitationResult, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		email := models.NormalizeEmail(c.Email)
		res := models.InvitationResult{Email: email}
		switch {
		case email == "":
			res.Error = "email is required"
		case !models.ValidEmail(c.Email):
			res.Email = strings.TrimSpace(c.Email)
			res.Error = "email must be a valid email address"
		case seen[email]:
			res.Error = "duplicate email in request"
		default:
			seen[email] = true
			inv, sent, err := s.Issue(ctx, iv, email, c.Name)
			if err != nil {
				s.logger.Error("failed to issue invitation",
					zap.String("interview_id", iv.ID), zap.String("email", email), zap.Error(err))
				res.Error = models.Message(err)
				break
			}
			res.Success = true
			res.InvitationID = inv.ID
			res.EmailSent = sent
		}
		results = append(results, res)
	}
	return results
}

// Verify resolves a token. A token past its expiry is reported expired
// whatever its stored status.
func (s *InvitationService) Verify(ctx context.Context, token string) (*models.Invitation, error) {
	inv, err := s.Lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv.ExpiredAt(s.now()) {
		return nil, models.NewOpError("verify invitation", models.ErrExpired, "invitation has expired")
	}
	return inv, nil
}

// Lookup finds an invitation by token without checking expiry.
func (s *InvitationService) Lookup(ctx context.Context, token string) (*models.Invitation, error) {
	if !utils.ValidToken(token) {
		return nil, models.NewOpError("lookup invitation", models.ErrNotFound, "invitation not found")
	}
	inv, err := s.invitations.GetInvitationByToken(ctx, token)
	if models.IsNotFound(err) {
		return nil, models.NewOpError("lookup invitation", models.ErrNotFound, "invitation not found")
	}
	return inv, err
}

// Resend rotates the token and expiry of an existing invitation and sends it
// again.
func (s *InvitationService) Resend(ctx context.Context, iv *models.Interview, email string) (*models.Invitation, bool, error) {
	email = models.NormalizeEmail(email)
	inv, err := s.invitations.GetInvitation(ctx, iv.ID, email)
	if err != nil {
		if models.IsNotFound(err) {
			return nil, false, models.NewOpError("resend invitation", models.ErrNotFound, "no invitation for %s", email)
		}
		return nil, false, err
	}

	token, err := s.newToken()
	if err != nil {
		return nil, false, fmt.Errorf("generate invitation token: %w", err)
	}
	inv.Token = token
	inv.ExpiresAt = s.now().Add(s.ttl)
	inv.Status = models.InvitationPending
	if err := s.invitations.UpdateInvitation(ctx, inv); err != nil {
		return nil, false, err
	}
	metrics.InvitationIssued()

	return inv, s.send(ctx, iv, inv), nil
}

// Expire marks an invitation unusable.
func (s *InvitationService) Expire(ctx context.Context, inv *models.Invitation) error {
	if inv.Status == models.InvitationExpired {
		return nil
	}
	inv.Status = models.InvitationExpired
	return s.invitations.UpdateInvitation(ctx, inv)
}

func (s *InvitationService) List(ctx context.Context, interviewID string) ([]models.Invitation, error) {
	return s.invitations.ListInvitations(ctx, interviewID)
}

// Link is the candidate-facing URL for an invitation.
func (s *InvitationService) Link(inv *models.Invitation) string {
	return fmt.Sprintf("%s/interview?token=%s&id=%s",
		s.frontendURL, url.QueryEscape(inv.Token), url.QueryEscape(inv.InterviewID))
}

func (s *InvitationService) send(ctx context.Context, iv *models.Interview, inv *models.Invitation) bool {
	err := s.notifier.SendInvitation(ctx, notify.InvitationMail{
		To:             inv.Email,
		CandidateName:  inv.Name,
		InterviewTitle: iv.Title,
		JobRole:        iv.JobRole,
		TotalTime:      iv.TotalTime,
		Link:           s.Link(inv),
		ExpiresAt:      inv.ExpiresAt,
	})
	if errors.Is(err, notify.ErrDisabled) {
		return false
	}
	metrics.InvitationEmail(err == nil)
	if err != nil {
		s.logger.Warn("invitation email failed",
			zap.String("interview_id", iv.ID), zap.String("email", inv.Email), zap.Error(err))
		return false
	}
	return true
}
