package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mockwiseai/backend/internal/models"
	"github.com/mockwiseai/backend/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssue_CreatesInvitationAndCandidate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	inv, sent, err := f.invitations.Issue(ctx, f.interview, " Ada@Example.com ", "Ada")
	require.NoError(t, err)
	assert.True(t, sent)
	assert.True(t, utils.ValidToken(inv.Token))
	assert.Equal(t, "ada@example.com", inv.Email)
	assert.Equal(t, models.InvitationPending, inv.Status)
	assert.True(t, f.clock.Now().Add(7*24*time.Hour).Equal(inv.ExpiresAt))

	entry := f.entry(t, "ada@example.com")
	assert.Equal(t, models.CandidatePending, entry.Status)
	assert.Equal(t, "Ada", entry.Name)

	require.Len(t, f.notifier.mails, 1)
	mail := f.notifier.mails[0]
	assert.Equal(t, "ada@example.com", mail.To)
	assert.Equal(t, "https://app.example.com/interview?token="+inv.Token+"&id="+f.interview.ID, mail.Link)
}

func TestIssue_ReissueRotatesInPlace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	first := f.invite(t, "a@example.com")
	f.clock.Advance(24 * time.Hour)
	second := f.invite(t, "a@example.com")

	assert.Equal(t, first.ID, second.ID)
	assert.NotEqual(t, first.Token, second.Token)

	_, err := f.invitations.Verify(ctx, first.Token)
	assert.True(t, models.IsNotFound(err))
	got, err := f.invitations.Verify(ctx, second.Token)
	require.NoError(t, err)
	assert.True(t, f.clock.Now().Add(7*24*time.Hour).Equal(got.ExpiresAt))

	all, err := f.invitations.List(ctx, f.interview.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	iv, err := f.stores.Interviews.GetInterview(ctx, f.interview.ID)
	require.NoError(t, err)
	assert.Len(t, iv.Candidates, 1)
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	inv := f.invite(t, "a@example.com")

	got, err := f.invitations.Verify(ctx, inv.Token)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, got.ID)

	_, err = f.invitations.Verify(ctx, "not-a-token")
	assert.True(t, models.IsNotFound(err))

	f.clock.Advance(7*24*time.Hour + time.Second)
	_, err = f.invitations.Verify(ctx, inv.Token)
	assert.True(t, errors.Is(err, models.ErrExpired), "got %v", err)
}

func TestVerify_ExpiredByTimestampEvenWhenAccepted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	inv := f.invite(t, "a@example.com")
	_, err := f.sessions.Start(ctx, f.interview.ID, "a@example.com", "A")
	require.NoError(t, err)

	f.clock.Advance(8 * 24 * time.Hour)
	_, err = f.invitations.Verify(ctx, inv.Token)
	assert.True(t, errors.Is(err, models.ErrExpired))
}

func TestExpire(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	inv := f.invite(t, "a@example.com")

	found, err := f.invitations.Lookup(ctx, inv.Token)
	require.NoError(t, err)
	require.NoError(t, f.invitations.Expire(ctx, found))
	require.NoError(t, f.invitations.Expire(ctx, found))

	_, err = f.invitations.Verify(ctx, inv.Token)
	assert.True(t, errors.Is(err, models.ErrExpired))
}

func TestResend(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, _, err := f.invitations.Resend(ctx, f.interview, "nobody@example.com")
	assert.True(t, models.IsNotFound(err))

	inv := f.invite(t, "a@example.com")
	require.NoError(t, f.invitations.Expire(ctx, inv))
	f.clock.Advance(time.Hour)

	again, sent, err := f.invitations.Resend(ctx, f.interview, "A@example.com")
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, inv.ID, again.ID)
	assert.NotEqual(t, inv.Token, again.Token)
	assert.Equal(t, models.InvitationPending, again.Status)

	_, err = f.invitations.Verify(ctx, again.Token)
	assert.NoError(t, err)
	assert.Len(t, f.notifier.mails, 2)
}

func TestIssueAll_ReportsPerEmail(t *testing.T) {
	f := newFixture(t, nil)
	f.notifier.err = errors.New("smtp down")

	results := f.invitations.IssueAll(context.Background(), f.interview, []models.CandidateInput{
		{Email: "a@example.com", Name: "A"},
		{Email: "A@example.com", Name: "A again"},
		{Email: "", Name: "blank"},
		{Email: "b@example.com"},
	})
	require.Len(t, results, 4)

	assert.True(t, results[0].Success)
	assert.False(t, results[0].EmailSent, "email failures are reported, not fatal")
	assert.NotEmpty(t, results[0].InvitationID)

	assert.False(t, results[1].Success)
	assert.Equal(t, "duplicate email in request", results[1].Error)
	assert.False(t, results[2].Success)
	assert.True(t, results[3].Success)
}

func TestIssueAll_RejectsMalformedAddresses(t *testing.T) {
	f := newFixture(t, nil)

	results := f.invitations.IssueAll(context.Background(), f.interview, []models.CandidateInput{
		{Email: "not-an-email"},
		{Email: "Someone <c@example.com>"},
		{Email: "c@example.com"},
	})
	require.Len(t, results, 3)

	for _, r := range results[:2] {
		assert.False(t, r.Success)
		assert.Equal(t, "email must be a valid email address", r.Error)
	}
	assert.True(t, results[2].Success)

	invs, err := f.invitations.List(context.Background(), f.interview.ID)
	require.NoError(t, err)
	assert.Len(t, invs, 1)
}
