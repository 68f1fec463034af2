package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("a@example.com"))
	assert.True(t, ValidEmail("  a@example.com "))
	assert.False(t, ValidEmail(""))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("Someone <a@example.com>"))
	assert.False(t, ValidEmail("<a@example.com>"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@example.com", NormalizeEmail(" A@Example.com "))
	assert.Equal(t, "a@example.com", NormalizeEmail("Someone <A@example.com>"))
	assert.Equal(t, "", NormalizeEmail("  "))
}

func TestSubmitAnswersRequest_RejectsDisplayName(t *testing.T) {
	req := &SubmitAnswersRequest{Email: "Someone <a@example.com>"}
	err := req.Validate()
	require.Error(t, err)
	var resp *ErrorResponse
	require.True(t, errors.As(err, &resp))
	assert.Equal(t, "validation_error", resp.Code)
	assert.Equal(t, "email", resp.Details[0].Field)

	assert.NoError(t, (&SubmitAnswersRequest{Email: "a@example.com"}).Validate())
}

func TestSendInvitationsRequest_ChecksEveryAddress(t *testing.T) {
	ok := &SendInvitationsRequest{
		InterviewID: "iv-1",
		Candidates:  []CandidateInput{{Email: "a@example.com", Name: "A"}},
		Emails:      []string{"b@example.com"},
	}
	assert.NoError(t, ok.Validate())

	badCandidate := &SendInvitationsRequest{
		InterviewID: "iv-1",
		Candidates:  []CandidateInput{{Email: "Someone <a@example.com>"}},
	}
	err := badCandidate.Validate()
	var resp *ErrorResponse
	require.True(t, errors.As(err, &resp))
	assert.Equal(t, "candidates", resp.Details[0].Field)

	badEmail := &SendInvitationsRequest{InterviewID: "iv-1", Emails: []string{"nope"}}
	err = badEmail.Validate()
	require.True(t, errors.As(err, &resp))
	assert.Equal(t, "emails", resp.Details[0].Field)
}
