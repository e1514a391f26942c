package submission

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applyform/pkg/platform/sentinel"
)

func TestIssueTokenReplacesPriorToken(t *testing.T) {
	sub := &Submission{}
	sent := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	sub.IssueToken("111111", sent, sent.Add(10*time.Minute))
	sub.VerificationAttempts = 3

	later := sent.Add(time.Hour)
	sub.IssueToken("222222", later, later.Add(10*time.Minute))

	assert.Equal(t, "222222", sub.VerificationToken)
	assert.Zero(t, sub.VerificationAttempts)
	assert.Equal(t, later, *sub.VerificationSentAt)
	assert.Equal(t, later.Add(10*time.Minute), *sub.VerificationExpiresAt)
}

func TestApplyVerificationClearsToken(t *testing.T) {
	sent := time.Now()
	sub := &Submission{}
	sub.IssueToken("111111", sent, sent.Add(time.Minute))

	sub.ApplyVerification()

	assert.True(t, sub.EmailVerified)
	assert.Empty(t, sub.VerificationToken)
	assert.Nil(t, sub.VerificationExpiresAt)
}

func TestWriteOnceFields(t *testing.T) {
	sub := &Submission{}

	require.NoError(t, sub.AttachSnapshot(json.RawMessage(`{"a":1}`), "203.0.113.9", "Firefox 140 (Linux)"))
	err := sub.AttachSnapshot(json.RawMessage(`{"a":2}`), "other", "other")
	require.ErrorIs(t, err, sentinel.ErrInvalidState)
	assert.JSONEq(t, `{"a":1}`, string(sub.FormSnapshot))
	assert.Equal(t, "203.0.113.9", sub.ClientIP)

	require.NoError(t, sub.AttachDocument("Jane_Doe_Application_Form_100320260930.pdf"))
	require.ErrorIs(t, sub.AttachDocument("other.pdf"), sentinel.ErrInvalidState)

	require.NoError(t, sub.AttachStorageURL("file:///docs/a.pdf"))
	require.ErrorIs(t, sub.AttachStorageURL("file:///docs/b.pdf"), sentinel.ErrInvalidState)
	assert.Equal(t, "file:///docs/a.pdf", sub.DocumentStorageURL)
}
