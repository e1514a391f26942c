package submission

import (
	"encoding/json"
	"time"

	"applyform/pkg/platform/sentinel"
)

// Status encodes the submission lifecycle stage. The integer values are a
// stable wire contract with clients and must not be reordered.
type Status int

const (
	StatusDraft         Status = 0
	StatusEmailSent     Status = 1
	StatusEmailVerified Status = 2
	StatusSubmitted     Status = 3
	StatusPdfGenerated  Status = 4
	StatusCompleted     Status = 5
	StatusFailed        Status = 6
)

func (s Status) String() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusEmailSent:
		return "EmailSent"
	case StatusEmailVerified:
		return "EmailVerified"
	case StatusSubmitted:
		return "Submitted"
	case StatusPdfGenerated:
		return "PdfGenerated"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the lifecycle has ended for this status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// AuditEntry is one immutable, timestamped record of an action taken against
// a submission. Entries are only ever appended.
type AuditEntry struct {
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// Submission is the aggregate root for one accommodation-form application.
//
// SubmissionID is the business key and the only externally visible
// identifier. InternalID is the storage-assigned surrogate key, valid only
// after the first durable write; audit entries reference it, which is why
// nothing may append a log before Create completes.
type Submission struct {
	SubmissionID string
	InternalID   int64

	UserEmail string

	FormSnapshot    json.RawMessage
	ClientIP        string
	RequestMetadata string

	Status        Status
	EmailVerified bool

	VerificationToken     string
	VerificationAttempts  int
	VerificationSentAt    *time.Time
	VerificationExpiresAt *time.Time

	DocumentFileName   string
	DocumentStorageURL string

	CreatedAt time.Time
	UpdatedAt time.Time

	Logs []AuditEntry
}

// IssueToken replaces any prior verification token; the old one is
// invalidated wholesale, attempts reset.
func (s *Submission) IssueToken(token string, sentAt, expiresAt time.Time) {
	s.VerificationToken = token
	s.VerificationAttempts = 0
	s.VerificationSentAt = &sentAt
	s.VerificationExpiresAt = &expiresAt
}

// ApplyVerification clears the token and marks the email verified. The
// caller has already validated the candidate token.
func (s *Submission) ApplyVerification() {
	s.VerificationToken = ""
	s.VerificationExpiresAt = nil
	s.EmailVerified = true
}

// AttachSnapshot writes the write-once submit-time fields.
func (s *Submission) AttachSnapshot(snapshot json.RawMessage, clientIP, requestMetadata string) error {
	if len(s.FormSnapshot) != 0 {
		return sentinel.ErrInvalidState
	}
	s.FormSnapshot = snapshot
	s.ClientIP = clientIP
	s.RequestMetadata = requestMetadata
	return nil
}

// AttachDocument records the rendered document's file name, write-once.
func (s *Submission) AttachDocument(fileName string) error {
	if s.DocumentFileName != "" {
		return sentinel.ErrInvalidState
	}
	s.DocumentFileName = fileName
	return nil
}

// AttachStorageURL records the uploaded document's URL, write-once.
func (s *Submission) AttachStorageURL(url string) error {
	if s.DocumentStorageURL != "" {
		return sentinel.ErrInvalidState
	}
	s.DocumentStorageURL = url
	return nil
}
