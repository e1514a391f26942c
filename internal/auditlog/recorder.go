// Package auditlog appends immutable action records to a submission's trail
// and fans them out as events for observability consumers.
package auditlog

import (
	"context"
	"log/slog"
	"time"

	"applyform/internal/submission"
	"applyform/pkg/requestcontext"
)

// Event is the transport-agnostic shape fanned out to sinks (Kafka). The
// store-backed trail on the submission row is the source of truth; events
// are best-effort.
type Event struct {
	SubmissionID string    `json:"submission_id"`
	Action       string    `json:"action"`
	Details      string    `json:"details"`
	Timestamp    time.Time `json:"timestamp"`
	RequestID    string    `json:"request_id,omitempty"`
}

// Recorder writes audit entries through the submission store. Append is
// deliberately non-failing from the orchestrator's point of view: a broken
// audit write is logged loudly but never masks or aborts the workflow that
// produced it.
type Recorder struct {
	store  submission.Store
	logger *slog.Logger
	events chan<- Event
}

// NewRecorder builds a Recorder. events may be nil when fan-out is not
// configured.
func NewRecorder(store submission.Store, logger *slog.Logger, events chan<- Event) *Recorder {
	return &Recorder{store: store, logger: logger, events: events}
}

// Append durably writes one entry and mirrors it onto the aggregate's Logs.
//
// The parent-before-child guard: audit rows reference the storage surrogate
// key, so appending before the parent's create has completed would violate
// referential integrity. A zero InternalID means exactly that, and the entry
// is refused.
func (r *Recorder) Append(ctx context.Context, sub *submission.Submission, action, details string) {
	if sub.InternalID == 0 {
		r.logger.ErrorContext(ctx, "audit entry refused: parent submission has no surrogate key",
			"submission_id", sub.SubmissionID,
			"action", action,
		)
		return
	}

	entry := submission.AuditEntry{
		Action:    action,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}

	if err := r.store.AppendLog(ctx, sub.InternalID, entry); err != nil {
		r.logger.ErrorContext(ctx, "audit entry write failed",
			"submission_id", sub.SubmissionID,
			"action", action,
			"error", err,
		)
		return
	}

	sub.Logs = append(sub.Logs, entry)
	r.emit(ctx, sub.SubmissionID, entry)
}

// emit hands the event to the fan-out worker without ever blocking the
// pipeline; a full buffer drops the event with a log line.
func (r *Recorder) emit(ctx context.Context, submissionID string, entry submission.AuditEntry) {
	if r.events == nil {
		return
	}

	event := Event{
		SubmissionID: submissionID,
		Action:       entry.Action,
		Details:      entry.Details,
		Timestamp:    entry.Timestamp,
		RequestID:    requestcontext.RequestID(ctx),
	}

	select {
	case r.events <- event:
	default:
		r.logger.WarnContext(ctx, "audit event dropped: fan-out buffer full",
			"submission_id", submissionID,
			"action", entry.Action,
		)
	}
}
