package submission

import (
	"context"
	"time"
)

// ListFilter narrows admin listings.
type ListFilter struct {
	Status   *Status
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// Store is interface-driven to keep the domain logic testable and to allow
// swapping in-memory and Postgres persistence without rewiring business code.
type Store interface {
	// Create durably writes a new aggregate and assigns its InternalID
	// before returning. Returns sentinel.ErrUniqueViolation when the
	// business key already exists.
	Create(ctx context.Context, sub *Submission) error

	// Get loads an aggregate with its logs ordered by timestamp.
	// Returns sentinel.ErrNotFound when absent.
	Get(ctx context.Context, submissionID string) (*Submission, error)

	// Update persists the aggregate's mutable fields. Logs are not written
	// here; AppendLog owns the audit children.
	Update(ctx context.Context, sub *Submission) error

	// AppendLog durably writes one audit entry referencing the parent's
	// surrogate key. Returns sentinel.ErrForeignKey when the parent row
	// does not exist.
	AppendLog(ctx context.Context, internalID int64, entry AuditEntry) error

	// List returns a page of aggregates without logs plus the total count.
	List(ctx context.Context, filter ListFilter) ([]*Submission, int, error)

	// Delete removes the aggregate and its logs. Retention is an operator
	// concern; the workflow code never calls this.
	Delete(ctx context.Context, submissionID string) error
}
