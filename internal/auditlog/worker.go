package auditlog

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from a channel and hands them to a sink. A
// sink failure is logged and the event dropped; the store-backed trail is
// the source of truth, so fan-out never retries or blocks.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Publish(ctx, event); err != nil {
				w.logger.Error("audit event publish failed",
					"submission_id", event.SubmissionID,
					"action", event.Action,
					"error", err,
				)
			}
		}
	}
}
