package notifier

import (
	"context"
	"log/slog"
)

// LogNotifier writes would-be emails to the log instead of sending them.
// Used when SMTP is not configured so local development can exercise the
// full workflow, verification codes included.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendVerificationToken(ctx context.Context, email, token, submissionID string) bool {
	n.logger.InfoContext(ctx, "verification token (smtp disabled)",
		"to", email, "token", token, "submission_id", submissionID)
	return true
}

func (n *LogNotifier) SendConfirmation(ctx context.Context, email, submissionID string, document []byte, fileName string) bool {
	n.logger.InfoContext(ctx, "confirmation email (smtp disabled)",
		"to", email, "submission_id", submissionID, "file", fileName, "bytes", len(document))
	return true
}

func (n *LogNotifier) SendToOperations(ctx context.Context, submissionID string, document []byte, fileName string, submitterEmail string) bool {
	n.logger.InfoContext(ctx, "operations email (smtp disabled)",
		"submission_id", submissionID, "applicant", submitterEmail, "file", fileName, "bytes", len(document))
	return true
}

var _ Notifier = (*LogNotifier)(nil)
