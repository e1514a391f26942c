package notifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	gomail "gopkg.in/gomail.v2"
)

// SMTPConfig holds the connection and addressing settings for the SMTP
// notifier.
type SMTPConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	From            string
	FromName        string
	OperationsEmail string
	// TokenTTL is quoted in the verification email body.
	TokenTTL time.Duration
}

// SMTPNotifier sends email over SMTP. Each send dials a fresh connection;
// volume is low enough that connection reuse is not worth the state.
type SMTPNotifier struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

func NewSMTPNotifier(cfg SMTPConfig, logger *slog.Logger) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, logger: logger}
}

func (n *SMTPNotifier) SendVerificationToken(ctx context.Context, email, token, submissionID string) bool {
	subject := "Your application verification code"
	html := fmt.Sprintf(`<html><body>
<h2>Verification Code</h2>
<p>Your verification code for the accommodation application form is:</p>
<h1 style="font-family: monospace; letter-spacing: 2px;">%s</h1>
<p>This code will expire in <strong>%d minutes</strong>.</p>
<p>If you did not request this code, please ignore this email.</p>
</body></html>`, token, int(n.cfg.TokenTTL.Minutes()))

	return n.send(ctx, email, subject, html, nil, "")
}

func (n *SMTPNotifier) SendConfirmation(ctx context.Context, email, submissionID string, document []byte, fileName string) bool {
	subject := "Accommodation application received"
	html := fmt.Sprintf(`<html><body>
<p>Thank you for submitting your accommodation application form.</p>
<p>Your application has been received and is being processed. You will receive
a response within 2-3 business days.</p>
<p>Reference: %s</p>
<p>Your completed application form is attached for your records.</p>
</body></html>`, submissionID)

	return n.send(ctx, email, subject, html, document, fileName)
}

func (n *SMTPNotifier) SendToOperations(ctx context.Context, submissionID string, document []byte, fileName string, submitterEmail string) bool {
	if n.cfg.OperationsEmail == "" {
		n.logger.WarnContext(ctx, "operations email not configured, skipping operations copy",
			"submission_id", submissionID)
		return false
	}

	subject := fmt.Sprintf("New accommodation application: %s", submitterEmail)
	html := fmt.Sprintf(`<html><body>
<p>A new accommodation application has been submitted.</p>
<p>Applicant email: %s</p>
<p>Reference: %s</p>
<p>The completed application form is attached.</p>
</body></html>`, submitterEmail, submissionID)

	return n.send(ctx, n.cfg.OperationsEmail, subject, html, document, fileName)
}

func (n *SMTPNotifier) send(ctx context.Context, to, subject, html string, attachment []byte, attachmentName string) bool {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", n.cfg.From, n.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	if len(attachment) > 0 {
		m.Attach(attachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := io.Copy(w, bytes.NewReader(attachment))
			return err
		}))
	}

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.Username, n.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		n.logger.ErrorContext(ctx, "email send failed",
			"to", to,
			"subject", subject,
			"error", err,
		)
		return false
	}
	return true
}

var _ Notifier = (*SMTPNotifier)(nil)
