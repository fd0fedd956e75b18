package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mogaaruf1/somali-student-hub/internal/config"

	"gopkg.in/gomail.v2"
)

// SMTPNotifier sends the enrollment notification as a real email. It is a
// drop-in replacement for LogNotifier; the caller contract is identical.
type SMTPNotifier struct {
	cfg    config.SMTPConfig
	logger *slog.Logger
}

func NewSMTPNotifier(cfg config.SMTPConfig, logger *slog.Logger) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, logger: logger}
}

func (s *SMTPNotifier) Send(ctx context.Context, n Notification) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", n.StudentEmail)
	m.SetHeader("Subject", fmt.Sprintf("Is-diiwaangelin: %s", n.ResourceTitle))
	m.SetBody("text/html", fmt.Sprintf(
		"<p>Hambalyo %s!</p><p>Is-diiwaangelintaada koorsada <b>%s</b> waa la helay. Waxaad hadda ku jirtaa liiska sugitaanka.</p>",
		n.StudentName, n.ResourceTitle,
	))

	dialer := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	// gomail has no context support; honour cancellation around the dial.
	done := make(chan error, 1)
	go func() {
		done <- dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send failed: %w", err)
		}
		s.logger.InfoContext(ctx, "notification email sent", "to", n.StudentEmail)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
