package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailNotifier delivers notifications over SMTP.
type EmailNotifier struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailNotifier(host string, port int, username, password, from string) *EmailNotifier {
	return &EmailNotifier{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendEmail sends a message with a plain-text body and an optional HTML
// alternative. gomail has no context support, so the send runs in a
// goroutine and the context deadline is enforced here; an abandoned dial
// finishes (and is discarded) in the background.
func (e *EmailNotifier) SendEmail(ctx context.Context, to, subject, textBody, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	if htmlBody != "" {
		m.AddAlternative("text/html", htmlBody)
	}

	done := make(chan error, 1)
	go func() {
		done <- e.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
