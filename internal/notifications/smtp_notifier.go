package notifications

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"
)

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// SMTPNotifier sends the password-reset email through a plain SMTP
// relay. Callers should wrap it in a ProtectedNotifier so a slow or
// down relay cannot stall the request path.
type SMTPNotifier struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, send: smtp.SendMail}
}

func (n *SMTPNotifier) SendPasswordReset(ctx context.Context, in SendPasswordResetInput) error {
	if n.cfg.Host == "" {
		return fmt.Errorf("smtp host not configured")
	}

	var auth smtp.Auth
	if n.cfg.User != "" {
		auth = smtp.PlainAuth("", n.cfg.User, n.cfg.Pass, n.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	msg := buildResetMessage(n.cfg.From, in)

	// net/smtp has no context support; run the send in a goroutine so
	// a cancelled request is not pinned to a hanging relay.
	done := make(chan error, 1)

	go func() {
		done <- n.send(addr, auth, n.cfg.From, []string{in.Email}, msg)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func buildResetMessage(from string, in SendPasswordResetInput) []byte {
	var b strings.Builder

	minutes := int(time.Until(in.ExpiresAt).Minutes())
	if minutes < 1 {
		minutes = 1
	}

	fmt.Fprintf(&b, "From: \"SANAD\" <%s>\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", in.Email)
	b.WriteString("Subject: Password Reset Request - SANAD\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString("You requested to reset your password for your SANAD account.\r\n\r\n")
	b.WriteString("Click the following link to reset your password:\r\n")
	b.WriteString(in.ResetLink + "\r\n\r\n")
	fmt.Fprintf(&b, "This link will expire in %d minutes.\r\n\r\n", minutes)
	b.WriteString("If you didn't request this password reset, please ignore this email.\r\n")

	return []byte(b.String())
}
