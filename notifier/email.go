package notifier

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"price-monitor/config"
	"price-monitor/utils"
)

// SMTPNotifier sends the alert report as an HTML email.
type SMTPNotifier struct {
	host     string
	port     string
	user     string
	password string
	from     string
	to       string

	logger *utils.Logger
	retry  *utils.RetryConfig
}

// NewSMTPNotifier creates a notifier from the SMTP settings in cfg.
func NewSMTPNotifier(cfg *config.Config, logger *utils.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
		to:       cfg.SMTPTo,
		logger:   logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Notify sends the rendered report with the given subject, retrying
// transient failures with back-off.
func (n *SMTPNotifier) Notify(subject, htmlBody string) error {
	if n.to == "" || n.from == "" {
		return fmt.Errorf("smtp: sender or recipient not configured")
	}

	msg := n.buildMessage(subject, htmlBody)
	addr := n.host + ":" + n.port
	auth := smtp.PlainAuth("", n.user, n.password, n.host)

	return n.retry.Do("smtp send", func() error {
		return smtp.SendMail(addr, auth, n.from, []string{n.to}, msg)
	})
}

func (n *SMTPNotifier) buildMessage(subject, htmlBody string) []byte {
	var b strings.Builder
	b.WriteString("From: " + n.from + "\r\n")
	b.WriteString("To: " + n.to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
