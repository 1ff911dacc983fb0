// Package smtp provides an email notifier for poll rounds that found
// new or changed documents.
package smtp

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
	"github.com/custodia-labs/lexwatch/internal/core/ports/driven"
	"github.com/custodia-labs/lexwatch/internal/logger"
)

// Ensure Notifier implements the interface.
var _ driven.Notifier = (*Notifier)(nil)

// Config holds SMTP delivery settings.
type Config struct {
	// Host is the SMTP server hostname (required).
	Host string

	// Port is the SMTP server port (default: 587).
	Port int

	// Username and Password enable PLAIN auth when both are set.
	Username string
	Password string

	// From is the sender address (required).
	From string

	// To are the recipient addresses (required).
	To []string
}

// Notifier sends a plain-text email per poll round with updates.
type Notifier struct {
	cfg Config

	// send is the delivery function; swapped out in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewNotifier creates an SMTP notifier.
func NewNotifier(cfg Config) (*Notifier, error) {
	if cfg.Host == "" || cfg.From == "" || len(cfg.To) == 0 {
		return nil, fmt.Errorf("smtp: host, from and to are required: %w", domain.ErrInvalidInput)
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &Notifier{cfg: cfg, send: smtp.SendMail}, nil
}

// NotifyRun emails a summary of one poll round's updates.
func (n *Notifier) NotifyRun(_ context.Context, report domain.RunReport, changed []domain.Identity) error {
	msg := buildMessage(n.cfg.From, n.cfg.To, report, changed)

	var auth smtp.Auth
	if n.cfg.Username != "" && n.cfg.Password != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	addr := net.JoinHostPort(n.cfg.Host, fmt.Sprintf("%d", n.cfg.Port))
	if err := n.send(addr, auth, n.cfg.From, n.cfg.To, msg); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	logger.Info("Change notification sent to %d recipient(s)", len(n.cfg.To))
	return nil
}

// buildMessage renders the RFC 5322 message for one round.
func buildMessage(from string, to []string, report domain.RunReport, changed []domain.Identity) []byte {
	var sb strings.Builder

	fmt.Fprintf(&sb, "From: %s\r\n", from)
	fmt.Fprintf(&sb, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&sb, "Subject: Document watch: %d new, %d changed\r\n", report.New, report.Changed)
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	sb.WriteString("\r\n")

	fmt.Fprintf(&sb, "Poll round %s finished at %s.\r\n\r\n",
		report.ID, report.EndedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "New: %d, changed: %d, unchanged: %d, errors: %d.\r\n\r\n",
		report.New, report.Changed, report.Unchanged, report.Errors)

	if len(changed) > 0 {
		sb.WriteString("Updated documents:\r\n")
		for _, id := range changed {
			fmt.Fprintf(&sb, "  - %s (%s)\r\n", id.Name, id.Origin)
		}
	}

	return []byte(sb.String())
}
