package notifications

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"squeeze/internal/config"
)

// Service defines the notification surface exposed to the batch orchestrator.
type Service interface {
	NotifyRunStarted(ctx context.Context, fileCount int) error
	NotifyRunCompleted(ctx context.Context, outcome RunOutcome) error
	TestNotification(ctx context.Context) error
}

// RunOutcome carries the figures a completion email reports.
type RunOutcome struct {
	Processed  int
	Succeeded  int
	Failed     int
	Skipped    int
	BytesSaved int64
	Duration   time.Duration
}

// sendMail is swapped out in tests so no real SMTP connection is made.
var sendMail = smtp.SendMail

// NewService builds an email notification service when notifications are
// enabled in configuration, and a noop implementation otherwise.
func NewService(cfg *config.Config) Service {
	if !cfg.Notifications.Enabled {
		return noopService{}
	}
	return &mailService{
		addr: net.JoinHostPort(cfg.Notifications.SMTPHost, fmt.Sprintf("%d", cfg.Notifications.SMTPPort)),
		from: cfg.Notifications.FromAddress,
		to:   cfg.Notifications.ToAddress,
	}
}

type mailService struct {
	addr string
	from string
	to   string
}

func (m *mailService) NotifyRunStarted(ctx context.Context, fileCount int) error {
	noun := "files"
	if fileCount == 1 {
		noun = "file"
	}
	return m.send(ctx, "Squeeze - Run Started",
		fmt.Sprintf("Optimization run started: %d %s queued.", fileCount, noun))
}

func (m *mailService) NotifyRunCompleted(ctx context.Context, outcome RunOutcome) error {
	lines := []string{
		"Optimization run completed.",
		"",
		fmt.Sprintf("Files processed: %d", outcome.Processed),
		fmt.Sprintf("Succeeded: %d", outcome.Succeeded),
		fmt.Sprintf("Failed: %d", outcome.Failed),
		fmt.Sprintf("Skipped: %d", outcome.Skipped),
		fmt.Sprintf("Space saved: %s", formatBytes(outcome.BytesSaved)),
		fmt.Sprintf("Total time: %s", outcome.Duration.Round(time.Second)),
	}
	subject := "Squeeze - Run Completed"
	if outcome.Failed > 0 {
		subject = fmt.Sprintf("Squeeze - Run Completed (%d failed)", outcome.Failed)
	}
	return m.send(ctx, subject, strings.Join(lines, "\r\n"))
}

func (m *mailService) TestNotification(ctx context.Context) error {
	return m.send(ctx, "Squeeze - Test Notification",
		"Notification delivery is configured correctly.")
}

func (m *mailService) send(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + m.to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
		"",
	}, "\r\n")
	if err := sendMail(m.addr, nil, m.from, []string{m.to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail via %s: %w", m.addr, err)
	}
	return nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit && n > -unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	abs := n
	if abs < 0 {
		abs = -abs
	}
	for v := abs / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

type noopService struct{}

func (noopService) NotifyRunStarted(context.Context, int) error          { return nil }
func (noopService) NotifyRunCompleted(context.Context, RunOutcome) error { return nil }
func (noopService) TestNotification(context.Context) error               { return nil }
