package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"go.uber.org/zap"

	"github.com/Gren-95/uptime-kama/internal/models"
)

// AlertMessage carries everything a monitor alert email needs.
type AlertMessage struct {
	MonitorName  string
	MonitorURL   string
	Status       models.Status
	ResponseTime *int64
	ErrorMessage *string
	Timestamp    string // ISO-8601
}

// Mailer is the outbound email capability consumed by the check pipeline.
// Implementations may fail; callers are expected to catch and log.
type Mailer interface {
	SendMonitorAlert(ctx context.Context, to string, alert AlertMessage) error
	SendTestEmail(ctx context.Context, to string) error
}

// MailgunMailer sends email through the Mailgun API.
type MailgunMailer struct {
	mg   *mailgun.MailgunImpl
	from string
}

func NewMailgunMailer(domain, apiKey, from string) *MailgunMailer {
	if from == "" {
		from = "noreply@" + domain
	}
	return &MailgunMailer{
		mg:   mailgun.NewMailgun(domain, apiKey),
		from: from,
	}
}

func (m *MailgunMailer) SendMonitorAlert(ctx context.Context, to string, alert AlertMessage) error {
	subject := alertSubject(alert)
	msg := m.mg.NewMessage(m.from, subject, formatAlertText(alert), to)
	msg.SetHtml(formatAlertHTML(alert))

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, _, err := m.mg.Send(ctx, msg); err != nil {
		return fmt.Errorf("send monitor alert: %w", err)
	}
	return nil
}

func (m *MailgunMailer) SendTestEmail(ctx context.Context, to string) error {
	subject := "Uptime Kama - Email Notifications Test"
	text := "This is a test email from Uptime Kama to confirm that email notifications are working correctly.\n" +
		"If you received this email, your notification settings are configured properly."
	msg := m.mg.NewMessage(m.from, subject, text, to)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, _, err := m.mg.Send(ctx, msg); err != nil {
		return fmt.Errorf("send test email: %w", err)
	}
	return nil
}

// LogMailer is the development stand-in used when Mailgun is not configured.
// It logs what would have been sent instead of delivering anything.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer { return &LogMailer{log: log} }

func (m *LogMailer) SendMonitorAlert(_ context.Context, to string, alert AlertMessage) error {
	m.log.Info("mock email: monitor alert",
		zap.String("to", to),
		zap.String("subject", alertSubject(alert)),
		zap.String("body", formatAlertText(alert)),
	)
	return nil
}

func (m *LogMailer) SendTestEmail(_ context.Context, to string) error {
	m.log.Info("mock email: test email", zap.String("to", to))
	return nil
}

func alertSubject(alert AlertMessage) string {
	return fmt.Sprintf("%s is %s", alert.MonitorName, strings.ToUpper(string(alert.Status)))
}

func formatAlertText(alert AlertMessage) string {
	text := fmt.Sprintf("Monitor Alert - %s\n\n", alert.MonitorName)
	text += fmt.Sprintf("Status: %s\n", strings.ToUpper(string(alert.Status)))
	text += fmt.Sprintf("URL: %s\n", alert.MonitorURL)
	if alert.ResponseTime != nil {
		text += fmt.Sprintf("Response Time: %dms\n", *alert.ResponseTime)
	}
	if alert.ErrorMessage != nil {
		text += fmt.Sprintf("Error: %s\n", *alert.ErrorMessage)
	}
	text += fmt.Sprintf("Timestamp: %s\n\n", alert.Timestamp)

	if alert.Status == models.StatusDown {
		text += "Your monitor is currently down. We will continue checking and notify you when it recovers."
	} else {
		text += "Your monitor has recovered and is now up!"
	}
	return text
}

func formatAlertHTML(alert AlertMessage) string {
	color := "#28a745"
	if alert.Status == models.StatusDown {
		color = "#dc3545"
	}

	html := "<html><body>"
	html += fmt.Sprintf("<h2>Monitor Alert - %s</h2>", alert.MonitorName)
	html += fmt.Sprintf("<p><strong>Status:</strong> <span style=\"color:%s\">%s</span></p>", color, strings.ToUpper(string(alert.Status)))
	html += fmt.Sprintf("<p><strong>URL:</strong> <a href=\"%s\">%s</a></p>", alert.MonitorURL, alert.MonitorURL)
	if alert.ResponseTime != nil {
		html += fmt.Sprintf("<p><strong>Response Time:</strong> %dms</p>", *alert.ResponseTime)
	}
	if alert.ErrorMessage != nil {
		html += fmt.Sprintf("<p><strong>Error:</strong> %s</p>", *alert.ErrorMessage)
	}
	html += fmt.Sprintf("<p><strong>Timestamp:</strong> %s</p>", alert.Timestamp)
	if alert.Status == models.StatusDown {
		html += "<p>Your monitor is currently down. We will continue checking and notify you when it recovers.</p>"
	} else {
		html += "<p>Your monitor has recovered and is now up!</p>"
	}
	html += "</body></html>"
	return html
}
