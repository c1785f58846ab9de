package checker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Gren-95/uptime-kama/internal/models"
	"github.com/Gren-95/uptime-kama/internal/notifications"
)

// Notifier emails the monitor's owner when a recorded check crosses an
// up/down edge. It never re-alerts on repeated failures and never
// propagates delivery failures into the check pipeline.
type Notifier struct {
	users  UserStore
	mailer notifications.Mailer
	log    *zap.Logger
}

func NewNotifier(users UserStore, mailer notifications.Mailer, log *zap.Logger) *Notifier {
	return &Notifier{users: users, mailer: mailer, log: log}
}

// HandleTransition compares the status persisted before the probe with the
// one just recorded and sends at most one alert. Gating short-circuits in
// order: edge crossed, owner exists, owner global toggle, monitor toggle,
// destination address resolvable.
func (n *Notifier) HandleTransition(ctx context.Context, monitor models.Monitor, previous models.Status, outcome Outcome) {
	if previous == outcome.Status {
		return
	}
	if previous == models.StatusUnknown {
		// First observation establishes the baseline, not a change.
		return
	}

	fields := []zap.Field{
		zap.Int64("monitor_id", monitor.ID),
		zap.String("monitor", monitor.Name),
		zap.String("previous", string(previous)),
		zap.String("status", string(outcome.Status)),
	}

	user, err := n.users.GetByID(monitor.UserID)
	if err != nil {
		n.log.Warn("no owner account for monitor, skipping alert", fields...)
		return
	}
	if !user.NotificationsEnabled {
		n.log.Debug("owner notifications disabled, skipping alert", fields...)
		return
	}
	if !monitor.NotificationsEnabled {
		n.log.Debug("monitor notifications disabled, skipping alert", fields...)
		return
	}

	to := user.NotificationEmail
	if to == "" {
		to = user.Email
	}
	if to == "" {
		n.log.Warn("no destination address for owner, skipping alert", fields...)
		return
	}

	responseTime := outcome.ResponseTime
	alert := notifications.AlertMessage{
		MonitorName:  monitor.Name,
		MonitorURL:   monitor.URL,
		Status:       outcome.Status,
		ResponseTime: &responseTime,
		ErrorMessage: outcome.ErrorMessage,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}

	if err := n.mailer.SendMonitorAlert(ctx, to, alert); err != nil {
		n.log.Error("failed to send alert email", append(fields, zap.Error(err))...)
		return
	}
	n.log.Info("alert email sent", append(fields, zap.String("to", to))...)
}
