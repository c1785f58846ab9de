package models

import "time"

// Status is a monitor's observed state. A monitor starts as unknown and
// flips between up and down as probes complete.
type Status string

const (
	StatusUnknown Status = "unknown"
	StatusUp      Status = "up"
	StatusDown    Status = "down"
)

type User struct {
	ID                   int64  `json:"id" example:"1"`
	Email                string `json:"email" example:"user@example.com"`
	NotificationEmail    string `json:"notification_email,omitempty" example:"alerts@example.com"`
	NotificationsEnabled bool   `json:"notifications_enabled" example:"true"`
}

// Monitor is a user-owned probe target. The live-state fields (Status,
// ResponseTime, StatusCode, ErrorMessage, LastCheck) are only ever written
// together, from the outcome of a single probe.
type Monitor struct {
	ID                   int64      `json:"id" example:"1"`
	UserID               int64      `json:"user_id" example:"1"`
	Name                 string     `json:"name" example:"My Website"`
	URL                  string     `json:"url" example:"https://example.com"`
	IntervalMinutes      int        `json:"interval_minutes" example:"5"`
	NotificationsEnabled bool       `json:"notifications_enabled" example:"true"`
	Status               Status     `json:"status" example:"up"`
	ResponseTime         *int64     `json:"response_time,omitempty" example:"150"`
	StatusCode           *int       `json:"status_code,omitempty" example:"200"`
	ErrorMessage         *string    `json:"error_message,omitempty"`
	LastCheck            *time.Time `json:"last_check,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

// CheckRecord is one probe outcome in a monitor's append-only history.
type CheckRecord struct {
	ID           int64     `json:"id" example:"1"`
	MonitorID    int64     `json:"monitor_id" example:"1"`
	Status       Status    `json:"status" example:"up"`
	ResponseTime *int64    `json:"response_time,omitempty" example:"150"`
	StatusCode   *int      `json:"status_code,omitempty" example:"200"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	CheckedAt    time.Time `json:"checked_at"`
}
