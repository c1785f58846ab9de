package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Gren-95/uptime-kama/internal/checker"
	"github.com/Gren-95/uptime-kama/internal/models"
	"github.com/Gren-95/uptime-kama/internal/notifications"
	"github.com/Gren-95/uptime-kama/internal/storage"
)

// Server wires the HTTP surface to the repos and the scheduling core.
// Authentication is handled upstream; the caller is identified by the
// X-User-ID header.
type Server struct {
	Monitors  *storage.MonitorRepo
	Checks    *storage.CheckRepo
	Users     *storage.UserRepo
	Scheduler *checker.Scheduler
	Mailer    notifications.Mailer
	Log       *zap.Logger
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	http.Error(w, msg, status)
}

func userID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func monitorID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func validateMonitorURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("url required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.New("invalid url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errors.New("url must start with http:// or https://")
	}
	if u.Host == "" {
		return "", errors.New("invalid url")
	}

	return raw, nil
}

type monitorRequest struct {
	Name                 string `json:"name"`
	URL                  string `json:"url"`
	IntervalMinutes      int    `json:"interval_minutes"`
	NotificationsEnabled *bool  `json:"notifications_enabled"`
}

// GetMonitors godoc
// @Summary  List the caller's monitors
// @Produce  json
// @Success  200 {array} models.Monitor
// @Router   /monitors [get]
func (s *Server) GetMonitors(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid X-User-ID")
		return
	}

	monitors, err := s.Monitors.GetByUserID(uid)
	if err != nil {
		s.Log.Error("failed to list monitors", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list monitors")
		return
	}
	if monitors == nil {
		monitors = []models.Monitor{}
	}
	writeJSON(w, http.StatusOK, monitors)
}

// CreateMonitor godoc
// @Summary  Create a monitor and start its schedule
// @Accept   json
// @Produce  json
// @Success  201 {object} models.Monitor
// @Router   /monitors [post]
func (s *Server) CreateMonitor(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid X-User-ID")
		return
	}

	var body monitorRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	monitorURL, err := validateMonitorURL(body.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.IntervalMinutes <= 0 {
		body.IntervalMinutes = 5
	}
	notify := true
	if body.NotificationsEnabled != nil {
		notify = *body.NotificationsEnabled
	}

	monitor, err := s.Monitors.Add(uid, strings.TrimSpace(body.Name), monitorURL, body.IntervalMinutes, notify)
	if err != nil {
		s.Log.Error("failed to create monitor", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create monitor")
		return
	}

	s.Scheduler.Start(monitor.ID, time.Duration(monitor.IntervalMinutes)*time.Minute)

	writeJSON(w, http.StatusCreated, monitor)
}

// GetMonitor godoc
// @Summary  Fetch one monitor
// @Produce  json
// @Success  200 {object} models.Monitor
// @Router   /monitors/{id} [get]
func (s *Server) GetMonitor(w http.ResponseWriter, r *http.Request) {
	monitor, ok := s.ownedMonitor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, monitor)
}

// UpdateMonitor godoc
// @Summary  Edit a monitor, rescheduling if the interval changed
// @Accept   json
// @Produce  json
// @Success  200 {object} models.Monitor
// @Router   /monitors/{id} [put]
func (s *Server) UpdateMonitor(w http.ResponseWriter, r *http.Request) {
	monitor, ok := s.ownedMonitor(w, r)
	if !ok {
		return
	}

	var body monitorRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(body.Name)
	if name == "" {
		name = monitor.Name
	}
	monitorURL := monitor.URL
	if strings.TrimSpace(body.URL) != "" {
		validated, err := validateMonitorURL(body.URL)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		monitorURL = validated
	}
	interval := monitor.IntervalMinutes
	if body.IntervalMinutes > 0 {
		interval = body.IntervalMinutes
	}
	notify := monitor.NotificationsEnabled
	if body.NotificationsEnabled != nil {
		notify = *body.NotificationsEnabled
	}

	updated, err := s.Monitors.Update(monitor.ID, name, monitorURL, interval, notify)
	if err != nil {
		s.Log.Error("failed to update monitor", zap.Int64("monitor_id", monitor.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update monitor")
		return
	}

	if updated.IntervalMinutes != monitor.IntervalMinutes {
		s.Scheduler.Reschedule(updated.ID, time.Duration(updated.IntervalMinutes)*time.Minute)
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteMonitor godoc
// @Summary  Delete a monitor, its history, and its schedule
// @Success  204
// @Router   /monitors/{id} [delete]
func (s *Server) DeleteMonitor(w http.ResponseWriter, r *http.Request) {
	monitor, ok := s.ownedMonitor(w, r)
	if !ok {
		return
	}

	if err := s.Monitors.Delete(monitor.ID); err != nil {
		s.Log.Error("failed to delete monitor", zap.Int64("monitor_id", monitor.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete monitor")
		return
	}

	s.Scheduler.Stop(monitor.ID)

	w.WriteHeader(http.StatusNoContent)
}

// GetMonitorChecks godoc
// @Summary  List a monitor's check history, newest first
// @Produce  json
// @Success  200 {array} models.CheckRecord
// @Router   /monitors/{id}/checks [get]
func (s *Server) GetMonitorChecks(w http.ResponseWriter, r *http.Request) {
	monitor, ok := s.ownedMonitor(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := s.Checks.GetByMonitorID(monitor.ID, limit)
	if err != nil {
		s.Log.Error("failed to list checks", zap.Int64("monitor_id", monitor.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list checks")
		return
	}
	if records == nil {
		records = []models.CheckRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

type notificationSettingsRequest struct {
	Enabled           bool   `json:"enabled"`
	NotificationEmail string `json:"notification_email"`
}

// UpdateNotificationSettings godoc
// @Summary  Update the caller's global alerting preferences
// @Accept   json
// @Success  204
// @Router   /settings/notifications [put]
func (s *Server) UpdateNotificationSettings(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid X-User-ID")
		return
	}

	var body notificationSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.Users.SetNotificationPrefs(uid, body.Enabled, strings.TrimSpace(body.NotificationEmail)); err != nil {
		s.Log.Error("failed to update notification settings", zap.Int64("user_id", uid), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update settings")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SendTestEmail godoc
// @Summary  Send a test email to the caller's address
// @Success  200
// @Router   /test-email [post]
func (s *Server) SendTestEmail(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid X-User-ID")
		return
	}

	user, err := s.Users.GetByID(uid)
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	to := user.NotificationEmail
	if to == "" {
		to = user.Email
	}
	if err := s.Mailer.SendTestEmail(r.Context(), to); err != nil {
		s.Log.Error("failed to send test email", zap.Int64("user_id", uid), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to send test email")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "test email sent"})
}

// ownedMonitor loads the monitor from the URL and enforces ownership.
// On failure it writes the response and returns ok=false.
func (s *Server) ownedMonitor(w http.ResponseWriter, r *http.Request) (models.Monitor, bool) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid X-User-ID")
		return models.Monitor{}, false
	}
	id, ok := monitorID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid monitor id")
		return models.Monitor{}, false
	}

	monitor, err := s.Monitors.GetByID(id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "monitor not found")
		return models.Monitor{}, false
	}
	if err != nil {
		s.Log.Error("failed to load monitor", zap.Int64("monitor_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load monitor")
		return models.Monitor{}, false
	}
	if monitor.UserID != uid {
		writeError(w, http.StatusNotFound, "monitor not found")
		return models.Monitor{}, false
	}
	return monitor, true
}
