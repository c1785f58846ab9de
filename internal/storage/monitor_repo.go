package storage

import (
	"database/sql"
	"time"

	"github.com/Gren-95/uptime-kama/internal/models"
)

type MonitorRepo struct {
	db *sql.DB
}

func NewMonitorRepo(db *sql.DB) *MonitorRepo { return &MonitorRepo{db: db} }

const monitorColumns = `id, user_id, name, url, interval_minutes, notifications_enabled,
	status, response_time, status_code, error_message, last_check, created_at`

func (r *MonitorRepo) Add(userID int64, name, url string, intervalMinutes int, notificationsEnabled bool) (models.Monitor, error) {
	if intervalMinutes <= 0 {
		intervalMinutes = 5
	}

	notifyInt := 0
	if notificationsEnabled {
		notifyInt = 1
	}

	res, err := r.db.Exec(
		"INSERT INTO monitors(user_id, name, url, interval_minutes, notifications_enabled, status) VALUES(?, ?, ?, ?, ?, ?)",
		userID, name, url, intervalMinutes, notifyInt, string(models.StatusUnknown),
	)
	if err != nil {
		return models.Monitor{}, err
	}
	id, _ := res.LastInsertId()
	return r.GetByID(id)
}

func (r *MonitorRepo) GetByID(id int64) (models.Monitor, error) {
	row := r.db.QueryRow("SELECT "+monitorColumns+" FROM monitors WHERE id = ?", id)
	m, err := scanMonitor(row)
	if err == sql.ErrNoRows {
		return models.Monitor{}, ErrNotFound
	}
	return m, err
}

func (r *MonitorRepo) GetAll() ([]models.Monitor, error) {
	rows, err := r.db.Query("SELECT " + monitorColumns + " FROM monitors ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMonitors(rows)
}

func (r *MonitorRepo) GetByUserID(userID int64) ([]models.Monitor, error) {
	rows, err := r.db.Query("SELECT "+monitorColumns+" FROM monitors WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMonitors(rows)
}

func (r *MonitorRepo) Update(id int64, name, url string, intervalMinutes int, notificationsEnabled bool) (models.Monitor, error) {
	notifyInt := 0
	if notificationsEnabled {
		notifyInt = 1
	}

	_, err := r.db.Exec(
		"UPDATE monitors SET name = ?, url = ?, interval_minutes = ?, notifications_enabled = ? WHERE id = ?",
		name, url, intervalMinutes, notifyInt, id,
	)
	if err != nil {
		return models.Monitor{}, err
	}
	return r.GetByID(id)
}

// UpdateStatus writes all live-state fields in one statement and returns the
// number of rows affected. Zero means the monitor was deleted while a probe
// was in flight; callers use that as the existence check.
func (r *MonitorRepo) UpdateStatus(id int64, status models.Status, responseTime *int64, statusCode *int, errorMessage *string) (int64, error) {
	res, err := r.db.Exec(
		"UPDATE monitors SET status = ?, response_time = ?, status_code = ?, error_message = ?, last_check = ? WHERE id = ?",
		string(status), responseTime, statusCode, errorMessage, time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *MonitorRepo) Delete(id int64) error {
	res, err := r.db.Exec("DELETE FROM monitors WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMonitor(row rowScanner) (models.Monitor, error) {
	var (
		m            models.Monitor
		status       string
		notifyInt    int
		responseTime sql.NullInt64
		statusCode   sql.NullInt64
		errorMessage sql.NullString
		lastCheck    sql.NullString
		createdAt    string
	)
	err := row.Scan(&m.ID, &m.UserID, &m.Name, &m.URL, &m.IntervalMinutes, &notifyInt,
		&status, &responseTime, &statusCode, &errorMessage, &lastCheck, &createdAt)
	if err != nil {
		return models.Monitor{}, err
	}
	m.Status = models.Status(status)
	m.NotificationsEnabled = notifyInt == 1
	if responseTime.Valid {
		v := responseTime.Int64
		m.ResponseTime = &v
	}
	if statusCode.Valid {
		v := int(statusCode.Int64)
		m.StatusCode = &v
	}
	if errorMessage.Valid {
		v := errorMessage.String
		m.ErrorMessage = &v
	}
	if lastCheck.Valid {
		if t, err := parseTimestamp(lastCheck.String); err == nil {
			m.LastCheck = &t
		}
	}
	if t, err := parseTimestamp(createdAt); err == nil {
		m.CreatedAt = t
	}
	return m, nil
}

func collectMonitors(rows *sql.Rows) ([]models.Monitor, error) {
	var monitors []models.Monitor
	for rows.Next() {
		m, err := scanMonitor(rows)
		if err != nil {
			return nil, err
		}
		monitors = append(monitors, m)
	}
	return monitors, rows.Err()
}

// parseTimestamp accepts both RFC3339 strings written by the repos and the
// "YYYY-MM-DD HH:MM:SS" form sqlite's CURRENT_TIMESTAMP produces.
func parseTimestamp(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", raw)
}
