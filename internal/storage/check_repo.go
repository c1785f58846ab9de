package storage

import (
	"database/sql"
	"time"

	"github.com/Gren-95/uptime-kama/internal/models"
)

// CheckRepo persists a monitor's append-only probe history. Rows are never
// updated or deleted here; they go away only via the monitors cascade.
type CheckRepo struct {
	db *sql.DB
}

func NewCheckRepo(db *sql.DB) *CheckRepo { return &CheckRepo{db: db} }

func (r *CheckRepo) Add(monitorID int64, status models.Status, responseTime *int64, statusCode *int, errorMessage *string) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO monitor_checks(monitor_id, status, response_time, status_code, error_message, checked_at)
		VALUES(?, ?, ?, ?, ?, ?)
	`, monitorID, string(status), responseTime, statusCode, errorMessage, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *CheckRepo) GetByMonitorID(monitorID int64, limit int) ([]models.CheckRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(`
		SELECT id, monitor_id, status, response_time, status_code, error_message, checked_at
		FROM monitor_checks
		WHERE monitor_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, monitorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.CheckRecord
	for rows.Next() {
		var (
			rec          models.CheckRecord
			status       string
			responseTime sql.NullInt64
			statusCode   sql.NullInt64
			errorMessage sql.NullString
			checkedAt    string
		)
		if err := rows.Scan(&rec.ID, &rec.MonitorID, &status, &responseTime, &statusCode, &errorMessage, &checkedAt); err != nil {
			return nil, err
		}
		rec.Status = models.Status(status)
		if responseTime.Valid {
			v := responseTime.Int64
			rec.ResponseTime = &v
		}
		if statusCode.Valid {
			v := int(statusCode.Int64)
			rec.StatusCode = &v
		}
		if errorMessage.Valid {
			v := errorMessage.String
			rec.ErrorMessage = &v
		}
		if t, err := parseTimestamp(checkedAt); err == nil {
			rec.CheckedAt = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *CheckRepo) CountByMonitorID(monitorID int64) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM monitor_checks WHERE monitor_id = ?", monitorID).Scan(&count)
	return count, err
}
