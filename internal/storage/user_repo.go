package storage

import (
	"database/sql"

	"github.com/Gren-95/uptime-kama/internal/models"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Add(email, hashedPassword string) (models.User, error) {
	res, err := r.db.Exec("INSERT INTO users(email, password) VALUES(?, ?)", email, hashedPassword)
	if err != nil {
		return models.User{}, err
	}
	id, _ := res.LastInsertId()
	return r.GetByID(id)
}

func (r *UserRepo) GetByID(id int64) (models.User, error) {
	row := r.db.QueryRow("SELECT id, email, notification_email, notifications_enabled FROM users WHERE id = ?", id)
	return scanUser(row)
}

func (r *UserRepo) GetByEmail(email string) (models.User, error) {
	row := r.db.QueryRow("SELECT id, email, notification_email, notifications_enabled FROM users WHERE email = ?", email)
	return scanUser(row)
}

// SetNotificationPrefs updates the owner-level alerting settings: the global
// on/off toggle and an optional override address for alerts.
func (r *UserRepo) SetNotificationPrefs(id int64, enabled bool, notificationEmail string) error {
	enabledInt := 0
	if enabled {
		enabledInt = 1
	}
	var addr any
	if notificationEmail != "" {
		addr = notificationEmail
	}
	_, err := r.db.Exec("UPDATE users SET notifications_enabled = ?, notification_email = ? WHERE id = ?",
		enabledInt, addr, id)
	return err
}

func scanUser(row *sql.Row) (models.User, error) {
	var (
		u                 models.User
		notificationEmail sql.NullString
		enabledInt        int
	)
	err := row.Scan(&u.ID, &u.Email, &notificationEmail, &enabledInt)
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	if notificationEmail.Valid {
		u.NotificationEmail = notificationEmail.String
	}
	u.NotificationsEnabled = enabledInt == 1
	return u, nil
}
