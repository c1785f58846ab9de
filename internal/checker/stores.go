package checker

import "github.com/Gren-95/uptime-kama/internal/models"

// Storage collaborators consumed by the check pipeline. The sqlite repos in
// internal/storage satisfy these; tests substitute fakes.

type MonitorStore interface {
	GetAll() ([]models.Monitor, error)
	GetByID(id int64) (models.Monitor, error)
	UpdateStatus(id int64, status models.Status, responseTime *int64, statusCode *int, errorMessage *string) (int64, error)
}

type CheckStore interface {
	Add(monitorID int64, status models.Status, responseTime *int64, statusCode *int, errorMessage *string) (int64, error)
}

type UserStore interface {
	GetByID(id int64) (models.User, error)
}
