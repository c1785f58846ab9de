package checker

import (
	"context"
	"errors"
	"sync"

	"github.com/Gren-95/uptime-kama/internal/models"
	"github.com/Gren-95/uptime-kama/internal/notifications"
	"github.com/Gren-95/uptime-kama/internal/storage"
)

type fakeMonitorStore struct {
	mu       sync.Mutex
	monitors map[int64]models.Monitor
}

func newFakeMonitorStore(monitors ...models.Monitor) *fakeMonitorStore {
	s := &fakeMonitorStore{monitors: make(map[int64]models.Monitor)}
	for _, m := range monitors {
		s.monitors[m.ID] = m
	}
	return s
}

func (s *fakeMonitorStore) GetAll() ([]models.Monitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Monitor
	for _, m := range s.monitors {
		out = append(out, m)
	}
	return out, nil
}

func (s *fakeMonitorStore) GetByID(id int64) (models.Monitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.monitors[id]
	if !ok {
		return models.Monitor{}, storage.ErrNotFound
	}
	return m, nil
}

func (s *fakeMonitorStore) UpdateStatus(id int64, status models.Status, responseTime *int64, statusCode *int, errorMessage *string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.monitors[id]
	if !ok {
		return 0, nil
	}
	m.Status = status
	m.ResponseTime = responseTime
	m.StatusCode = statusCode
	m.ErrorMessage = errorMessage
	s.monitors[id] = m
	return 1, nil
}

func (s *fakeMonitorStore) remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.monitors, id)
}

type recordedCheck struct {
	monitorID    int64
	status       models.Status
	responseTime *int64
	statusCode   *int
	errorMessage *string
}

type fakeCheckStore struct {
	mu     sync.Mutex
	checks []recordedCheck
	err    error
}

func (s *fakeCheckStore) Add(monitorID int64, status models.Status, responseTime *int64, statusCode *int, errorMessage *string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	s.checks = append(s.checks, recordedCheck{
		monitorID:    monitorID,
		status:       status,
		responseTime: responseTime,
		statusCode:   statusCode,
		errorMessage: errorMessage,
	})
	return int64(len(s.checks)), nil
}

func (s *fakeCheckStore) count(monitorID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.checks {
		if c.monitorID == monitorID {
			n++
		}
	}
	return n
}

func (s *fakeCheckStore) last() (recordedCheck, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.checks) == 0 {
		return recordedCheck{}, false
	}
	return s.checks[len(s.checks)-1], true
}

type fakeUserStore struct {
	users map[int64]models.User
}

func (s *fakeUserStore) GetByID(id int64) (models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

type sentAlert struct {
	to    string
	alert notifications.AlertMessage
}

type fakeMailer struct {
	mu     sync.Mutex
	alerts []sentAlert
	err    error
}

func (m *fakeMailer) SendMonitorAlert(_ context.Context, to string, alert notifications.AlertMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.alerts = append(m.alerts, sentAlert{to: to, alert: alert})
	return nil
}

func (m *fakeMailer) SendTestEmail(_ context.Context, _ string) error {
	return m.err
}

func (m *fakeMailer) sent() []sentAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentAlert(nil), m.alerts...)
}

var errStorageDown = errors.New("storage down")
