package storage

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gren-95/uptime-kama/internal/models"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testUser(t *testing.T, db *sql.DB) models.User {
	t.Helper()
	user, err := NewUserRepo(db).Add("owner@example.com", "hashed-password")
	require.NoError(t, err)
	return user
}

func TestMonitorLifecycle(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db)
	repo := NewMonitorRepo(db)

	created, err := repo.Add(user.ID, "My Website", "https://example.com", 0, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnknown, created.Status, "new monitors start unknown")
	assert.Equal(t, 5, created.IntervalMinutes, "non-positive interval falls back to default")
	assert.Nil(t, created.ResponseTime)
	assert.Nil(t, created.StatusCode)
	assert.Nil(t, created.LastCheck)

	got, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "My Website", got.Name)
	assert.True(t, got.NotificationsEnabled)

	updated, err := repo.Update(created.ID, "Renamed", "https://example.org", 10, false)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 10, updated.IntervalMinutes)
	assert.False(t, updated.NotificationsEnabled)

	require.NoError(t, repo.Delete(created.ID))
	_, err = repo.GetByID(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusWritesLiveStateAtomically(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db)
	repo := NewMonitorRepo(db)

	created, err := repo.Add(user.ID, "site", "https://example.com", 5, true)
	require.NoError(t, err)

	responseTime := int64(150)
	statusCode := 200
	affected, err := repo.UpdateStatus(created.ID, models.StatusUp, &responseTime, &statusCode, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUp, got.Status)
	require.NotNil(t, got.ResponseTime)
	assert.Equal(t, int64(150), *got.ResponseTime)
	require.NotNil(t, got.StatusCode)
	assert.Equal(t, 200, *got.StatusCode)
	assert.Nil(t, got.ErrorMessage)
	require.NotNil(t, got.LastCheck)
}

func TestUpdateStatusReportsMissingMonitor(t *testing.T) {
	db := testDB(t)
	repo := NewMonitorRepo(db)

	responseTime := int64(10)
	affected, err := repo.UpdateStatus(9999, models.StatusDown, &responseTime, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestDeleteMonitorCascadesToChecks(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db)
	monitors := NewMonitorRepo(db)
	checks := NewCheckRepo(db)

	created, err := monitors.Add(user.ID, "site", "https://example.com", 5, true)
	require.NoError(t, err)

	responseTime := int64(20)
	for i := 0; i < 3; i++ {
		_, err := checks.Add(created.ID, models.StatusUp, &responseTime, nil, nil)
		require.NoError(t, err)
	}
	count, err := checks.CountByMonitorID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.NoError(t, monitors.Delete(created.ID))

	count, err = checks.CountByMonitorID(created.ID)
	require.NoError(t, err)
	assert.Zero(t, count, "check history must cascade with the monitor")
}

func TestDeleteMissingMonitor(t *testing.T) {
	db := testDB(t)
	assert.ErrorIs(t, NewMonitorRepo(db).Delete(12345), ErrNotFound)
}

func TestGetByUserIDFiltersOwnership(t *testing.T) {
	db := testDB(t)
	users := NewUserRepo(db)
	monitors := NewMonitorRepo(db)

	alice, err := users.Add("alice@example.com", "pw")
	require.NoError(t, err)
	bob, err := users.Add("bob@example.com", "pw")
	require.NoError(t, err)

	_, err = monitors.Add(alice.ID, "a1", "https://a.example.com", 5, true)
	require.NoError(t, err)
	_, err = monitors.Add(bob.ID, "b1", "https://b.example.com", 5, true)
	require.NoError(t, err)

	got, err := monitors.GetByUserID(alice.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].Name)
}

func TestCheckHistoryNewestFirst(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db)
	monitors := NewMonitorRepo(db)
	checks := NewCheckRepo(db)

	created, err := monitors.Add(user.ID, "site", "https://example.com", 5, true)
	require.NoError(t, err)

	msg := "HTTP 500"
	code := 500
	responseTime := int64(30)
	_, err = checks.Add(created.ID, models.StatusDown, &responseTime, &code, &msg)
	require.NoError(t, err)
	okCode := 200
	_, err = checks.Add(created.ID, models.StatusUp, &responseTime, &okCode, nil)
	require.NoError(t, err)

	records, err := checks.GetByMonitorID(created.ID, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.StatusUp, records[0].Status)
	assert.Equal(t, models.StatusDown, records[1].Status)
	require.NotNil(t, records[1].ErrorMessage)
	assert.Equal(t, "HTTP 500", *records[1].ErrorMessage)
}

func TestUserNotificationPrefs(t *testing.T) {
	db := testDB(t)
	users := NewUserRepo(db)

	user, err := users.Add("owner@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, user.NotificationsEnabled, "notifications default on")
	assert.Empty(t, user.NotificationEmail)

	require.NoError(t, users.SetNotificationPrefs(user.ID, false, "alerts@example.com"))

	got, err := users.GetByID(user.ID)
	require.NoError(t, err)
	assert.False(t, got.NotificationsEnabled)
	assert.Equal(t, "alerts@example.com", got.NotificationEmail)

	byEmail, err := users.GetByEmail("owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = users.GetByID(999)
	assert.ErrorIs(t, err, ErrNotFound)
}
