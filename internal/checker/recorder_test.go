package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Gren-95/uptime-kama/internal/models"
)

func testOutcomeDown() Outcome {
	code := 503
	msg := "HTTP 503"
	return Outcome{
		Status:       models.StatusDown,
		ResponseTime: 120,
		StatusCode:   &code,
		ErrorMessage: &msg,
	}
}

func TestRecordUpdatesMonitorAndAppendsHistory(t *testing.T) {
	monitors := newFakeMonitorStore(models.Monitor{ID: 1, Status: models.StatusUp})
	checks := &fakeCheckStore{}
	recorder := NewRecorder(monitors, checks, zap.NewNop())

	recorded, err := recorder.Record(1, testOutcomeDown())
	require.NoError(t, err)
	assert.True(t, recorded)

	m, err := monitors.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDown, m.Status)
	require.NotNil(t, m.ResponseTime)
	assert.Equal(t, int64(120), *m.ResponseTime)
	require.NotNil(t, m.StatusCode)
	assert.Equal(t, 503, *m.StatusCode)

	last, ok := checks.last()
	require.True(t, ok)
	assert.Equal(t, int64(1), last.monitorID)
	assert.Equal(t, models.StatusDown, last.status)
	require.NotNil(t, last.errorMessage)
	assert.Equal(t, "HTTP 503", *last.errorMessage)
}

func TestRecordDiscardsOutcomeForDeletedMonitor(t *testing.T) {
	monitors := newFakeMonitorStore() // monitor already gone
	checks := &fakeCheckStore{}
	recorder := NewRecorder(monitors, checks, zap.NewNop())

	recorded, err := recorder.Record(42, testOutcomeDown())
	require.NoError(t, err)
	assert.False(t, recorded)
	assert.Zero(t, checks.count(42), "no history row may be written after deletion")
}

func TestRecordSurfacesHistoryWriteFailure(t *testing.T) {
	monitors := newFakeMonitorStore(models.Monitor{ID: 1, Status: models.StatusUnknown})
	checks := &fakeCheckStore{err: errStorageDown}
	recorder := NewRecorder(monitors, checks, zap.NewNop())

	recorded, err := recorder.Record(1, testOutcomeDown())
	assert.Error(t, err)
	assert.False(t, recorded)
}
