package checker

import (
	"fmt"

	"go.uber.org/zap"
)

// Recorder durably applies one probe outcome: the monitor's live-state
// fields and a new history row, written with identical values.
type Recorder struct {
	monitors MonitorStore
	checks   CheckStore
	log      *zap.Logger
}

func NewRecorder(monitors MonitorStore, checks CheckStore, log *zap.Logger) *Recorder {
	return &Recorder{monitors: monitors, checks: checks, log: log}
}

// Record returns recorded=false when the monitor was deleted while the
// probe was in flight; the outcome is discarded and no history row is
// written. That race is expected and is not an error.
func (r *Recorder) Record(monitorID int64, outcome Outcome) (recorded bool, err error) {
	responseTime := outcome.ResponseTime

	affected, err := r.monitors.UpdateStatus(monitorID, outcome.Status, &responseTime, outcome.StatusCode, outcome.ErrorMessage)
	if err != nil {
		return false, fmt.Errorf("update monitor status: %w", err)
	}
	if affected == 0 {
		r.log.Info("discarding outcome for deleted monitor", zap.Int64("monitor_id", monitorID))
		return false, nil
	}

	if _, err := r.checks.Add(monitorID, outcome.Status, &responseTime, outcome.StatusCode, outcome.ErrorMessage); err != nil {
		return false, fmt.Errorf("append check record: %w", err)
	}
	return true, nil
}
