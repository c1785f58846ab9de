package checker

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Gren-95/uptime-kama/internal/storage"
)

// Scheduler owns one recurring timer per active monitor and drives the
// check pipeline (probe, record, notify) on every fire. Fires are
// wall-clock-periodic: each tick launches the pipeline in its own
// goroutine and never waits for the previous one.
//
// There is at most one schedule per monitor id at any time; Start
// supersedes any existing schedule for the same id.
type Scheduler struct {
	monitors MonitorStore
	prober   *Prober
	recorder *Recorder
	notifier *Notifier
	log      *zap.Logger

	mu      sync.Mutex
	entries map[int64]*scheduleEntry

	// delay before the first probe of a freshly scheduled monitor
	initialDelay time.Duration
}

type scheduleEntry struct {
	interval time.Duration
	stop     chan struct{}
}

func NewScheduler(monitors MonitorStore, prober *Prober, recorder *Recorder, notifier *Notifier, log *zap.Logger) *Scheduler {
	return &Scheduler{
		monitors:     monitors,
		prober:       prober,
		recorder:     recorder,
		notifier:     notifier,
		log:          log,
		entries:      make(map[int64]*scheduleEntry),
		initialDelay: time.Second,
	}
}

// Start registers a recurring schedule for monitorID, replacing any
// existing one. An immediate check runs shortly after registration, then
// one every interval.
func (s *Scheduler) Start(monitorID int64, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	entry := &scheduleEntry{interval: interval, stop: make(chan struct{})}

	s.mu.Lock()
	if old, exists := s.entries[monitorID]; exists {
		close(old.stop)
	}
	s.entries[monitorID] = entry
	s.mu.Unlock()

	s.log.Info("monitor scheduled",
		zap.Int64("monitor_id", monitorID),
		zap.Duration("interval", interval))

	go s.run(monitorID, entry)
}

// Stop cancels monitorID's schedule. Calling it for a monitor with no
// active schedule is a no-op. An in-flight probe is not interrupted; its
// outcome is discarded by the recorder's existence check.
func (s *Scheduler) Stop(monitorID int64) {
	s.mu.Lock()
	entry, exists := s.entries[monitorID]
	if exists {
		close(entry.stop)
		delete(s.entries, monitorID)
	}
	s.mu.Unlock()

	if exists {
		s.log.Info("monitor unscheduled", zap.Int64("monitor_id", monitorID))
	}
}

// Reschedule replaces monitorID's schedule with a new interval.
func (s *Scheduler) Reschedule(monitorID int64, interval time.Duration) {
	s.Stop(monitorID)
	s.Start(monitorID, interval)
}

// LoadAll rebuilds the in-memory schedule from durable state at process
// startup: one schedule per persisted monitor.
func (s *Scheduler) LoadAll() error {
	monitors, err := s.monitors.GetAll()
	if err != nil {
		return fmt.Errorf("load monitors: %w", err)
	}
	for _, m := range monitors {
		s.Start(m.ID, time.Duration(m.IntervalMinutes)*time.Minute)
	}
	s.log.Info("monitoring started", zap.Int("monitors", len(monitors)))
	return nil
}

// Shutdown cancels every schedule. In-flight checks are left to finish;
// their outcomes still record normally.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	for id, entry := range s.entries {
		close(entry.stop)
		delete(s.entries, id)
	}
	s.mu.Unlock()
	s.log.Info("scheduler stopped")
}

// Active reports whether monitorID currently has a schedule.
func (s *Scheduler) Active(monitorID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.entries[monitorID]
	return exists
}

func (s *Scheduler) run(monitorID int64, entry *scheduleEntry) {
	initial := time.NewTimer(s.initialDelay)
	defer initial.Stop()

	ticker := time.NewTicker(entry.interval)
	defer ticker.Stop()

	for {
		select {
		case <-entry.stop:
			return
		case <-initial.C:
			go s.runCheck(monitorID)
		case <-ticker.C:
			go s.runCheck(monitorID)
		}
	}
}

// runCheck executes one pass of the pipeline. Everything that can go
// wrong here is caught and logged: a failing tick must not cancel the
// schedule or touch any other monitor.
func (s *Scheduler) runCheck(monitorID int64) {
	correlationID := uuid.NewString()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("check pipeline panic",
				zap.String("correlation_id", correlationID),
				zap.Int64("monitor_id", monitorID),
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())))
		}
	}()

	ctx := context.Background()

	// Read the persisted status before probing; the notifier compares
	// against it after the new outcome is recorded.
	monitor, err := s.monitors.GetByID(monitorID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Info("monitor gone before check", zap.Int64("monitor_id", monitorID))
		} else {
			s.log.Error("failed to load monitor for check",
				zap.Int64("monitor_id", monitorID), zap.Error(err))
		}
		return
	}
	previous := monitor.Status

	outcome := s.prober.Probe(ctx, monitor.URL)

	recorded, err := s.recorder.Record(monitor.ID, outcome)
	if err != nil {
		s.log.Error("failed to record check outcome",
			zap.String("correlation_id", correlationID),
			zap.Int64("monitor_id", monitor.ID),
			zap.Error(err))
		return
	}
	if !recorded {
		return
	}

	s.log.Info("check completed",
		zap.String("correlation_id", correlationID),
		zap.Int64("monitor_id", monitor.ID),
		zap.String("monitor", monitor.Name),
		zap.String("status", string(outcome.Status)),
		zap.Int64("response_time_ms", outcome.ResponseTime))

	s.notifier.HandleTransition(ctx, monitor, previous, outcome)
}
