package gateway

import (
	"sync"
	"time"

	"github.com/taskpilot/taskpilot/internal/mapper"
)

// Stats accumulates process-lifetime counters for the status endpoint.
// Nothing here is persisted; counters reset on restart.
type Stats struct {
	mu            sync.Mutex
	startedAt     time.Time
	eventsSeen    int
	eventsHandled int
	tasksCreated  int
	tasksUpdated  int
	errors        int
}

// NewStats creates a Stats collector anchored at the current time.
func NewStats() *Stats {
	return &Stats{startedAt: time.Now()}
}

// RecordDelivery counts one inbound webhook delivery.
func (s *Stats) RecordDelivery() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventsSeen++
}

// RecordOutcome counts a processed event's results. A nil outcome counts
// the delivery as filtered/no-op.
func (s *Stats) RecordOutcome(outcome *mapper.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if outcome == nil {
		return
	}
	s.eventsHandled++
	s.tasksCreated += len(outcome.Created)
	s.tasksUpdated += len(outcome.Updated)
	s.errors += len(outcome.Errors)
}

// RecordError counts a fatal pipeline failure.
func (s *Stats) RecordError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors++
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	UptimeSeconds int64 `json:"uptime_seconds"`
	EventsSeen    int   `json:"events_seen"`
	EventsHandled int   `json:"events_handled"`
	TasksCreated  int   `json:"tasks_created"`
	TasksUpdated  int   `json:"tasks_updated"`
	Errors        int   `json:"errors"`
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		EventsSeen:    s.eventsSeen,
		EventsHandled: s.eventsHandled,
		TasksCreated:  s.tasksCreated,
		TasksUpdated:  s.tasksUpdated,
		Errors:        s.errors,
	}
}
