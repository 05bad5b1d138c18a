package gateway

import (
	"context"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/taskpilot/taskpilot/internal/logging"
)

// DigestConfig holds the periodic digest settings.
type DigestConfig struct {
	Enabled bool `yaml:"enabled"`
	// Schedule is a cron spec, e.g. "0 9 * * *" for 09:00 daily.
	Schedule string `yaml:"schedule"`
}

// DefaultDigestConfig returns the digest defaults (disabled).
func DefaultDigestConfig() *DigestConfig {
	return &DigestConfig{
		Enabled:  false,
		Schedule: "0 9 * * *",
	}
}

// Digest periodically logs a summary of pipeline activity and service
// health so operators get a heartbeat without polling the status API.
type Digest struct {
	config   *DigestConfig
	stats    *Stats
	pipeline Pipeline
	cron     *cron.Cron
	log      *slog.Logger
	mu       sync.Mutex
	running  bool
}

// NewDigest creates a digest scheduler.
func NewDigest(config *DigestConfig, stats *Stats, pipeline Pipeline) *Digest {
	if config == nil {
		config = DefaultDigestConfig()
	}
	return &Digest{
		config:   config,
		stats:    stats,
		pipeline: pipeline,
		cron:     cron.New(),
		log:      logging.WithComponent("digest"),
	}
}

// Start schedules the digest job. A disabled config is a no-op.
func (d *Digest) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running || !d.config.Enabled {
		return nil
	}

	if _, err := d.cron.AddFunc(d.config.Schedule, func() {
		d.run(ctx)
	}); err != nil {
		return err
	}

	d.cron.Start()
	d.running = true
	d.log.Info("Digest scheduler started", slog.String("schedule", d.config.Schedule))
	return nil
}

// Stop halts the scheduler.
func (d *Digest) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return
	}
	d.cron.Stop()
	d.running = false
}

func (d *Digest) run(ctx context.Context) {
	snapshot := d.stats.Snapshot()
	report := d.pipeline.Health(ctx)

	d.log.Info("Activity digest",
		slog.String("health", report.Status),
		slog.Int("events_seen", snapshot.EventsSeen),
		slog.Int("events_handled", snapshot.EventsHandled),
		slog.Int("tasks_created", snapshot.TasksCreated),
		slog.Int("tasks_updated", snapshot.TasksUpdated),
		slog.Int("errors", snapshot.Errors))
}
