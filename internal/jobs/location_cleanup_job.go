package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultLocationCleanupSchedule runs the cleanup at the top of every hour.
const DefaultLocationCleanupSchedule = "0 0 * * * *"

// LocationPruner forgets agent positions older than a cutoff; tracking.Registry
// satisfies it.
type LocationPruner interface {
	PruneStaleLocations(cutoff time.Time) int
}

// LocationCleanupJob drops cached agent locations that have not been refreshed within
// ttl. Connections and packet state are left alone.
type LocationCleanupJob struct {
	pruner   LocationPruner
	ttl      time.Duration
	schedule string
	now      func() time.Time
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewLocationCleanupJob takes a six-field cron schedule (seconds first).
func NewLocationCleanupJob(pruner LocationPruner, ttl time.Duration, schedule string, logger *slog.Logger) *LocationCleanupJob {
	if schedule == "" {
		schedule = DefaultLocationCleanupSchedule
	}
	return &LocationCleanupJob{
		pruner:   pruner,
		ttl:      ttl,
		schedule: schedule,
		now:      time.Now,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "location_cleanup_job"),
	}
}

// Run prunes once and returns the number of locations dropped.
func (j *LocationCleanupJob) Run(ctx context.Context) int {
	cutoff := j.now().UTC().Add(-j.ttl)
	pruned := j.pruner.PruneStaleLocations(cutoff)
	if pruned > 0 {
		j.logger.InfoContext(ctx, "Pruned stale agent locations", "count", pruned, "cutoff", cutoff)
	}
	return pruned
}

func (j *LocationCleanupJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Location cleanup job started", "schedule", j.schedule, "ttl", j.ttl)
	return nil
}

// Stop waits for a running cleanup to finish.
func (j *LocationCleanupJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Location cleanup job stopped")
}
