package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"courier/internal/core/application/tracking"
	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/ports"
	"courier/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopSession struct{}

func (nopSession) Send(_ context.Context, _ ports.Event) error { return nil }
func (nopSession) Close() error                                { return nil }

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestLocationCleanupJob_Run(t *testing.T) {
	registry := tracking.NewRegistry()
	stale, fresh := kernel.NewUUID(), kernel.NewUUID()
	registry.Register(stale, nopSession{})
	registry.Register(fresh, nopSession{})
	require.NoError(t, registry.UpdateLocation(stale, kernel.MustNewCoordinates(-13.98, 33.78)))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, registry.UpdateLocation(fresh, kernel.MustNewCoordinates(-15.78, 35.0)))

	job := jobs.NewLocationCleanupJob(registry, 10*time.Millisecond, "", discard)

	assert.Equal(t, 1, job.Run(t.Context()))
	_, ok := registry.Location(stale)
	assert.False(t, ok)
	_, ok = registry.Location(fresh)
	assert.True(t, ok)
}

func TestLocationCleanupJob_InvalidSchedule(t *testing.T) {
	job := jobs.NewLocationCleanupJob(tracking.NewRegistry(), time.Hour, "every hour", discard)

	assert.Error(t, job.Start())
}

type recordingJob struct {
	name     string
	startErr error
	log      *[]string
}

func (j recordingJob) Start() error {
	*j.log = append(*j.log, "start "+j.name)
	return j.startErr
}

func (j recordingJob) Stop() {
	*j.log = append(*j.log, "stop "+j.name)
}

func TestJobManager_StartFailureStopsStartedJobs(t *testing.T) {
	var log []string
	jm := jobs.NewJobManager().
		Add("a", recordingJob{name: "a", log: &log}).
		Add("b", recordingJob{name: "b", log: &log}).
		Add("c", recordingJob{name: "c", log: &log, startErr: errors.New("boom")})

	err := jm.StartAll()

	require.ErrorContains(t, err, "failed to start c job")
	assert.Equal(t, []string{"start a", "start b", "start c", "stop b", "stop a"}, log)
}

func TestJobManager_StopAllInReverseOrder(t *testing.T) {
	var log []string
	jm := jobs.NewJobManager().
		Add("a", recordingJob{name: "a", log: &log}).
		Add("b", recordingJob{name: "b", log: &log})

	require.NoError(t, jm.StartAll())
	jm.StopAll()

	assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, log)
}
