// Package jobs provides scheduled background tasks for the courier service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, six-field schedules with seconds).
//
// # Available Jobs
//
// 1. LocationCleanupJob - prunes agent locations that were not refreshed within LOCATION_TTL
//
// # Usage
//
//	jobManager := jobs.NewJobManager().
//		Add("location cleanup", jobs.NewLocationCleanupJob(registry, time.Hour, "", logger))
//
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A job that fails to start stops every job started before it.
package jobs
