// Package jobs provides scheduled background tasks for the dispatch service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Schedules use the six-field form with seconds.
//
// # Available Jobs
//
// 1. DispatchSweepJob - runs one sweep of the configured assignment strategy per tick,
// bounded by a deadline
// 2. AutoRejectJob - optional; rejects expired unassigned orders that have no candidate driver
// 3. LocationNotificationJob - forwards customer location changes to offered drivers
//
// # Usage
//
//	jobManager := jobs.NewJobManager().
//		Add("dispatch sweep", jobs.NewDispatchSweepJob(strategy, policy, "* * * * * *", 5*time.Second, logger)).
//		Add("location notification", jobs.NewLocationNotificationJob(notifyHandler, "*/2 * * * * *", logger))
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - A pass that could not run at all is logged at Error
// - Passes with per-order errors are logged at Warn, other non-empty passes at Info
// - Failed job starts stop any already running jobs
package jobs
