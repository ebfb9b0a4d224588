// Package jobs provides scheduled background tasks for the fulfillment engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Every schedule has a seconds field and overlapping ticks are skipped.
//
// # Available Jobs
//
// 1. ReservationExpiryJob - releases HELD reservations whose TTL has passed and gives their stock back
// 2. PendingAllocationJob - allocates the backlog of CREATED orders with a bounded worker pool
// 3. ComplianceSweepJob - tracks every open order and publishes the sla_orders gauge
//
// # Usage
//
//	jobManager := jobs.NewJobManager().
//		Add("reservation expiry", jobs.NewReservationExpiryJob(expiryHandler, schedules.ReservationExpiry, 0, logger)).
//		Add("compliance sweep", jobs.NewComplianceSweepJob(reportHandler, schedules.ComplianceSweep, m, logger))
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Jobs never stop on a failed tick. The error is logged and the next tick starts over.
package jobs
