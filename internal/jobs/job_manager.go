package jobs

import (
	"errors"
	"fmt"
)

// Job is a scheduled background task.
type Job interface {
	Start() error
	Stop()
}

// Schedules holds the cron expressions (with a seconds field) of the engine jobs.
// An empty expression disables the job.
type Schedules struct {
	ReservationExpiry string
	PendingAllocation string
	ComplianceSweep   string
}

func DefaultSchedules() Schedules {
	return Schedules{
		ReservationExpiry: "*/30 * * * * *",
		PendingAllocation: "*/10 * * * * *",
		ComplianceSweep:   "0 * * * * *",
	}
}

var ErrNoJobs = errors.New("job manager has no jobs")

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs    []namedJob
	started []namedJob
}

type namedJob struct {
	name string
	job  Job
}

func NewJobManager() *JobManager {
	return &JobManager{}
}

// Add registers a job. A nil job is skipped so disabled jobs can be passed through.
func (jm *JobManager) Add(name string, job Job) *JobManager {
	if job != nil {
		jm.jobs = append(jm.jobs, namedJob{name: name, job: job})
	}
	return jm
}

// StartAll starts the jobs in registration order. If one fails, the ones already
// started are stopped again.
func (jm *JobManager) StartAll() error {
	if len(jm.jobs) == 0 {
		return ErrNoJobs
	}
	for _, j := range jm.jobs {
		if err := j.job.Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start %s job: %w", j.name, err)
		}
		jm.started = append(jm.started, j)
	}
	return nil
}

// StopAll stops the started jobs in reverse order and waits for running ticks.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].job.Stop()
	}
	jm.started = nil
}
