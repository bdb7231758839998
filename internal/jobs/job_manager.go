package jobs

import (
	"fmt"
)

// Job is a scheduled task that can be started and stopped.
type Job interface {
	Start() error
	Stop()
}

type namedJob struct {
	name string
	job  Job
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs    []namedJob
	started []namedJob
}

// NewJobManager creates an empty manager. Jobs start in the order they are added.
func NewJobManager() *JobManager {
	return &JobManager{}
}

// Add registers a job under a name used in error messages.
func (jm *JobManager) Add(name string, job Job) *JobManager {
	jm.jobs = append(jm.jobs, namedJob{name: name, job: job})
	return jm
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start, after stopping the ones already running.
func (jm *JobManager) StartAll() error {
	for _, nj := range jm.jobs {
		if err := nj.job.Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start %s job: %w", nj.name, err)
		}
		jm.started = append(jm.started, nj)
	}

	return nil
}

// StopAll stops the running jobs in reverse start order.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].job.Stop()
	}
	jm.started = nil
}
