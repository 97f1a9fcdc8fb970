package services

import (
	"time"

	"github.com/necroledger/necroledger-api/internal/jobs"
)

// IntegrityJobName identifies the balance re-check in worker logs
const IntegrityJobName = "integrity-check"

type JobService struct {
	worker  *jobs.Worker
	journal *JournalService
}

func NewJobService(worker *jobs.Worker, journal *JournalService) *JobService {
	return &JobService{
		worker:  worker,
		journal: journal,
	}
}

// ScheduleIntegrityCheck runs the balance re-check now and then every interval
func (s *JobService) ScheduleIntegrityCheck(interval time.Duration) bool {
	if s.worker == nil || interval <= 0 {
		return false
	}
	s.worker.ScheduleEveryImmediate(IntegrityJobName, interval, s.journal.CheckIntegrity)
	return true
}

// RunIntegrityCheck queues a single balance re-check
func (s *JobService) RunIntegrityCheck() bool {
	if s.worker == nil {
		return false
	}
	return s.worker.Enqueue(IntegrityJobName, s.journal.CheckIntegrity)
}

// GetStatus reports the worker counters; a nil worker means background jobs are disabled
func (s *JobService) GetStatus() map[string]interface{} {
	if s.worker == nil {
		return map[string]interface{}{"enabled": false}
	}
	stats := s.worker.GetStats()
	return map[string]interface{}{
		"enabled":        true,
		"active_jobs":    stats.ActiveJobs,
		"completed_jobs": stats.CompletedJobs,
		"failed_jobs":    stats.FailedJobs,
		"queue_length":   stats.QueueLength,
		"max_concurrent": stats.MaxConcurrent,
		"last_run":       stats.LastRun,
	}
}
