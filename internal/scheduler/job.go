package scheduler

import (
	"context"
	"time"
)

// Job is a unit of work run on a cron schedule
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	Name() string
	Run(ctx context.Context) error
	// Schedule is a 6-field cron expression (seconds first), e.g. "0 50 11 * * *",
	// or a descriptor such as "@daily"
	Schedule() string
}

// JobResult is one execution of a job, retries included
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Attempts  int           `json:"attempts"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// historyLimit bounds the results kept per job
const historyLimit = 100

// JobHistory keeps the most recent results of one job, oldest first.
// Callers hold the scheduler lock.
type JobHistory struct {
	results []JobResult
}

func (h *JobHistory) add(result JobResult) {
	h.results = append(h.results, result)
	if len(h.results) > historyLimit {
		h.results = append([]JobResult(nil), h.results[len(h.results)-historyLimit:]...)
	}
}

// Len is the number of retained results
func (h *JobHistory) Len() int { return len(h.results) }

// Latest returns up to n most recent results, oldest first
func (h *JobHistory) Latest(n int) []JobResult {
	if n > len(h.results) {
		n = len(h.results)
	}
	if n <= 0 {
		return []JobResult{}
	}
	return append([]JobResult(nil), h.results[len(h.results)-n:]...)
}

// Failed returns the retained failures
func (h *JobHistory) Failed() []JobResult {
	failed := make([]JobResult, 0)
	for _, r := range h.results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}

// SuccessRate is 0.0 - 1.0, 0 without runs
func (h *JobHistory) SuccessRate() float64 {
	if len(h.results) == 0 {
		return 0
	}
	return float64(len(h.results)-len(h.Failed())) / float64(len(h.results))
}

// JobStats summarizes a job's retained history
type JobStats struct {
	JobName      string     `json:"job_name"`
	Schedule     string     `json:"schedule"`
	NextRun      *time.Time `json:"next_run,omitempty"`
	TotalRuns    int        `json:"total_runs"`
	SuccessCount int        `json:"success_count"`
	FailureCount int        `json:"failure_count"`
	SuccessRate  float64    `json:"success_rate"`
	LastRun      *time.Time `json:"last_run,omitempty"`
	LastSuccess  *time.Time `json:"last_success,omitempty"`
	LastFailure  *time.Time `json:"last_failure,omitempty"`
	LastError    string     `json:"last_error,omitempty"`
}

func (h *JobHistory) stats(job Job) JobStats {
	failures := len(h.Failed())
	stats := JobStats{
		JobName:      job.Name(),
		Schedule:     job.Schedule(),
		TotalRuns:    len(h.results),
		SuccessCount: len(h.results) - failures,
		FailureCount: failures,
		SuccessRate:  h.SuccessRate(),
	}

	// 가장 최근 성공/실패를 각각 찾음
	for i := len(h.results) - 1; i >= 0; i-- {
		r := h.results[i]
		start := r.StartTime
		if stats.LastRun == nil {
			stats.LastRun = &start
		}
		if r.Success && stats.LastSuccess == nil {
			stats.LastSuccess = &start
		}
		if !r.Success && stats.LastFailure == nil {
			stats.LastFailure = &start
			stats.LastError = r.Error
		}
	}
	return stats
}
