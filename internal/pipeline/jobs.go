package pipeline

import (
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of a scrape job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusFetching  JobStatus = "fetching"
	StatusWriting   JobStatus = "writing"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks the state of a single year's scrape.
type Job struct {
	mu sync.Mutex

	ID   string `json:"job_id"`
	Year int    `json:"year"`

	Status JobStatus `json:"status"`
	Source string    `json:"source,omitempty"`

	TaxTableRows int      `json:"tax_table_rows"`
	Errors       []string `json:"errors"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewJob creates a queued job for a year. One job per year: resubmitting
// a year replaces the previous job under the same ID.
func NewJob(year int) *Job {
	now := time.Now()
	return &Job{
		ID:        JobID(year),
		Year:      year,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// JobID returns the canonical job ID for a year.
func JobID(year int) string {
	return fmt.Sprintf("scrape-%d", year)
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Errors = append(j.Errors, err)
	j.UpdatedAt = time.Now()
}

// SetResult records which source produced the dataset and its size.
func (j *Job) SetResult(source string, rows int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Source = source
	j.TaxTableRows = rows
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID           string    `json:"job_id"`
	Year         int       `json:"year"`
	Status       JobStatus `json:"status"`
	Source       string    `json:"source,omitempty"`
	TaxTableRows int       `json:"tax_table_rows"`
	Errors       []string  `json:"errors"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.Errors))
	copy(errs, j.Errors)
	return JobSnapshot{
		ID:           j.ID,
		Year:         j.Year,
		Status:       j.Status,
		Source:       j.Source,
		TaxTableRows: j.TaxTableRows,
		Errors:       errs,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
