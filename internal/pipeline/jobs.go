package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/chunk"
)

// JobStatus represents the state of an asynchronous analysis job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusParsing     JobStatus = "parsing"
	StatusClassifying JobStatus = "classifying"
	StatusChunking    JobStatus = "chunking"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
)

// Job tracks one queued document analysis.
type Job struct {
	mu sync.Mutex

	ID       string `json:"job_id"`
	Filename string `json:"filename"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	data     []byte
	chunkOpt chunk.Options
	result   *Analysis
	errors   []string
}

// Progress tracks analysis progress and outcome summary.
type Progress struct {
	DocType     string   `json:"doc_type,omitempty"`
	Confidence  float64  `json:"confidence,omitempty"`
	TotalChunks int      `json:"total_chunks"`
	Errors      []string `json:"errors"`
}

// NewJob builds a queued job for the given document bytes.
func NewJob(filename string, data []byte, opts chunk.Options) *Job {
	now := time.Now()
	return &Job{
		ID:          generateULID(),
		Filename:    filename,
		Status:      StatusQueued,
		Phase:       "queued",
		ContentHash: ContentHashHex(data),
		CreatedAt:   now,
		UpdatedAt:   now,
		data:        data,
		chunkOpt:    opts,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetResult stores the completed analysis and its outcome summary.
func (j *Job) SetResult(a *Analysis) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = a
	if a.Classification != nil {
		j.Progress.DocType = a.Classification.DocType
		j.Progress.Confidence = a.Classification.Confidence
	}
	j.Progress.TotalChunks = len(a.Chunks)
	j.UpdatedAt = time.Now()
}

// Result returns the stored analysis, nil until the job completes.
func (j *Job) Result() *Analysis {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// Data returns the raw document bytes.
func (j *Job) Data() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.data
}

// ChunkOptions returns the chunking options requested for this job.
func (j *Job) ChunkOptions() chunk.Options {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.chunkOpt
}

// LastUpdated returns the time of the last state change. Workers mutate
// UpdatedAt under the job mutex, so readers in other goroutines must
// come through here.
func (j *Job) LastUpdated() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Filename    string    `json:"filename"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	ContentHash string    `json:"content_hash,omitempty"`
	Progress    Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:          j.ID,
		Filename:    j.Filename,
		Status:      j.Status,
		Phase:       j.Phase,
		ContentHash: j.ContentHash,
		Progress: Progress{
			DocType:     j.Progress.DocType,
			Confidence:  j.Progress.Confidence,
			TotalChunks: j.Progress.TotalChunks,
			Errors:      errs,
		},
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
		if now.Sub(job.LastUpdated()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
