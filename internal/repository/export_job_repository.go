package repository

import (
	"sync"
	"time"

	"github.com/acadsuite/timetable-api/internal/models"
	appErrors "github.com/acadsuite/timetable-api/pkg/errors"
)

// ExportJobRepository tracks asynchronous export jobs in memory.
type ExportJobRepository struct {
	mu    sync.RWMutex
	items map[string]models.ExportJob
}

// NewExportJobRepository builds an empty job store.
func NewExportJobRepository() *ExportJobRepository {
	return &ExportJobRepository{
		items: make(map[string]models.ExportJob),
	}
}

// Create stores a new job record.
func (r *ExportJobRepository) Create(job models.ExportJob) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[job.ID] = job
}

// Get returns a job by ID.
func (r *ExportJobRepository) Get(id string) (models.ExportJob, error) {
	r.mu.RLock()
	job, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		return models.ExportJob{}, appErrors.ErrNotFound
	}
	return job, nil
}

// UpdateStatus transitions a job's status and progress.
func (r *ExportJobRepository) UpdateStatus(id string, status models.ExportStatus, progress int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.items[id]
	if !ok {
		return appErrors.ErrNotFound
	}
	job.Status = status
	job.Progress = progress
	r.items[id] = job
	return nil
}

// MarkFinished records a successful export with its artifact location.
func (r *ExportJobRepository) MarkFinished(id, relPath, resultURL string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.items[id]
	if !ok {
		return appErrors.ErrNotFound
	}
	now := time.Now().UTC()
	job.Status = models.ExportStatusFinished
	job.Progress = 100
	job.RelativePath = relPath
	job.ResultURL = &resultURL
	job.FinishedAt = &now
	job.ExpiresAt = &expiresAt
	r.items[id] = job
	return nil
}

// MarkFailed records a failed export with its error message.
func (r *ExportJobRepository) MarkFailed(id, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.items[id]
	if !ok {
		return appErrors.ErrNotFound
	}
	now := time.Now().UTC()
	job.Status = models.ExportStatusFailed
	job.FinishedAt = &now
	job.ErrorMessage = &message
	r.items[id] = job
	return nil
}

// DeleteExpired drops job records whose artifacts expired before now and
// returns the relative paths of the removed artifacts.
func (r *ExportJobRepository) DeleteExpired(now time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := make([]string, 0)
	for id, job := range r.items {
		if job.ExpiresAt != nil && job.ExpiresAt.Before(now) {
			if job.RelativePath != "" {
				removed = append(removed, job.RelativePath)
			}
			delete(r.items, id)
		}
	}
	return removed
}
