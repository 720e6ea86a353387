package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acadsuite/timetable-api/internal/dto"
	"github.com/acadsuite/timetable-api/internal/models"
	appErrors "github.com/acadsuite/timetable-api/pkg/errors"
	"github.com/acadsuite/timetable-api/pkg/jobs"
)

type exportJobStore interface {
	Create(job models.ExportJob)
	Get(id string) (models.ExportJob, error)
	UpdateStatus(id string, status models.ExportStatus, progress int) error
	MarkFinished(id, relPath, resultURL string, expiresAt time.Time) error
	MarkFailed(id, message string) error
	DeleteExpired(now time.Time) []string
}

type taskDispatcher interface {
	Enqueue(task jobs.Task) error
}

type timetableFetcher interface {
	Get(id string) (models.GeneratedTimetable, error)
}

type exportRenderer interface {
	Render(job models.ExportJob, table models.GeneratedTimetable, labels dto.ExportLabels) (*ExportResult, error)
	ParseToken(token string, allowExpired bool) (exportID, relPath string, expiresAt time.Time, err error)
	Open(relPath string) (*os.File, error)
	Delete(relPath string) error
	Cleanup(ttl time.Duration) ([]string, error)
}

type exportObserver interface {
	RecordExportJob(status models.ExportStatus)
}

// ExportJobServiceConfig governs retries and artifact cleanup.
type ExportJobServiceConfig struct {
	ResultTTL       time.Duration
	CleanupInterval time.Duration
	MaxRetries      int
}

// ExportDownload aggregates resolved download data.
type ExportDownload struct {
	File      *os.File
	Filename  string
	Format    models.ExportFormat
	ExpiresAt time.Time
}

// exportTaskPayload travels with the queue task so the worker can label
// the rendered grid without re-posting the input collections.
type exportTaskPayload struct {
	Labels dto.ExportLabels
}

// ExportJobService manages the asynchronous export pipeline: job creation,
// queue dispatch, worker rendering, downloads, and expiry cleanup.
type ExportJobService struct {
	repo       exportJobStore
	timetables timetableFetcher
	queue      taskDispatcher
	exporter   exportRenderer
	metrics    exportObserver
	logger     *zap.Logger
	cfg        ExportJobServiceConfig
}

// NewExportJobService constructs the service.
func NewExportJobService(repo exportJobStore, timetables timetableFetcher, queue taskDispatcher, exporter exportRenderer, metrics exportObserver, cfg ExportJobServiceConfig, logger *zap.Logger) *ExportJobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &ExportJobService{
		repo:       repo,
		timetables: timetables,
		queue:      queue,
		exporter:   exporter,
		metrics:    metrics,
		logger:     logger,
		cfg:        cfg,
	}
}

// CreateJob validates the request, records the job, and enqueues rendering.
func (s *ExportJobService) CreateJob(ctx context.Context, req dto.CreateExportRequest) (dto.ExportJobResponse, error) {
	if req.Format != models.ExportFormatCSV && req.Format != models.ExportFormatPDF {
		return dto.ExportJobResponse{}, appErrors.ErrExportFormat
	}
	if _, err := s.timetables.Get(req.TimetableID); err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return dto.ExportJobResponse{}, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return dto.ExportJobResponse{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}

	job := models.ExportJob{
		ID:          uuid.NewString(),
		TimetableID: req.TimetableID,
		Format:      req.Format,
		Status:      models.ExportStatusQueued,
		CreatedAt:   time.Now().UTC(),
	}
	s.repo.Create(job)

	task := jobs.Task{
		ID:      job.ID,
		Kind:    string(job.Format),
		Payload: exportTaskPayload{Labels: req.Labels},
	}
	if err := s.queue.Enqueue(task); err != nil {
		if markErr := s.repo.MarkFailed(job.ID, "failed to enqueue export"); markErr != nil {
			s.logger.Sugar().Warnw("failed to mark export job failed", "job_id", job.ID, "error", markErr)
		}
		return dto.ExportJobResponse{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}

	return jobResponse(job), nil
}

// GetStatus exposes job lifecycle state.
func (s *ExportJobService) GetStatus(ctx context.Context, id string) (dto.ExportJobResponse, error) {
	job, err := s.repo.Get(id)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return dto.ExportJobResponse{}, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return dto.ExportJobResponse{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	return jobResponse(job), nil
}

// ResolveDownload validates a signed token and opens the stored artifact.
func (s *ExportJobService) ResolveDownload(ctx context.Context, token string) (*ExportDownload, error) {
	jobID, relPath, expiresAt, err := s.exporter.ParseToken(token, false)
	if err != nil {
		return nil, appErrors.ErrTokenInvalid
	}
	job, err := s.repo.Get(jobID)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	if job.Status != models.ExportStatusFinished {
		return nil, appErrors.ErrExportPending
	}
	if job.ResultURL == nil || !strings.HasSuffix(*job.ResultURL, token) {
		return nil, appErrors.Clone(appErrors.ErrTokenInvalid, "token mismatch")
	}
	file, err := s.exporter.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	return &ExportDownload{
		File:      file,
		Filename:  filepath.Base(relPath),
		Format:    job.Format,
		ExpiresAt: expiresAt,
	}, nil
}

// Handle processes one queued export task. Returning an error triggers the
// queue's retry; once attempts run out the job is marked failed.
func (s *ExportJobService) Handle(ctx context.Context, task jobs.Task) error {
	job, err := s.repo.Get(task.ID)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(job.ID, models.ExportStatusProcessing, 25); err != nil {
		return err
	}

	labels := dto.ExportLabels{}
	if payload, ok := task.Payload.(exportTaskPayload); ok {
		labels = payload.Labels
	}

	table, err := s.timetables.Get(job.TimetableID)
	if err != nil {
		s.failOrRequeue(task, job, err)
		return err
	}

	result, err := s.exporter.Render(job, table, labels)
	if err != nil {
		s.failOrRequeue(task, job, err)
		return err
	}

	if err := s.repo.MarkFinished(job.ID, result.RelativePath, result.URL, result.ExpiresAt); err != nil {
		s.logger.Sugar().Warnw("failed to mark export finished", "job_id", job.ID, "error", err)
		return err
	}
	if s.metrics != nil {
		s.metrics.RecordExportJob(models.ExportStatusFinished)
	}
	s.logger.Sugar().Infow("export rendered", "job_id", job.ID, "format", job.Format, "path", result.RelativePath)
	return nil
}

// StartCleanup boots a goroutine that purges expired artifacts periodically.
func (s *ExportJobService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.cleanupExpired()
			}
		}
	}()
}

func (s *ExportJobService) cleanupExpired() {
	for _, relPath := range s.repo.DeleteExpired(time.Now().UTC()) {
		if err := s.exporter.Delete(relPath); err != nil {
			s.logger.Sugar().Warnw("cleanup delete failed", "path", relPath, "error", err)
		}
	}
	if _, err := s.exporter.Cleanup(s.cfg.ResultTTL); err != nil {
		s.logger.Sugar().Warnw("filesystem cleanup failed", "error", err)
	}
}

func (s *ExportJobService) failOrRequeue(task jobs.Task, job models.ExportJob, cause error) {
	if task.Attempt >= s.cfg.MaxRetries {
		if err := s.repo.MarkFailed(job.ID, cause.Error()); err != nil {
			s.logger.Sugar().Warnw("failed to mark export failed", "job_id", job.ID, "error", err)
		}
		if s.metrics != nil {
			s.metrics.RecordExportJob(models.ExportStatusFailed)
		}
		return
	}
	if err := s.repo.UpdateStatus(job.ID, models.ExportStatusQueued, 0); err != nil {
		s.logger.Sugar().Warnw("failed to requeue export job", "job_id", job.ID, "error", err)
	}
}

func jobResponse(job models.ExportJob) dto.ExportJobResponse {
	return dto.ExportJobResponse{
		ID:           job.ID,
		TimetableID:  job.TimetableID,
		Format:       job.Format,
		Status:       job.Status,
		Progress:     job.Progress,
		ResultURL:    job.ResultURL,
		ErrorMessage: job.ErrorMessage,
	}
}
