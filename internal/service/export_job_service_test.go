package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acadsuite/timetable-api/internal/dto"
	"github.com/acadsuite/timetable-api/internal/models"
	"github.com/acadsuite/timetable-api/internal/repository"
	appErrors "github.com/acadsuite/timetable-api/pkg/errors"
	"github.com/acadsuite/timetable-api/pkg/jobs"
)

type dispatcherStub struct {
	tasks []jobs.Task
	err   error
}

func (d *dispatcherStub) Enqueue(task jobs.Task) error {
	if d.err != nil {
		return d.err
	}
	d.tasks = append(d.tasks, task)
	return nil
}

func newTestExportJobService(t *testing.T) (*ExportJobService, *repository.ExportJobRepository, *repository.TimetableRepository, *dispatcherStub) {
	t.Helper()
	jobRepo := repository.NewExportJobRepository()
	tableRepo := repository.NewTimetableRepository()
	queue := &dispatcherStub{}
	exporter := newTestExportService(t)
	svc := NewExportJobService(jobRepo, tableRepo, queue, exporter, nil, ExportJobServiceConfig{
		ResultTTL:  time.Hour,
		MaxRetries: 2,
	}, zap.NewNop())
	return svc, jobRepo, tableRepo, queue
}

func TestExportJobServiceCreateJob(t *testing.T) {
	svc, jobRepo, tableRepo, queue := newTestExportJobService(t)
	tableRepo.Save(sampleTimetable())

	resp, err := svc.CreateJob(context.Background(), dto.CreateExportRequest{
		TimetableID: "tt-1",
		Format:      models.ExportFormatCSV,
		Labels:      sampleLabels(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, models.ExportStatusQueued, resp.Status)
	require.Len(t, queue.tasks, 1)
	assert.Equal(t, resp.ID, queue.tasks[0].ID)

	stored, err := jobRepo.Get(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportFormatCSV, stored.Format)
}

func TestExportJobServiceCreateJobUnknownTimetable(t *testing.T) {
	svc, _, _, _ := newTestExportJobService(t)

	_, err := svc.CreateJob(context.Background(), dto.CreateExportRequest{
		TimetableID: "missing",
		Format:      models.ExportFormatCSV,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}

func TestExportJobServiceCreateJobBadFormat(t *testing.T) {
	svc, _, tableRepo, _ := newTestExportJobService(t)
	tableRepo.Save(sampleTimetable())

	_, err := svc.CreateJob(context.Background(), dto.CreateExportRequest{
		TimetableID: "tt-1",
		Format:      models.ExportFormat("xlsx"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrExportFormat.Code, appErrors.FromError(err).Code)
}

func TestExportJobServiceCreateJobEnqueueFailure(t *testing.T) {
	svc, jobRepo, tableRepo, queue := newTestExportJobService(t)
	tableRepo.Save(sampleTimetable())
	queue.err = errors.New("queue closed")

	_, err := svc.CreateJob(context.Background(), dto.CreateExportRequest{
		TimetableID: "tt-1",
		Format:      models.ExportFormatCSV,
	})
	require.Error(t, err)
	assert.Empty(t, queue.tasks)
	_ = jobRepo
}

func TestExportJobServiceHandleRendersAndFinishes(t *testing.T) {
	svc, jobRepo, tableRepo, queue := newTestExportJobService(t)
	tableRepo.Save(sampleTimetable())

	resp, err := svc.CreateJob(context.Background(), dto.CreateExportRequest{
		TimetableID: "tt-1",
		Format:      models.ExportFormatCSV,
		Labels:      sampleLabels(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Handle(context.Background(), queue.tasks[0]))

	job, err := jobRepo.Get(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFinished, job.Status)
	assert.Equal(t, 100, job.Progress)
	require.NotNil(t, job.ResultURL)
	require.NotNil(t, job.ExpiresAt)

	// The signed URL resolves to the rendered file.
	parts := strings.Split(*job.ResultURL, "/")
	token := parts[len(parts)-1]
	download, err := svc.ResolveDownload(context.Background(), token)
	require.NoError(t, err)
	defer download.File.Close() //nolint:errcheck
	assert.Equal(t, models.ExportFormatCSV, download.Format)
	assert.True(t, strings.HasSuffix(download.Filename, ".csv"))
}

func TestExportJobServiceHandleMissingTimetableExhaustsRetries(t *testing.T) {
	svc, jobRepo, tableRepo, queue := newTestExportJobService(t)
	tableRepo.Save(sampleTimetable())

	resp, err := svc.CreateJob(context.Background(), dto.CreateExportRequest{
		TimetableID: "tt-1",
		Format:      models.ExportFormatCSV,
	})
	require.NoError(t, err)

	// Timetable deleted between enqueue and processing.
	require.NoError(t, tableRepo.Delete("tt-1"))

	task := queue.tasks[0]
	require.Error(t, svc.Handle(context.Background(), task))
	job, err := jobRepo.Get(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, job.Status)

	task.Attempt = 2
	require.Error(t, svc.Handle(context.Background(), task))
	job, err = jobRepo.Get(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFailed, job.Status)
	require.NotNil(t, job.ErrorMessage)
}

func TestExportJobServiceResolveDownloadErrors(t *testing.T) {
	svc, _, tableRepo, queue := newTestExportJobService(t)
	tableRepo.Save(sampleTimetable())

	_, err := svc.ResolveDownload(context.Background(), "garbage")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrTokenInvalid.Code, appErrors.FromError(err).Code)

	resp, err := svc.CreateJob(context.Background(), dto.CreateExportRequest{
		TimetableID: "tt-1",
		Format:      models.ExportFormatCSV,
	})
	require.NoError(t, err)
	_ = queue

	// Valid token for a job that has not finished rendering yet.
	exporter := svc.exporter.(*ExportService)
	token, _, err := exporter.signer.Generate(resp.ID, "timetables/pending.csv")
	require.NoError(t, err)

	_, err = svc.ResolveDownload(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrExportPending.Code, appErrors.FromError(err).Code)
}
