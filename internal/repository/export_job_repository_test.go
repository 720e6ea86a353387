package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadsuite/timetable-api/internal/models"
	appErrors "github.com/acadsuite/timetable-api/pkg/errors"
)

func queuedJob(id string) models.ExportJob {
	return models.ExportJob{
		ID:          id,
		TimetableID: "tt-1",
		Format:      models.ExportFormatCSV,
		Status:      models.ExportStatusQueued,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestExportJobRepositoryLifecycle(t *testing.T) {
	repo := NewExportJobRepository()
	repo.Create(queuedJob("exp-1"))

	require.NoError(t, repo.UpdateStatus("exp-1", models.ExportStatusProcessing, 50))
	job, err := repo.Get("exp-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusProcessing, job.Status)
	assert.Equal(t, 50, job.Progress)

	expires := time.Now().UTC().Add(time.Hour)
	require.NoError(t, repo.MarkFinished("exp-1", "timetables/tt-1.csv", "/exports/download/token", expires))
	job, err = repo.Get("exp-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFinished, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.Equal(t, "timetables/tt-1.csv", job.RelativePath)
	require.NotNil(t, job.ResultURL)
	require.NotNil(t, job.FinishedAt)
	require.NotNil(t, job.ExpiresAt)
}

func TestExportJobRepositoryMarkFailed(t *testing.T) {
	repo := NewExportJobRepository()
	repo.Create(queuedJob("exp-1"))

	require.NoError(t, repo.MarkFailed("exp-1", "render failed"))
	job, err := repo.Get("exp-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFailed, job.Status)
	require.NotNil(t, job.ErrorMessage)
	assert.Equal(t, "render failed", *job.ErrorMessage)
}

func TestExportJobRepositoryUnknownID(t *testing.T) {
	repo := NewExportJobRepository()
	_, err := repo.Get("missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateStatus("missing", models.ExportStatusProcessing, 0), appErrors.ErrNotFound)
	assert.ErrorIs(t, repo.MarkFailed("missing", "x"), appErrors.ErrNotFound)
}

func TestExportJobRepositoryDeleteExpired(t *testing.T) {
	repo := NewExportJobRepository()
	now := time.Now().UTC()

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	expired := queuedJob("exp-old")
	expired.RelativePath = "timetables/tt-old.csv"
	expired.ExpiresAt = &past
	repo.Create(expired)

	fresh := queuedJob("exp-new")
	fresh.ExpiresAt = &future
	repo.Create(fresh)

	removed := repo.DeleteExpired(now)
	assert.Equal(t, []string{"timetables/tt-old.csv"}, removed)

	_, err := repo.Get("exp-old")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	_, err = repo.Get("exp-new")
	assert.NoError(t, err)
}
