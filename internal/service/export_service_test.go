package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acadsuite/timetable-api/internal/dto"
	"github.com/acadsuite/timetable-api/internal/models"
	"github.com/acadsuite/timetable-api/pkg/storage"
)

func sampleTimetable() models.GeneratedTimetable {
	slot := models.TimeSlot{Day: "Monday", StartTime: "09:00", EndTime: "10:00", Duration: 60}
	return models.GeneratedTimetable{
		ID: "tt-1",
		Entries: []models.TimetableEntry{{
			ID:        models.EntryID("c1", "f1", "r1", slot),
			CourseID:  "c1",
			FacultyID: "f1",
			RoomID:    "r1",
			TimeSlot:  slot,
			Students:  []string{"s1"},
			Type:      models.ClassTypeTheory,
		}},
		Conflicts: []models.Conflict{{
			Type:        models.ConflictTypeRoom,
			Description: "Room scheduling conflict for Room 101",
			Entries:     []string{"e1", "e2"},
		}},
		Statistics: models.TimetableStatistics{
			TotalClasses:       1,
			FacultyUtilization: 10.0,
			RoomUtilization:    2.5,
			Conflicts:          1,
		},
		CreatedAt: time.Now().UTC(),
	}
}

func sampleLabels() dto.ExportLabels {
	return dto.ExportLabels{
		Courses: []models.Course{{ID: "c1", Name: "Algorithms", Code: "CS301"}},
		Faculty: []models.Faculty{{ID: "f1", Name: "Dr. Rao"}},
		Rooms:   []models.Room{{ID: "r1", Name: "Room 101"}},
	}
}

func newTestExportService(t *testing.T) *ExportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	return NewExportService(store, signer, ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}, zap.NewNop(), nil, nil)
}

func TestExportServiceBuildSheet(t *testing.T) {
	svc := newTestExportService(t)

	grid := svc.BuildSheet(sampleTimetable(), sampleLabels())
	assert.Equal(t, "Timetable tt-1", grid.Title)
	require.Len(t, grid.Values, 10)
	assert.Equal(t, []string{"Time", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}, grid.Values[0])

	mondayNine := grid.Values[1][1]
	assert.Equal(t, "CS301 - Algorithms\nDr. Rao\nRoom 101", mondayNine)
	assert.Equal(t, "", grid.Values[1][2])
	assert.Equal(t, "", grid.Values[2][1])
}

func TestExportServiceBuildSheetFallsBackToIDs(t *testing.T) {
	svc := newTestExportService(t)

	grid := svc.BuildSheet(sampleTimetable(), dto.ExportLabels{})
	assert.Equal(t, "c1\nf1\nr1", grid.Values[1][1])
}

func TestExportServiceRenderCSV(t *testing.T) {
	svc := newTestExportService(t)

	job := models.ExportJob{ID: "exp-1", TimetableID: "tt-1", Format: models.ExportFormatCSV}
	result, err := svc.Render(job, sampleTimetable(), sampleLabels())
	require.NoError(t, err)
	assert.Equal(t, "timetables/exp-1.csv", result.RelativePath)
	assert.True(t, strings.HasPrefix(result.URL, "/api/v1/exports/download/"))

	exportID, relPath, _, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	assert.Equal(t, "exp-1", exportID)
	assert.Equal(t, result.RelativePath, relPath)

	file, err := svc.Open(result.RelativePath)
	require.NoError(t, err)
	defer file.Close() //nolint:errcheck

	content := make([]byte, 8192)
	n, _ := file.Read(content)
	text := string(content[:n])
	assert.Contains(t, text, "Time,Monday,Tuesday,Wednesday,Thursday,Friday,Saturday")
	assert.Contains(t, text, "CS301 - Algorithms | Dr. Rao | Room 101")
	assert.Contains(t, text, "Statistics")
	assert.Contains(t, text, "Room scheduling conflict for Room 101")
}

func TestExportServiceRenderPDF(t *testing.T) {
	svc := newTestExportService(t)

	job := models.ExportJob{ID: "exp-2", TimetableID: "tt-1", Format: models.ExportFormatPDF}
	result, err := svc.Render(job, sampleTimetable(), sampleLabels())
	require.NoError(t, err)
	assert.Equal(t, "timetables/exp-2.pdf", result.RelativePath)

	file, err := svc.Open(result.RelativePath)
	require.NoError(t, err)
	defer file.Close() //nolint:errcheck

	header := make([]byte, 4)
	_, err = file.Read(header)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(header))
}

func TestExportServiceRenderUnknownFormat(t *testing.T) {
	svc := newTestExportService(t)

	job := models.ExportJob{ID: "exp-3", TimetableID: "tt-1", Format: models.ExportFormat("xlsx")}
	_, err := svc.Render(job, sampleTimetable(), sampleLabels())
	require.Error(t, err)
}
