package service

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/acadsuite/timetable-api/internal/dto"
	"github.com/acadsuite/timetable-api/internal/models"
	"github.com/acadsuite/timetable-api/pkg/export"
	"github.com/acadsuite/timetable-api/pkg/storage"
)

// sheetDays and sheetTimes fix the rendered grid shape: one column per day
// Monday through Saturday, one row per hourly slot from 09:00.
var (
	sheetDays  = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	sheetTimes = []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00", "17:00"}
)

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export rendering and download links.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful rendering metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// ExportService turns stored timetables into rendered artifacts: CSV and
// PDF files on disk behind signed URLs, and the in-band sheet grid.
type ExportService struct {
	storage exportStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(store exportStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		storage: store,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
	}
}

// Render builds the grid dataset for the job's timetable, renders it in the
// requested format, and stores the file behind a signed download token.
func (s *ExportService) Render(job models.ExportJob, table models.GeneratedTimetable, labels dto.ExportLabels) (*ExportResult, error) {
	dataset := s.buildDataset(table, labels)
	title := fmt.Sprintf("Timetable %s", table.ID)

	var payload []byte
	var err error
	switch job.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("timetables/%s.%s", job.ID, job.Format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/exports/download/%s", prefix, token),
		Format:       job.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// BuildSheet produces the spreadsheet-feed projection: a header row of days
// and one row per hourly slot with multi-line cells.
func (s *ExportService) BuildSheet(table models.GeneratedTimetable, labels dto.ExportLabels) dto.SheetGrid {
	index := newLabelIndex(labels)
	values := make([][]string, 0, len(sheetTimes)+1)
	values = append(values, append([]string{"Time"}, sheetDays...))

	for _, start := range sheetTimes {
		row := make([]string, 0, len(sheetDays)+1)
		row = append(row, start)
		for _, day := range sheetDays {
			if entry, ok := entryAt(table.Entries, day, start); ok {
				row = append(row, index.cell(entry, "\n"))
			} else {
				row = append(row, "")
			}
		}
		values = append(values, row)
	}

	return dto.SheetGrid{
		Title:  fmt.Sprintf("Timetable %s", table.ID),
		Values: values,
	}
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (exportID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to a stored export file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes artifacts older than the TTL from disk.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildDataset(table models.GeneratedTimetable, labels dto.ExportLabels) export.Dataset {
	index := newLabelIndex(labels)
	headers := append([]string{"Time"}, sheetDays...)

	rows := make([]map[string]string, 0, len(sheetTimes))
	for _, start := range sheetTimes {
		row := map[string]string{"Time": start}
		for _, day := range sheetDays {
			if entry, ok := entryAt(table.Entries, day, start); ok {
				row[day] = index.cell(entry, " | ")
			} else {
				row[day] = ""
			}
		}
		rows = append(rows, row)
	}

	stats := export.Section{
		Title: "Statistics",
		Rows: [][]string{
			{"Total Classes", fmt.Sprintf("%d", table.Statistics.TotalClasses)},
			{"Faculty Utilization", fmt.Sprintf("%.1f%%", table.Statistics.FacultyUtilization)},
			{"Room Utilization", fmt.Sprintf("%.1f%%", table.Statistics.RoomUtilization)},
			{"Conflicts", fmt.Sprintf("%d", table.Statistics.Conflicts)},
		},
	}

	sections := []export.Section{stats}
	if len(table.Conflicts) > 0 {
		conflictRows := make([][]string, 0, len(table.Conflicts))
		for _, conflict := range table.Conflicts {
			conflictRows = append(conflictRows, []string{string(conflict.Type), conflict.Description})
		}
		sections = append(sections, export.Section{Title: "Conflicts", Rows: conflictRows})
	}

	return export.Dataset{Headers: headers, Rows: rows, Sections: sections}
}

// entryAt finds the first entry committed to the given day and start time.
func entryAt(entries []models.TimetableEntry, day, start string) (models.TimetableEntry, bool) {
	for _, entry := range entries {
		if entry.TimeSlot.Day == day && entry.TimeSlot.StartTime == start {
			return entry, true
		}
	}
	return models.TimetableEntry{}, false
}

type labelIndex struct {
	courses map[string]models.Course
	faculty map[string]string
	rooms   map[string]string
}

func newLabelIndex(labels dto.ExportLabels) labelIndex {
	index := labelIndex{
		courses: make(map[string]models.Course, len(labels.Courses)),
		faculty: make(map[string]string, len(labels.Faculty)),
		rooms:   make(map[string]string, len(labels.Rooms)),
	}
	for _, course := range labels.Courses {
		index.courses[course.ID] = course
	}
	for _, member := range labels.Faculty {
		index.faculty[member.ID] = member.Name
	}
	for _, room := range labels.Rooms {
		index.rooms[room.ID] = room.Name
	}
	return index
}

// cell renders one grid cell as course, faculty, room joined by sep.
func (i labelIndex) cell(entry models.TimetableEntry, sep string) string {
	courseLabel := entry.CourseID
	if course, ok := i.courses[entry.CourseID]; ok {
		courseLabel = fmt.Sprintf("%s - %s", course.Code, course.Name)
	}
	facultyLabel := entry.FacultyID
	if name, ok := i.faculty[entry.FacultyID]; ok {
		facultyLabel = name
	}
	roomLabel := entry.RoomID
	if name, ok := i.rooms[entry.RoomID]; ok {
		roomLabel = name
	}
	return strings.Join([]string{courseLabel, facultyLabel, roomLabel}, sep)
}
