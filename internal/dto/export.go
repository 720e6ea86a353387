package dto

import "github.com/acadsuite/timetable-api/internal/models"

// ExportLabels carries the input collections used to resolve display names
// while rendering. Unknown or omitted resources fall back to their IDs.
type ExportLabels struct {
	Courses []models.Course  `json:"courses"`
	Faculty []models.Faculty `json:"faculty"`
	Rooms   []models.Room    `json:"rooms"`
}

// CreateExportRequest asks for an asynchronous rendering of a stored
// timetable.
type CreateExportRequest struct {
	TimetableID string              `json:"timetableId" validate:"required"`
	Format      models.ExportFormat `json:"format" validate:"required,oneof=csv pdf"`
	Labels      ExportLabels        `json:"labels"`
}

// SheetRequest asks for the synchronous spreadsheet-feed projection.
type SheetRequest struct {
	Labels ExportLabels `json:"labels"`
}

// ExportJobResponse reports job lifecycle state to clients.
type ExportJobResponse struct {
	ID           string              `json:"id"`
	TimetableID  string              `json:"timetableId"`
	Format       models.ExportFormat `json:"format"`
	Status       models.ExportStatus `json:"status"`
	Progress     int                 `json:"progress"`
	ResultURL    *string             `json:"resultUrl,omitempty"`
	ErrorMessage *string             `json:"errorMessage,omitempty"`
}

// SheetGrid is the spreadsheet-feed projection of a timetable: a header row
// followed by one row per hourly slot, one column per day.
type SheetGrid struct {
	Title  string     `json:"title"`
	Values [][]string `json:"values"`
}
