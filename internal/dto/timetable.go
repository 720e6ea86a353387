package dto

import "github.com/acadsuite/timetable-api/internal/models"

// GenerateTimetableRequest is the full input snapshot for one generation.
// All four collections must be present; preferences fall back to the
// standard working week when omitted.
type GenerateTimetableRequest struct {
	Courses     []models.Course             `json:"courses" validate:"required"`
	Faculty     []models.Faculty            `json:"faculty" validate:"required"`
	Rooms       []models.Room               `json:"rooms" validate:"required"`
	Students    []models.Student            `json:"students" validate:"required"`
	Preferences *models.SchedulePreferences `json:"preferences"`
}

// TimetableListQuery filters timetable summaries.
type TimetableListQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"limit"`
}
