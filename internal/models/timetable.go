package models

import (
	"fmt"
	"time"
)

// ClassType marks whether an entry delivers a theory or practical hour.
type ClassType string

const (
	ClassTypeTheory    ClassType = "theory"
	ClassTypePractical ClassType = "practical"
)

// ConflictType classifies recorded scheduling findings.
type ConflictType string

const (
	ConflictTypeFaculty ConflictType = "faculty"
	ConflictTypeRoom    ConflictType = "room"
	ConflictTypeStudent ConflictType = "student"
)

// TimeSlot is one fixed-duration schedulable unit on a working day. All
// slots produced for a generation run share the same duration and order
// totally by (day, start time).
type TimeSlot struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Duration  int    `json:"duration"`
}

// TimetableEntry commits one course-hour to a faculty member, a room, and a
// slot. Entries are immutable; the identity is derived from the commitment
// itself and is unique by construction.
type TimetableEntry struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	FacultyID string    `json:"facultyId"`
	RoomID    string    `json:"roomId"`
	TimeSlot  TimeSlot  `json:"timeSlot"`
	Students  []string  `json:"students"`
	Type      ClassType `json:"type"`
}

// EntryID derives the canonical entry identity for a commitment.
func EntryID(courseID, facultyID, roomID string, slot TimeSlot) string {
	return fmt.Sprintf("%s-%s-%s-%s-%s", courseID, facultyID, roomID, slot.Day, slot.StartTime)
}

// Conflict records a scheduling shortfall or resource clash. Conflicts are
// append-only findings inside an otherwise successful result, not errors.
type Conflict struct {
	Type        ConflictType `json:"type"`
	Description string       `json:"description"`
	Entries     []string     `json:"entries"`
}

// TimetableStatistics aggregates utilisation over a finished entry set.
type TimetableStatistics struct {
	TotalClasses       int     `json:"totalClasses"`
	FacultyUtilization float64 `json:"facultyUtilization"`
	RoomUtilization    float64 `json:"roomUtilization"`
	Conflicts          int     `json:"conflicts"`
}

// SchedulePreferences shape the time grid for one generation request.
// BreakDuration is accepted for interface compatibility but slots remain
// contiguous 60-minute blocks.
type SchedulePreferences struct {
	StartTime     string   `json:"startTime"`
	EndTime       string   `json:"endTime"`
	WorkingDays   []string `json:"workingDays"`
	BreakDuration int      `json:"breakDuration"`
}

// GeneratedTimetable is the immutable product of one generation request.
type GeneratedTimetable struct {
	ID         string              `json:"id"`
	Entries    []TimetableEntry    `json:"entries"`
	Conflicts  []Conflict          `json:"conflicts"`
	Statistics TimetableStatistics `json:"statistics"`
	CreatedAt  time.Time           `json:"createdAt"`
}

// TimetableSummary is the listing projection: identity, creation time, and
// aggregate numbers without the entry payload.
type TimetableSummary struct {
	ID         string              `json:"id"`
	CreatedAt  time.Time           `json:"createdAt"`
	Statistics TimetableStatistics `json:"statistics"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
