package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadsuite/timetable-api/internal/models"
)

func slotAt(day, start, end string) models.TimeSlot {
	return models.TimeSlot{Day: day, StartTime: start, EndTime: end, Duration: 60}
}

func TestDetectOverlapsFindsFacultyDoubleBooking(t *testing.T) {
	entries := []models.TimetableEntry{
		{ID: "e1", FacultyID: "f1", RoomID: "r1", TimeSlot: slotAt("Monday", "09:00", "10:00")},
		{ID: "e2", FacultyID: "f1", RoomID: "r2", TimeSlot: slotAt("Monday", "09:00", "10:00")},
	}
	faculty := []models.Faculty{{ID: "f1", Name: "Dr. Rao"}}

	conflicts := DetectOverlaps(entries, faculty, nil)

	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictTypeFaculty, conflicts[0].Type)
	assert.Contains(t, conflicts[0].Description, "Dr. Rao")
	assert.ElementsMatch(t, []string{"e1", "e2"}, conflicts[0].Entries)
}

func TestDetectOverlapsFindsRoomDoubleBooking(t *testing.T) {
	entries := []models.TimetableEntry{
		{ID: "e1", FacultyID: "f1", RoomID: "r1", TimeSlot: slotAt("Tuesday", "10:00", "11:00")},
		{ID: "e2", FacultyID: "f2", RoomID: "r1", TimeSlot: slotAt("Tuesday", "10:30", "11:30")},
	}
	rooms := []models.Room{{ID: "r1", Name: "Lab A"}}

	conflicts := DetectOverlaps(entries, nil, rooms)

	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictTypeRoom, conflicts[0].Type)
	assert.Contains(t, conflicts[0].Description, "Lab A")
}

func TestDetectOverlapsIgnoresDifferentDaysAndAdjacentHours(t *testing.T) {
	entries := []models.TimetableEntry{
		{ID: "e1", FacultyID: "f1", RoomID: "r1", TimeSlot: slotAt("Monday", "09:00", "10:00")},
		{ID: "e2", FacultyID: "f1", RoomID: "r1", TimeSlot: slotAt("Tuesday", "09:00", "10:00")},
		{ID: "e3", FacultyID: "f1", RoomID: "r1", TimeSlot: slotAt("Monday", "10:00", "11:00")},
	}

	assert.Empty(t, DetectOverlaps(entries, nil, nil))
}

func TestDetectOverlapsGroupsPerResource(t *testing.T) {
	entries := []models.TimetableEntry{
		{ID: "e1", FacultyID: "f1", RoomID: "r1", TimeSlot: slotAt("Monday", "09:00", "10:00")},
		{ID: "e2", FacultyID: "f1", RoomID: "r2", TimeSlot: slotAt("Monday", "09:00", "10:00")},
		{ID: "e3", FacultyID: "f2", RoomID: "r3", TimeSlot: slotAt("Monday", "11:00", "12:00")},
		{ID: "e4", FacultyID: "f2", RoomID: "r3", TimeSlot: slotAt("Monday", "11:00", "12:00")},
	}

	conflicts := DetectOverlaps(entries, nil, nil)

	// One faculty conflict per double-booked member, one room conflict for r3.
	require.Len(t, conflicts, 3)
	assert.Equal(t, models.ConflictTypeFaculty, conflicts[0].Type)
	assert.Equal(t, models.ConflictTypeFaculty, conflicts[1].Type)
	assert.Equal(t, models.ConflictTypeRoom, conflicts[2].Type)
}

func TestDetectOverlapsFallsBackToIDsForUnknownResources(t *testing.T) {
	entries := []models.TimetableEntry{
		{ID: "e1", FacultyID: "ghost", RoomID: "r1", TimeSlot: slotAt("Monday", "09:00", "10:00")},
		{ID: "e2", FacultyID: "ghost", RoomID: "r2", TimeSlot: slotAt("Monday", "09:00", "10:00")},
	}

	conflicts := DetectOverlaps(entries, nil, nil)
	require.Len(t, conflicts, 1)
	assert.Contains(t, conflicts[0].Description, "ghost")
}
