package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/acadsuite/timetable-api/internal/models"
)

func TestCalculateStatisticsAveragesOverAllFaculty(t *testing.T) {
	req := Request{
		Faculty: []models.Faculty{
			{ID: "f1", MaxHours: 10},
			{ID: "f2", MaxHours: 20},
		},
		Rooms:       []models.Room{{ID: "r1"}},
		Preferences: models.SchedulePreferences{StartTime: "09:00", EndTime: "17:00", WorkingDays: []string{"Monday", "Tuesday"}},
	}
	entries := []models.TimetableEntry{
		{FacultyID: "f1", RoomID: "r1", TimeSlot: slotAt("Monday", "09:00", "10:00")},
		{FacultyID: "f1", RoomID: "r1", TimeSlot: slotAt("Monday", "10:00", "11:00")},
		{FacultyID: "f2", RoomID: "r1", TimeSlot: slotAt("Tuesday", "09:00", "10:00")},
	}

	stats := calculateStatistics(req, entries, 1)

	assert.Equal(t, 3, stats.TotalClasses)
	assert.Equal(t, 1, stats.Conflicts)
	// f1: 2/10 = 20%, f2: 1/20 = 5%; mean 12.5%.
	assert.InDelta(t, 12.5, stats.FacultyUtilization, 0.001)
	// r1 holds 3 of 2 days x 8 hours = 16 possible hours.
	assert.InDelta(t, 18.75, stats.RoomUtilization, 0.001)
}

func TestCalculateStatisticsEmptyDivisorsYieldZero(t *testing.T) {
	stats := calculateStatistics(Request{
		Preferences: models.SchedulePreferences{StartTime: "09:00", EndTime: "17:00", WorkingDays: []string{"Monday"}},
	}, nil, 0)

	assert.Zero(t, stats.TotalClasses)
	assert.Zero(t, stats.FacultyUtilization)
	assert.Zero(t, stats.RoomUtilization)
}

func TestCalculateStatisticsSkipsZeroMaxHours(t *testing.T) {
	req := Request{
		Faculty: []models.Faculty{
			{ID: "f1", MaxHours: 0},
			{ID: "f2", MaxHours: 8},
		},
		Rooms:       []models.Room{{ID: "r1"}},
		Preferences: models.SchedulePreferences{StartTime: "09:00", EndTime: "17:00", WorkingDays: []string{"Monday"}},
	}
	entries := []models.TimetableEntry{
		{FacultyID: "f2", RoomID: "r1", TimeSlot: slotAt("Monday", "09:00", "10:00")},
	}

	stats := calculateStatistics(req, entries, 0)

	// f2 at 1/8 = 12.5%, averaged over both members.
	assert.InDelta(t, 6.25, stats.FacultyUtilization, 0.001)
}

func TestCalculateStatisticsUsesFullGridCapacityForRooms(t *testing.T) {
	req := Request{
		Rooms:       []models.Room{{ID: "r1"}, {ID: "r2"}},
		Preferences: models.SchedulePreferences{StartTime: "09:00", EndTime: "11:00", WorkingDays: []string{"Monday"}},
	}
	entries := []models.TimetableEntry{
		{RoomID: "r1", TimeSlot: slotAt("Monday", "09:00", "10:00")},
		{RoomID: "r1", TimeSlot: slotAt("Monday", "10:00", "11:00")},
	}

	stats := calculateStatistics(req, entries, 0)

	// r1 fully used (100%), r2 idle (0%); capacity is 2 hours per room.
	assert.InDelta(t, 50.0, stats.RoomUtilization, 0.001)
}
