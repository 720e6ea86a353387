package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadsuite/timetable-api/internal/models"
)

func TestBuildTimeGridCoversWindowInDayThenHourOrder(t *testing.T) {
	grid, err := BuildTimeGrid(models.SchedulePreferences{
		StartTime:   "09:00",
		EndTime:     "12:00",
		WorkingDays: []string{"Monday", "Wednesday"},
	})
	require.NoError(t, err)

	require.Len(t, grid, 6)
	assert.Equal(t, models.TimeSlot{Day: "Monday", StartTime: "09:00", EndTime: "10:00", Duration: 60}, grid[0])
	assert.Equal(t, models.TimeSlot{Day: "Monday", StartTime: "11:00", EndTime: "12:00", Duration: 60}, grid[2])
	assert.Equal(t, models.TimeSlot{Day: "Wednesday", StartTime: "09:00", EndTime: "10:00", Duration: 60}, grid[3])
}

func TestBuildTimeGridZeroPadsClocks(t *testing.T) {
	grid, err := BuildTimeGrid(models.SchedulePreferences{
		StartTime:   "08:00",
		EndTime:     "10:00",
		WorkingDays: []string{"Friday"},
	})
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Equal(t, "08:00", grid[0].StartTime)
	assert.Equal(t, "09:00", grid[0].EndTime)
}

func TestBuildTimeGridRejectsBadWindows(t *testing.T) {
	cases := []struct {
		name  string
		prefs models.SchedulePreferences
	}{
		{"start after end", models.SchedulePreferences{StartTime: "17:00", EndTime: "09:00", WorkingDays: []string{"Monday"}}},
		{"start equals end", models.SchedulePreferences{StartTime: "09:00", EndTime: "09:00", WorkingDays: []string{"Monday"}}},
		{"malformed start", models.SchedulePreferences{StartTime: "9am", EndTime: "17:00", WorkingDays: []string{"Monday"}}},
		{"malformed end", models.SchedulePreferences{StartTime: "09:00", EndTime: "25:00", WorkingDays: []string{"Monday"}}},
		{"no working days", models.SchedulePreferences{StartTime: "09:00", EndTime: "17:00"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildTimeGrid(tc.prefs)
			require.Error(t, err)
		})
	}
}

func TestBuildTimeGridIgnoresBreakDuration(t *testing.T) {
	withBreak, err := BuildTimeGrid(models.SchedulePreferences{
		StartTime: "09:00", EndTime: "13:00", WorkingDays: []string{"Monday"}, BreakDuration: 30,
	})
	require.NoError(t, err)
	withoutBreak, err := BuildTimeGrid(models.SchedulePreferences{
		StartTime: "09:00", EndTime: "13:00", WorkingDays: []string{"Monday"},
	})
	require.NoError(t, err)
	assert.Equal(t, withoutBreak, withBreak)
}
