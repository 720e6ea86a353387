package engine

import "github.com/acadsuite/timetable-api/internal/models"

// calculateStatistics derives aggregate utilisation from the finished entry
// set. Empty divisor sets (no faculty, no rooms, zero-width grid, zero
// max hours) contribute 0% rather than propagating NaN.
func calculateStatistics(req Request, entries []models.TimetableEntry, conflictCount int) models.TimetableStatistics {
	stats := models.TimetableStatistics{
		TotalClasses: len(entries),
		Conflicts:    conflictCount,
	}

	facultyHours := make(map[string]int)
	roomHours := make(map[string]int)
	for _, entry := range entries {
		facultyHours[entry.FacultyID]++
		roomHours[entry.RoomID]++
	}

	// Average over every faculty member in the input, including the ones
	// assigned nothing.
	if len(req.Faculty) > 0 {
		var total float64
		for _, member := range req.Faculty {
			if member.MaxHours <= 0 {
				continue
			}
			total += float64(facultyHours[member.ID]) / float64(member.MaxHours) * 100
		}
		stats.FacultyUtilization = total / float64(len(req.Faculty))
	}

	// Room capacity is the full grid, not the count of used slots.
	maxPossibleHours := gridCapacityHours(req.Preferences)
	if len(req.Rooms) > 0 && maxPossibleHours > 0 {
		var total float64
		for _, room := range req.Rooms {
			total += float64(roomHours[room.ID]) / float64(maxPossibleHours) * 100
		}
		stats.RoomUtilization = total / float64(len(req.Rooms))
	}

	return stats
}

func gridCapacityHours(prefs models.SchedulePreferences) int {
	start, err := parseClock(prefs.StartTime)
	if err != nil {
		return 0
	}
	end, err := parseClock(prefs.EndTime)
	if err != nil {
		return 0
	}
	if end <= start {
		return 0
	}
	return len(prefs.WorkingDays) * (end - start) / 60
}
