package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/acadsuite/timetable-api/internal/models"
)

// SlotMinutes is the fixed length of every schedulable block. Preferences
// may carry a break duration but the grid stays contiguous.
const SlotMinutes = 60

// BuildTimeGrid expands working-day preferences into the ordered slot
// sequence for one generation run: one slot per (day, hour) pair covering
// [start, end), days in the caller-supplied order.
func BuildTimeGrid(prefs models.SchedulePreferences) ([]models.TimeSlot, error) {
	start, err := parseClock(prefs.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q: %w", prefs.StartTime, err)
	}
	end, err := parseClock(prefs.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end time %q: %w", prefs.EndTime, err)
	}
	if start >= end {
		return nil, fmt.Errorf("start time %q must precede end time %q", prefs.StartTime, prefs.EndTime)
	}
	if len(prefs.WorkingDays) == 0 {
		return nil, fmt.Errorf("at least one working day is required")
	}

	var slots []models.TimeSlot
	for _, day := range prefs.WorkingDays {
		for current := start; current < end; current += SlotMinutes {
			slots = append(slots, models.TimeSlot{
				Day:       day,
				StartTime: formatClock(current),
				EndTime:   formatClock(current + SlotMinutes),
				Duration:  SlotMinutes,
			})
		}
	}
	return slots, nil
}

// parseClock converts "HH:MM" into minutes since midnight.
func parseClock(raw string) (int, error) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("expected HH:MM")
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("expected HH:MM")
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("expected HH:MM")
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock out of range")
	}
	return hours*60 + minutes, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// mustParseClock is used on slot times the grid itself produced.
func mustParseClock(raw string) int {
	value, err := parseClock(raw)
	if err != nil {
		return 0
	}
	return value
}
