package engine

import "github.com/acadsuite/timetable-api/internal/models"

// resourceIndex answers occupancy queries against the entries placed so far
// in the current run. All checks compare exact (day, start time) identity
// rather than intervals, which is sound because every slot in a run comes
// from the same fixed grid: two distinct slots can never overlap without
// being identical.
type resourceIndex struct {
	entries *[]models.TimetableEntry
}

// slotTaken reports whether any entry already occupies the slot, regardless
// of faculty or room.
func (ix resourceIndex) slotTaken(slot models.TimeSlot) bool {
	for _, entry := range *ix.entries {
		if entry.TimeSlot.Day == slot.Day && entry.TimeSlot.StartTime == slot.StartTime {
			return true
		}
	}
	return false
}

// facultyFree reports whether one of the member's availability windows
// contains the slot and they hold no commitment at that slot yet.
func (ix resourceIndex) facultyFree(member models.Faculty, slot models.TimeSlot) bool {
	if !windowContains(member.Availability, slot) {
		return false
	}
	for _, entry := range *ix.entries {
		if entry.FacultyID == member.ID &&
			entry.TimeSlot.Day == slot.Day &&
			entry.TimeSlot.StartTime == slot.StartTime {
			return false
		}
	}
	return true
}

// roomTaken reports whether the room already holds an entry at the slot.
func (ix resourceIndex) roomTaken(roomID string, slot models.TimeSlot) bool {
	for _, entry := range *ix.entries {
		if entry.RoomID == roomID &&
			entry.TimeSlot.Day == slot.Day &&
			entry.TimeSlot.StartTime == slot.StartTime {
			return true
		}
	}
	return false
}

func windowContains(windows []models.AvailabilityWindow, slot models.TimeSlot) bool {
	slotStart := mustParseClock(slot.StartTime)
	slotEnd := mustParseClock(slot.EndTime)
	for _, window := range windows {
		if window.Day != slot.Day {
			continue
		}
		if mustParseClock(window.StartTime) <= slotStart && mustParseClock(window.EndTime) >= slotEnd {
			return true
		}
	}
	return false
}
