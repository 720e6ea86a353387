package engine

import (
	"fmt"

	"github.com/acadsuite/timetable-api/internal/models"
)

// DetectOverlaps re-verifies the finished entry set for genuine interval
// overlaps per faculty and per room. The assigner's occupancy guards already
// forbid exact-slot collisions, so under normal operation this pass finds
// nothing; it stays as an independent post-condition check and is exported
// so tests can assert the invariant directly on any entry set.
func DetectOverlaps(entries []models.TimetableEntry, faculty []models.Faculty, rooms []models.Room) []models.Conflict {
	var conflicts []models.Conflict

	byFaculty, facultyOrder := groupBy(entries, func(e models.TimetableEntry) string { return e.FacultyID })
	for _, facultyID := range facultyOrder {
		overlapping := findTimeOverlaps(byFaculty[facultyID])
		if len(overlapping) == 0 {
			continue
		}
		conflicts = append(conflicts, models.Conflict{
			Type:        models.ConflictTypeFaculty,
			Description: fmt.Sprintf("Faculty scheduling conflict for %s", facultyName(faculty, facultyID)),
			Entries:     entryIDs(overlapping),
		})
	}

	byRoom, roomOrder := groupBy(entries, func(e models.TimetableEntry) string { return e.RoomID })
	for _, roomID := range roomOrder {
		overlapping := findTimeOverlaps(byRoom[roomID])
		if len(overlapping) == 0 {
			continue
		}
		conflicts = append(conflicts, models.Conflict{
			Type:        models.ConflictTypeRoom,
			Description: fmt.Sprintf("Room scheduling conflict for %s", roomName(rooms, roomID)),
			Entries:     entryIDs(overlapping),
		})
	}

	return conflicts
}

// groupBy returns groups plus keys in first-seen order so results stay
// deterministic for identical input.
func groupBy(entries []models.TimetableEntry, key func(models.TimetableEntry) string) (map[string][]models.TimetableEntry, []string) {
	groups := make(map[string][]models.TimetableEntry)
	var order []string
	for _, entry := range entries {
		k := key(entry)
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], entry)
	}
	return groups, order
}

// findTimeOverlaps compares every pair within a resource group and returns
// the entries participating in any same-day interval overlap.
func findTimeOverlaps(entries []models.TimetableEntry) []models.TimetableEntry {
	var overlapping []models.TimetableEntry
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			if slotsOverlap(entries[i].TimeSlot, entries[j].TimeSlot) {
				overlapping = append(overlapping, entries[i], entries[j])
			}
		}
	}
	return overlapping
}

func slotsOverlap(a, b models.TimeSlot) bool {
	if a.Day != b.Day {
		return false
	}
	start1 := mustParseClock(a.StartTime)
	end1 := mustParseClock(a.EndTime)
	start2 := mustParseClock(b.StartTime)
	end2 := mustParseClock(b.EndTime)
	return start1 < end2 && start2 < end1
}

func entryIDs(entries []models.TimetableEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}
	return ids
}

func facultyName(faculty []models.Faculty, id string) string {
	for _, member := range faculty {
		if member.ID == id {
			return member.Name
		}
	}
	return id
}

func roomName(rooms []models.Room, id string) string {
	for _, room := range rooms {
		if room.ID == id {
			return room.Name
		}
	}
	return id
}
