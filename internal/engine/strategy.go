package engine

import "github.com/acadsuite/timetable-api/internal/models"

// SelectionStrategy decides which of the eligible candidates a block is
// committed to. Candidate slices are never empty and preserve the caller's
// ordering: faculty in roster order, slots in grid order, rooms in inventory
// order. The strategy is consulted once per course for faculty and once per
// block for slot and room.
type SelectionStrategy interface {
	PickFaculty(candidates []models.Faculty) models.Faculty
	PickSlot(candidates []models.TimeSlot) models.TimeSlot
	PickRoom(candidates []models.Room) models.Room
}

// FirstFit always takes the first eligible candidate. This makes input
// order the sole determinant of priority on contested resources and means a
// course never falls back to a second qualified faculty member even when
// the first one runs out of free slots.
type FirstFit struct{}

func (FirstFit) PickFaculty(candidates []models.Faculty) models.Faculty {
	return candidates[0]
}

func (FirstFit) PickSlot(candidates []models.TimeSlot) models.TimeSlot {
	return candidates[0]
}

func (FirstFit) PickRoom(candidates []models.Room) models.Room {
	return candidates[0]
}
