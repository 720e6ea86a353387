package engine

import (
	"fmt"

	"github.com/acadsuite/timetable-api/internal/models"
)

var (
	theoryRoomTypes    = []models.RoomType{models.RoomTypeClassroom, models.RoomTypeAuditorium}
	practicalRoomTypes = []models.RoomType{models.RoomTypeLab}
)

// run holds the accumulators for a single generation pass. A fresh run is
// created per Generate call so invocations share nothing.
type run struct {
	req       Request
	strategy  SelectionStrategy
	grid      []models.TimeSlot
	index     resourceIndex
	entries   []models.TimetableEntry
	conflicts []models.Conflict
}

func newRun(req Request, grid []models.TimeSlot, strategy SelectionStrategy) *run {
	r := &run{
		req:       req,
		strategy:  strategy,
		grid:      grid,
		entries:   []models.TimetableEntry{},
		conflicts: []models.Conflict{},
	}
	r.index = resourceIndex{entries: &r.entries}
	return r
}

// scheduleAll processes courses in input order. Order is significant: it is
// the sole determinant of who wins contested slots.
func (r *run) scheduleAll() {
	for _, course := range r.req.Courses {
		r.scheduleCourse(course)
	}
}

func (r *run) scheduleCourse(course models.Course) {
	qualified := r.qualifiedFaculty(course)
	if len(qualified) == 0 {
		r.conflicts = append(r.conflicts, models.Conflict{
			Type:        models.ConflictTypeFaculty,
			Description: fmt.Sprintf("No faculty available for course: %s", course.Name),
			Entries:     []string{course.ID},
		})
		return
	}
	assignee := r.strategy.PickFaculty(qualified)

	scheduled := 0
	if course.TheoryHours > 0 {
		scheduled += r.scheduleClassType(course, models.ClassTypeTheory, course.TheoryHours, assignee, theoryRoomTypes)
	}
	if course.PracticalHours > 0 {
		scheduled += r.scheduleClassType(course, models.ClassTypePractical, course.PracticalHours, assignee, practicalRoomTypes)
	}

	if total := course.TotalHours(); scheduled < total {
		r.conflicts = append(r.conflicts, models.Conflict{
			Type:        models.ConflictTypeRoom,
			Description: fmt.Sprintf("Could not schedule all hours for course: %s. Scheduled %d/%d hours", course.Name, scheduled, total),
			Entries:     []string{course.ID},
		})
	}
}

// scheduleClassType greedily places up to hours one-hour blocks. A block
// with no eligible slot or no eligible room is simply skipped; there is no
// retry and no fallback to another faculty member.
func (r *run) scheduleClassType(course models.Course, classType models.ClassType, hours int, assignee models.Faculty, roomTypes []models.RoomType) int {
	scheduled := 0
	for i := 0; i < hours && scheduled < hours; i++ {
		var openSlots []models.TimeSlot
		for _, slot := range r.grid {
			if !r.index.slotTaken(slot) && r.index.facultyFree(assignee, slot) {
				openSlots = append(openSlots, slot)
			}
		}
		if len(openSlots) == 0 {
			continue
		}
		slot := r.strategy.PickSlot(openSlots)

		var openRooms []models.Room
		for _, room := range r.req.Rooms {
			if roomTypeEligible(room.Type, roomTypes) && !r.index.roomTaken(room.ID, slot) {
				openRooms = append(openRooms, room)
			}
		}
		if len(openRooms) == 0 {
			continue
		}
		room := r.strategy.PickRoom(openRooms)

		r.entries = append(r.entries, models.TimetableEntry{
			ID:        models.EntryID(course.ID, assignee.ID, room.ID, slot),
			CourseID:  course.ID,
			FacultyID: assignee.ID,
			RoomID:    room.ID,
			TimeSlot:  slot,
			Students:  r.roster(course),
			Type:      classType,
		})
		scheduled++
	}
	return scheduled
}

func (r *run) qualifiedFaculty(course models.Course) []models.Faculty {
	var qualified []models.Faculty
	for _, member := range r.req.Faculty {
		if member.Teaches(course.Name, course.Code) {
			qualified = append(qualified, member)
		}
	}
	return qualified
}

// roster gathers every student who elected the course, plus all FYUP and
// B.Ed. students regardless of electives (the core-subject heuristic from
// the programme rules; no curriculum model exists to refine it).
func (r *run) roster(course models.Course) []string {
	var ids []string
	for _, student := range r.req.Students {
		if student.HasElective(course.Name, course.Code) || isCoreProgram(student.Program) {
			ids = append(ids, student.ID)
		}
	}
	return ids
}

func isCoreProgram(program models.Program) bool {
	return program == models.ProgramFYUP || program == models.ProgramBEd
}

func roomTypeEligible(roomType models.RoomType, eligible []models.RoomType) bool {
	for _, candidate := range eligible {
		if roomType == candidate {
			return true
		}
	}
	return false
}
