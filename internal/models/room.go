package models

// RoomType categorises rooms for class-kind compatibility checks.
type RoomType string

const (
	RoomTypeClassroom  RoomType = "classroom"
	RoomTypeLab        RoomType = "lab"
	RoomTypeAuditorium RoomType = "auditorium"
)

// Room is a physical space available for scheduling. Read-only to the engine.
type Room struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Capacity  int      `json:"capacity"`
	Type      RoomType `json:"type"`
	Equipment []string `json:"equipment"`
}
