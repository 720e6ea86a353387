package models

// AvailabilityWindow marks a contiguous span on one day during which a
// faculty member can be scheduled. Times are "HH:MM" wall clocks.
type AvailabilityWindow struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Faculty is a teaching resource. The engine treats it as read-only; records
// are managed by whichever collaborator owns the faculty roster.
type Faculty struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	MaxHours     int                  `json:"maxHours"`
	Subjects     []string             `json:"subjects"`
	Availability []AvailabilityWindow `json:"availability"`
}

// Teaches reports whether the faculty member lists either identifier among
// their subjects. Courses match on display name or code.
func (f Faculty) Teaches(name, code string) bool {
	for _, subject := range f.Subjects {
		if subject == name || subject == code {
			return true
		}
	}
	return false
}
