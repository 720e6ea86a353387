package models

// CourseType distinguishes how a course's weekly hours are delivered.
type CourseType string

const (
	CourseTypeTheory    CourseType = "theory"
	CourseTypePractical CourseType = "practical"
	CourseTypeBoth      CourseType = "both"
)

// Course describes one offering and its weekly hour demand. Immutable once
// submitted to the engine.
type Course struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Code           string     `json:"code"`
	Credits        int        `json:"credits"`
	TheoryHours    int        `json:"theoryHours"`
	PracticalHours int        `json:"practicalHours"`
	Type           CourseType `json:"type"`
}

// TotalHours is the weekly demand the assigner must satisfy.
func (c Course) TotalHours() int {
	return c.TheoryHours + c.PracticalHours
}
