package models

// Program is the closed set of academic programmes students belong to.
type Program string

const (
	ProgramFYUP Program = "FYUP"
	ProgramBEd  Program = "B.Ed."
	ProgramMEd  Program = "M.Ed."
	ProgramITEP Program = "ITEP"
)

// Student carries the elective choices consulted when building class rosters.
// Read-only to the engine.
type Student struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Program   Program  `json:"program"`
	Semester  int      `json:"semester"`
	Electives []string `json:"electives"`
}

// HasElective reports whether the student chose the course by name or code.
func (s Student) HasElective(name, code string) bool {
	for _, elective := range s.Electives {
		if elective == name || elective == code {
			return true
		}
	}
	return false
}
