// Package engine implements the timetable scheduling core: time-grid
// expansion, greedy course-to-resource assignment, post-hoc overlap
// detection, and utilisation statistics. Generation is a pure function of
// its input snapshot; all state lives in per-invocation accumulators, so
// callers may run independent generations concurrently.
package engine

import "github.com/acadsuite/timetable-api/internal/models"

// Request is the full input snapshot for one generation run. Slice order
// matters: courses are scheduled in order, and first-fit selection resolves
// contention in favour of earlier faculty and rooms.
type Request struct {
	Courses     []models.Course
	Faculty     []models.Faculty
	Rooms       []models.Room
	Students    []models.Student
	Preferences models.SchedulePreferences
}

// Result is the immutable outcome: the committed entries, every recorded
// conflict, and derived statistics. Unschedulable demand lands in Conflicts,
// never in an error.
type Result struct {
	Entries    []models.TimetableEntry
	Conflicts  []models.Conflict
	Statistics models.TimetableStatistics
}

type options struct {
	strategy SelectionStrategy
}

// Option tunes a single Generate call.
type Option func(*options)

// WithStrategy swaps the candidate selection policy. Default is FirstFit.
func WithStrategy(strategy SelectionStrategy) Option {
	return func(o *options) {
		if strategy != nil {
			o.strategy = strategy
		}
	}
}

// Generate runs the full pipeline: grid, assignment, overlap re-check,
// statistics. The only error condition is a malformed time window; once the
// grid exists the run always completes and returns a populated result.
func Generate(req Request, opts ...Option) (Result, error) {
	o := options{strategy: FirstFit{}}
	for _, opt := range opts {
		opt(&o)
	}

	grid, err := BuildTimeGrid(req.Preferences)
	if err != nil {
		return Result{}, err
	}

	r := newRun(req, grid, o.strategy)
	r.scheduleAll()
	r.conflicts = append(r.conflicts, DetectOverlaps(r.entries, req.Faculty, req.Rooms)...)

	return Result{
		Entries:    r.entries,
		Conflicts:  r.conflicts,
		Statistics: calculateStatistics(req, r.entries, len(r.conflicts)),
	}, nil
}
