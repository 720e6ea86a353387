package repository

import (
	"sort"
	"sync"

	"github.com/acadsuite/timetable-api/internal/models"
	appErrors "github.com/acadsuite/timetable-api/pkg/errors"
)

// TimetableRepository stores generated timetables in memory. Results are
// keyed by the identifier assigned at generation time and survive only for
// the lifetime of the process.
type TimetableRepository struct {
	mu    sync.RWMutex
	items map[string]models.GeneratedTimetable
}

// NewTimetableRepository builds an empty store.
func NewTimetableRepository() *TimetableRepository {
	return &TimetableRepository{
		items: make(map[string]models.GeneratedTimetable),
	}
}

// Save inserts or replaces a timetable by its ID.
func (r *TimetableRepository) Save(table models.GeneratedTimetable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[table.ID] = table
}

// Get returns the timetable with the given ID.
func (r *TimetableRepository) Get(id string) (models.GeneratedTimetable, error) {
	r.mu.RLock()
	table, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		return models.GeneratedTimetable{}, appErrors.ErrNotFound
	}
	return table, nil
}

// List returns summaries of stored timetables ordered by creation time,
// newest first. Offset and limit page through the ordered set; a limit of
// zero means no cap.
func (r *TimetableRepository) List(offset, limit int) ([]models.TimetableSummary, int) {
	r.mu.RLock()
	tables := make([]models.GeneratedTimetable, 0, len(r.items))
	for _, table := range r.items {
		tables = append(tables, table)
	}
	r.mu.RUnlock()

	sort.Slice(tables, func(i, j int) bool {
		if tables[i].CreatedAt.Equal(tables[j].CreatedAt) {
			return tables[i].ID < tables[j].ID
		}
		return tables[i].CreatedAt.After(tables[j].CreatedAt)
	})

	total := len(tables)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}

	summaries := make([]models.TimetableSummary, 0, end-offset)
	for _, table := range tables[offset:end] {
		summaries = append(summaries, models.TimetableSummary{
			ID:         table.ID,
			CreatedAt:  table.CreatedAt,
			Statistics: table.Statistics,
		})
	}
	return summaries, total
}

// Delete removes a timetable by ID.
func (r *TimetableRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return appErrors.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// Len reports the number of stored timetables.
func (r *TimetableRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
