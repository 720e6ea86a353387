package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acadsuite/timetable-api/internal/dto"
	"github.com/acadsuite/timetable-api/internal/engine"
	"github.com/acadsuite/timetable-api/internal/models"
	"github.com/acadsuite/timetable-api/pkg/config"
	appErrors "github.com/acadsuite/timetable-api/pkg/errors"
)

type timetableStore interface {
	Save(table models.GeneratedTimetable)
	Get(id string) (models.GeneratedTimetable, error)
	List(offset, limit int) ([]models.TimetableSummary, int)
	Delete(id string) error
}

type timetableCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type generationObserver interface {
	ObserveGeneration(duration time.Duration, entries, conflicts int)
	RecordCacheOperation(hit bool, duration time.Duration)
}

// TimetableServiceConfig carries default preferences and cache tuning.
type TimetableServiceConfig struct {
	Defaults config.EngineConfig
	CacheTTL time.Duration
}

// TimetableService orchestrates timetable generation and retrieval.
type TimetableService struct {
	repo     timetableStore
	cache    timetableCache
	metrics  generationObserver
	validate *validator.Validate
	logger   *zap.Logger
	cfg      TimetableServiceConfig
}

// NewTimetableService constructs the service.
func NewTimetableService(repo timetableStore, cache timetableCache, metrics generationObserver, cfg TimetableServiceConfig, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &TimetableService{
		repo:     repo,
		cache:    cache,
		metrics:  metrics,
		validate: validator.New(),
		logger:   logger,
		cfg:      cfg,
	}
}

// Generate validates the request, runs the scheduling engine, and stores the
// result. Scheduling shortfalls surface as conflicts inside the stored
// timetable; the only error paths are missing collections and a malformed
// time window.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (models.GeneratedTimetable, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.GeneratedTimetable{}, appErrors.Clone(appErrors.ErrValidation, "courses, faculty, rooms and students are required")
	}

	prefs := s.resolvePreferences(req.Preferences)

	start := time.Now()
	result, err := engine.Generate(engine.Request{
		Courses:     req.Courses,
		Faculty:     req.Faculty,
		Rooms:       req.Rooms,
		Students:    req.Students,
		Preferences: prefs,
	})
	if err != nil {
		return models.GeneratedTimetable{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule preferences")
	}

	table := models.GeneratedTimetable{
		ID:         uuid.NewString(),
		Entries:    result.Entries,
		Conflicts:  result.Conflicts,
		Statistics: result.Statistics,
		CreatedAt:  time.Now().UTC(),
	}
	s.repo.Save(table)

	if s.metrics != nil {
		s.metrics.ObserveGeneration(time.Since(start), len(result.Entries), len(result.Conflicts))
	}

	if err := s.cache.Set(ctx, timetableCacheKey(table.ID), table, s.cfg.CacheTTL); err != nil {
		s.logger.Sugar().Warnw("failed to cache generated timetable", "timetable_id", table.ID, "error", err)
	}

	s.logger.Sugar().Infow("timetable generated",
		"timetable_id", table.ID,
		"entries", len(table.Entries),
		"conflicts", len(table.Conflicts))
	return table, nil
}

// Get returns a stored timetable, consulting the cache first.
func (s *TimetableService) Get(ctx context.Context, id string) (models.GeneratedTimetable, error) {
	key := timetableCacheKey(id)

	var cached models.GeneratedTimetable
	lookupStart := time.Now()
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(true, time.Since(lookupStart))
		}
		return cached, nil
	}
	if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Sugar().Warnw("timetable cache lookup failed", "timetable_id", id, "error", err)
	}
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(false, time.Since(lookupStart))
	}

	table, err := s.repo.Get(id)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return models.GeneratedTimetable{}, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return models.GeneratedTimetable{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}

	if err := s.cache.Set(ctx, key, table, s.cfg.CacheTTL); err != nil {
		s.logger.Sugar().Warnw("failed to cache timetable", "timetable_id", id, "error", err)
	}
	return table, nil
}

// List returns timetable summaries ordered newest first.
func (s *TimetableService) List(ctx context.Context, query dto.TimetableListQuery) ([]models.TimetableSummary, models.Pagination, error) {
	page := query.Page
	if page <= 0 {
		page = 1
	}
	size := query.PageSize
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	summaries, total := s.repo.List((page-1)*size, size)
	return summaries, models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Delete removes a stored timetable and invalidates its cache entry.
func (s *TimetableService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable")
	}
	if err := s.cache.Delete(ctx, timetableCacheKey(id)); err != nil {
		s.logger.Sugar().Warnw("failed to invalidate timetable cache", "timetable_id", id, "error", err)
	}
	return nil
}

// resolvePreferences fills missing preference fields from configured
// defaults. BreakDuration is carried through even though slots stay
// contiguous.
func (s *TimetableService) resolvePreferences(prefs *models.SchedulePreferences) models.SchedulePreferences {
	resolved := models.SchedulePreferences{
		StartTime:     s.cfg.Defaults.DefaultStartTime,
		EndTime:       s.cfg.Defaults.DefaultEndTime,
		WorkingDays:   s.cfg.Defaults.DefaultWorkingDays,
		BreakDuration: s.cfg.Defaults.DefaultBreakDuration,
	}
	if resolved.StartTime == "" {
		resolved.StartTime = "09:00"
	}
	if resolved.EndTime == "" {
		resolved.EndTime = "17:00"
	}
	if len(resolved.WorkingDays) == 0 {
		resolved.WorkingDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	}
	if resolved.BreakDuration == 0 {
		resolved.BreakDuration = 15
	}
	if prefs == nil {
		return resolved
	}
	if prefs.StartTime != "" {
		resolved.StartTime = prefs.StartTime
	}
	if prefs.EndTime != "" {
		resolved.EndTime = prefs.EndTime
	}
	if len(prefs.WorkingDays) > 0 {
		resolved.WorkingDays = prefs.WorkingDays
	}
	if prefs.BreakDuration > 0 {
		resolved.BreakDuration = prefs.BreakDuration
	}
	return resolved
}

func timetableCacheKey(id string) string {
	return fmt.Sprintf("timetable:%s", id)
}
