package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dimitrije/fitlog/internal/analytics"
	"github.com/dimitrije/fitlog/internal/database"
	"github.com/dimitrije/fitlog/internal/metrics"
	"github.com/google/uuid"
)

// AnalyticsService loads the records behind the reports and caches the
// results. The aggregation itself lives in the analytics package.
type AnalyticsService struct {
	db      *database.DB
	cache   ReportCache
	metrics *metrics.Manager
}

func NewAnalyticsService(db *database.DB, cache ReportCache, m *metrics.Manager) *AnalyticsService {
	return &AnalyticsService{db: db, cache: cache, metrics: m}
}

func (s *AnalyticsService) UserReport(ctx context.Context, userID uuid.UUID) (*analytics.UserReport, error) {
	var version uint64
	if s.cache != nil {
		if report, ok := s.cache.GetUserReport(userID); ok {
			s.metrics.CacheHit()
			return report, nil
		}
		s.metrics.CacheMiss()
		version = s.cache.UserVersion(userID)
	}

	start := time.Now()

	sessions, err := loadSessions(ctx, s.db.Pool, `
		SELECT id, user_id, workout_id, started_at, finished_at
		FROM workout_sessions
		WHERE user_id = $1 AND finished_at IS NOT NULL
	`, userID)
	if err != nil {
		return nil, err
	}

	var report *analytics.UserReport
	if len(sessions) == 0 {
		report = analytics.BuildUserReport(analytics.UserInput{})
	} else {
		sets, err := loadSets(ctx, s.db.Pool, `
			SELECT ep.session_id, ep.exercise_id, e.name, ep.set_number, ep.reps, ep.weight, ep.performed_at
			FROM exercise_performances ep
			JOIN workout_sessions ws ON ws.id = ep.session_id
			JOIN exercises e ON e.id = ep.exercise_id
			WHERE ws.user_id = $1 AND ws.finished_at IS NOT NULL
		`, userID)
		if err != nil {
			return nil, err
		}
		templates, err := loadTemplates(ctx, s.db.Pool, `
			SELECT we.workout_id, we.exercise_id, e.name, we."order"
			FROM workout_exercises we
			JOIN workouts w ON w.id = we.workout_id
			JOIN exercises e ON e.id = we.exercise_id
			WHERE w.user_id = $1
			ORDER BY we.workout_id, we."order"
		`, userID)
		if err != nil {
			return nil, err
		}
		report = analytics.BuildUserReport(analytics.UserInput{Sessions: sessions, Sets: sets, Templates: templates})
	}

	s.metrics.HistAnalyticsDuration.Observe(time.Since(start).Seconds())
	if s.cache != nil {
		s.cache.SetUserReport(userID, version, report)
	}
	return report, nil
}

// WorkoutReport covers every performer of the workout. The caller needs
// read access to it.
func (s *AnalyticsService) WorkoutReport(ctx context.Context, userID, workoutID uuid.UUID) (*analytics.WorkoutReport, error) {
	facts, err := workoutFacts(ctx, s.db.Pool, userID, workoutID)
	if err != nil {
		return nil, err
	}
	if err := Decide(ResourceWorkout, ActionView, facts); err != nil {
		return nil, err
	}

	var version uint64
	if s.cache != nil {
		if report, ok := s.cache.GetWorkoutReport(workoutID); ok {
			s.metrics.CacheHit()
			return report, nil
		}
		s.metrics.CacheMiss()
		version = s.cache.WorkoutVersion(workoutID)
	}

	start := time.Now()

	template, err := loadTemplates(ctx, s.db.Pool, `
		SELECT we.workout_id, we.exercise_id, e.name, we."order"
		FROM workout_exercises we
		JOIN exercises e ON e.id = we.exercise_id
		WHERE we.workout_id = $1
		ORDER BY we."order"
	`, workoutID)
	if err != nil {
		return nil, err
	}
	sessions, err := loadSessions(ctx, s.db.Pool, `
		SELECT id, user_id, workout_id, started_at, finished_at
		FROM workout_sessions
		WHERE workout_id = $1
	`, workoutID)
	if err != nil {
		return nil, err
	}
	sets, err := loadSets(ctx, s.db.Pool, `
		SELECT ep.session_id, ep.exercise_id, e.name, ep.set_number, ep.reps, ep.weight, ep.performed_at
		FROM exercise_performances ep
		JOIN workout_sessions ws ON ws.id = ep.session_id
		JOIN exercises e ON e.id = ep.exercise_id
		WHERE ws.workout_id = $1 AND ws.finished_at IS NOT NULL
	`, workoutID)
	if err != nil {
		return nil, err
	}

	report := analytics.BuildWorkoutReport(analytics.WorkoutInput{
		WorkoutID: workoutID,
		Template:  template,
		Sessions:  sessions,
		Sets:      sets,
	})

	s.metrics.HistAnalyticsDuration.Observe(time.Since(start).Seconds())
	if s.cache != nil {
		s.cache.SetWorkoutReport(workoutID, version, report)
	}
	return report, nil
}

func loadSessions(ctx context.Context, q querier, sql string, arg uuid.UUID) ([]analytics.Session, error) {
	rows, err := q.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	defer rows.Close()

	var sessions []analytics.Session
	for rows.Next() {
		var s analytics.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.WorkoutID, &s.StartedAt, &s.FinishedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func loadSets(ctx context.Context, q querier, sql string, arg uuid.UUID) ([]analytics.Set, error) {
	rows, err := q.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to load sets: %w", err)
	}
	defer rows.Close()

	var sets []analytics.Set
	for rows.Next() {
		var s analytics.Set
		if err := rows.Scan(&s.SessionID, &s.ExerciseID, &s.ExerciseName, &s.SetNumber, &s.Reps, &s.Weight, &s.PerformedAt); err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

func loadTemplates(ctx context.Context, q querier, sql string, arg uuid.UUID) ([]analytics.TemplateExercise, error) {
	rows, err := q.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to load template rows: %w", err)
	}
	defer rows.Close()

	var template []analytics.TemplateExercise
	for rows.Next() {
		var te analytics.TemplateExercise
		if err := rows.Scan(&te.WorkoutID, &te.ExerciseID, &te.ExerciseName, &te.Order); err != nil {
			return nil, err
		}
		template = append(template, te)
	}
	return template, rows.Err()
}
