package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dimitrije/fitlog/internal/database"
	"github.com/dimitrije/fitlog/internal/metrics"
	"github.com/dimitrije/fitlog/internal/models"
	"github.com/dimitrije/fitlog/internal/notify"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const performanceColumns = `id, session_id, exercise_id, set_number, reps, weight, notes, performed_at`

// SessionService drives the workout session lifecycle: a session is open
// from Start until Finish and only accepts set changes while open.
type SessionService struct {
	db       *database.DB
	notifier Notifier
	cache    ReportCache
	metrics  *metrics.Manager
}

func NewSessionService(db *database.DB, notifier Notifier, cache ReportCache, m *metrics.Manager) *SessionService {
	return &SessionService{db: db, notifier: notifier, cache: cache, metrics: m}
}

func (s *SessionService) Start(ctx context.Context, userID, workoutID uuid.UUID, notes string) (*models.WorkoutSession, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	facts, err := workoutFacts(ctx, tx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	if err := Decide(ResourceWorkout, ActionStartSession, facts); err != nil {
		return nil, err
	}

	var session models.WorkoutSession
	err = tx.QueryRow(ctx, `
		INSERT INTO workout_sessions (user_id, workout_id, notes)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, workout_id, started_at, finished_at, notes
	`, userID, workoutID, notes).Scan(
		&session.ID, &session.UserID, &session.WorkoutID, &session.StartedAt, &session.FinishedAt, &session.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.metrics.CounterSessionsStarted.Inc()
	// the workout report counts every started session
	if s.cache != nil {
		s.cache.InvalidateWorkout(workoutID)
	}

	session.WorkoutName = facts.Name
	return &session, nil
}

func (s *SessionService) Get(ctx context.Context, userID, sessionID uuid.UUID) (*models.WorkoutSession, error) {
	var session models.WorkoutSession
	err := s.db.Pool.QueryRow(ctx, `
		SELECT s.id, s.user_id, s.workout_id, w.name, s.started_at, s.finished_at, s.notes
		FROM workout_sessions s
		JOIN workouts w ON w.id = s.workout_id
		WHERE s.id = $1 AND s.user_id = $2
	`, sessionID, userID).Scan(
		&session.ID, &session.UserID, &session.WorkoutID, &session.WorkoutName,
		&session.StartedAt, &session.FinishedAt, &session.Notes,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+performanceColumns+`
		FROM exercise_performances
		WHERE session_id = $1
		ORDER BY exercise_id, set_number
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sets: %w", err)
	}
	defer rows.Close()

	session.Performances = []models.ExercisePerformance{}
	for rows.Next() {
		p, err := scanPerformance(rows)
		if err != nil {
			return nil, err
		}
		session.Performances = append(session.Performances, *p)
	}
	return &session, rows.Err()
}

// List returns the user's sessions, newest first.
func (s *SessionService) List(ctx context.Context, userID uuid.UUID) ([]models.WorkoutSession, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT s.id, s.user_id, s.workout_id, w.name, s.started_at, s.finished_at, s.notes
		FROM workout_sessions s
		JOIN workouts w ON w.id = s.workout_id
		WHERE s.user_id = $1
		ORDER BY s.started_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.WorkoutSession{}
	for rows.Next() {
		var session models.WorkoutSession
		if err := rows.Scan(&session.ID, &session.UserID, &session.WorkoutID, &session.WorkoutName,
			&session.StartedAt, &session.FinishedAt, &session.Notes); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// LoggableExercises are the template rows of the session's workout.
func (s *SessionService) LoggableExercises(ctx context.Context, userID, sessionID uuid.UUID) ([]models.WorkoutExercise, error) {
	var workoutID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT workout_id FROM workout_sessions WHERE id = $1 AND user_id = $2
	`, sessionID, userID).Scan(&workoutID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return loadWorkoutExercises(ctx, s.db.Pool, workoutID)
}

// LogSet records one set. The set number continues from the highest existing
// number for the exercise in this session; deleted sets leave gaps.
func (s *SessionService) LogSet(ctx context.Context, userID, sessionID, exerciseID uuid.UUID, reps int, weight float64, notes string) (*models.ExercisePerformance, error) {
	if reps < 1 {
		return nil, ErrInvalidReps
	}
	if weight < 0 {
		return nil, ErrInvalidWeight
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	workoutID, err := lockOpenSession(ctx, tx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	var onTemplate bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM workout_exercises WHERE workout_id = $1 AND exercise_id = $2)
	`, workoutID, exerciseID).Scan(&onTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to check workout exercise: %w", err)
	}
	if !onTemplate {
		return nil, ErrExerciseNotInWorkout
	}

	setNumber, err := nextSetNumber(ctx, tx, sessionID, exerciseID)
	if err != nil {
		return nil, err
	}

	p, err := scanPerformance(tx.QueryRow(ctx, `
		INSERT INTO exercise_performances (session_id, exercise_id, set_number, reps, weight, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+performanceColumns,
		sessionID, exerciseID, setNumber, reps, weight, notes))
	if err != nil {
		return nil, fmt.Errorf("failed to log set: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.metrics.CounterSetsLogged.Inc()
	return p, nil
}

func (s *SessionService) DeleteSet(ctx context.Context, userID, sessionID, setID uuid.UUID) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := lockOpenSession(ctx, tx, userID, sessionID); err != nil {
		return err
	}

	result, err := tx.Exec(ctx, `
		DELETE FROM exercise_performances WHERE id = $1 AND session_id = $2
	`, setID, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete set: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrSetNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Finish closes the session. Finishing an already finished session changes
// nothing and reports changed=false.
func (s *SessionService) Finish(ctx context.Context, userID, sessionID uuid.UUID) (*models.WorkoutSession, bool, error) {
	var session models.WorkoutSession
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE workout_sessions SET finished_at = NOW()
		WHERE id = $1 AND user_id = $2 AND finished_at IS NULL
		RETURNING id, user_id, workout_id, started_at, finished_at, notes
	`, sessionID, userID).Scan(
		&session.ID, &session.UserID, &session.WorkoutID, &session.StartedAt, &session.FinishedAt, &session.Notes,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		existing, err := s.Get(ctx, userID, sessionID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to finish session: %w", err)
	}

	s.metrics.CounterSessionsFinished.Inc()
	if s.cache != nil {
		s.cache.InvalidateUser(userID)
		s.cache.InvalidateWorkout(session.WorkoutID)
	}
	if s.notifier != nil {
		s.notifier.Notify(userID, notify.Event{
			Type:    notify.EventSessionFinished,
			Message: fmt.Sprintf("Workout finished after %s", formatElapsed(session.StartedAt, *session.FinishedAt)),
			Level:   notify.LevelSuccess,
			Data:    map[string]string{"session_id": session.ID.String(), "workout_id": session.WorkoutID.String()},
		})
	}
	return &session, true, nil
}

// lockOpenSession locks the session row so concurrent set writes number
// sequentially.
func lockOpenSession(ctx context.Context, tx pgx.Tx, userID, sessionID uuid.UUID) (uuid.UUID, error) {
	var (
		workoutID  uuid.UUID
		finishedAt *time.Time
	)
	err := tx.QueryRow(ctx, `
		SELECT workout_id, finished_at FROM workout_sessions
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
	`, sessionID, userID).Scan(&workoutID, &finishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrSessionNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to lock session: %w", err)
	}
	if finishedAt != nil {
		return uuid.Nil, ErrSessionFinished
	}
	return workoutID, nil
}

func nextSetNumber(ctx context.Context, q querier, sessionID, exerciseID uuid.UUID) (int, error) {
	var n int
	err := q.QueryRow(ctx, `
		SELECT COALESCE(MAX(set_number), 0) + 1
		FROM exercise_performances
		WHERE session_id = $1 AND exercise_id = $2
	`, sessionID, exerciseID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to number set: %w", err)
	}
	return n, nil
}

func formatElapsed(start, end time.Time) string {
	d := end.Sub(start).Round(time.Minute)
	if d < time.Minute {
		return "less than a minute"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

func scanPerformance(row pgx.Row) (*models.ExercisePerformance, error) {
	var p models.ExercisePerformance
	if err := row.Scan(&p.ID, &p.SessionID, &p.ExerciseID, &p.SetNumber, &p.Reps, &p.Weight, &p.Notes, &p.PerformedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
