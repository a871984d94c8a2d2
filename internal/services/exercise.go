package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/fitlog/internal/database"
	"github.com/dimitrije/fitlog/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

const exerciseColumns = `id, user_id, name, description, target_muscle, created_at, updated_at`

type ExerciseService struct {
	db    *database.DB
	cache ReportCache
}

func NewExerciseService(db *database.DB, cache ReportCache) *ExerciseService {
	return &ExerciseService{db: db, cache: cache}
}

func (s *ExerciseService) Create(ctx context.Context, userID uuid.UUID, name, description, targetMuscle string) (*models.Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	exercise, err := scanExercise(s.db.Pool.QueryRow(ctx, `
		INSERT INTO exercises (user_id, name, description, target_muscle)
		VALUES ($1, $2, $3, $4)
		RETURNING `+exerciseColumns,
		userID, name, description, targetMuscle))
	if err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}
	return exercise, nil
}

func (s *ExerciseService) List(ctx context.Context, userID uuid.UUID) ([]models.Exercise, error) {
	return listOwnExercises(ctx, s.db.Pool, userID)
}

func (s *ExerciseService) Get(ctx context.Context, userID, exerciseID uuid.UUID) (*models.Exercise, error) {
	exercise, err := scanExercise(s.db.Pool.QueryRow(ctx,
		`SELECT `+exerciseColumns+` FROM exercises WHERE id = $1 AND user_id = $2`,
		exerciseID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get exercise: %w", err)
	}
	return exercise, nil
}

// Update applies the non-nil fields.
func (s *ExerciseService) Update(ctx context.Context, userID, exerciseID uuid.UUID, name, description, targetMuscle *string) (*models.Exercise, error) {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, ErrNameRequired
		}
		name = &trimmed
	}

	exercise, err := scanExercise(s.db.Pool.QueryRow(ctx, `
		UPDATE exercises SET
			name = COALESCE($3, name),
			description = COALESCE($4, description),
			target_muscle = COALESCE($5, target_muscle),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+exerciseColumns,
		exerciseID, userID, name, description, targetMuscle))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update exercise: %w", err)
	}

	// reports carry exercise names
	if name != nil {
		stale, err := reportsUsingExercise(ctx, s.db.Pool, exerciseID)
		if err != nil {
			log.WithError(err).WithField("exercise_id", exerciseID).Warn("renamed exercise may leave stale analytics")
		} else {
			stale.invalidate(s.cache)
		}
	}
	return exercise, nil
}

// Delete removes the exercise together with its template rows and logged sets.
func (s *ExerciseService) Delete(ctx context.Context, userID, exerciseID uuid.UUID) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stale, err := reportsUsingExercise(ctx, tx, exerciseID)
	if err != nil {
		return err
	}

	result, err := tx.Exec(ctx, `DELETE FROM exercises WHERE id = $1 AND user_id = $2`, exerciseID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete exercise: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	stale.invalidate(s.cache)
	return nil
}

func listOwnExercises(ctx context.Context, q querier, userID uuid.UUID) ([]models.Exercise, error) {
	rows, err := q.Query(ctx, `SELECT `+exerciseColumns+` FROM exercises WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	defer rows.Close()

	exercises := []models.Exercise{}
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, *exercise)
	}
	return exercises, rows.Err()
}

// reportsUsingExercise finds the users and workouts whose reports mention the exercise.
func reportsUsingExercise(ctx context.Context, q querier, exerciseID uuid.UUID) (*affected, error) {
	rows, err := q.Query(ctx, `
		SELECT ws.user_id, ws.workout_id
		FROM exercise_performances ep
		JOIN workout_sessions ws ON ws.id = ep.session_id
		WHERE ep.exercise_id = $1
		UNION
		SELECT w.user_id, w.id
		FROM workout_exercises we
		JOIN workouts w ON w.id = we.workout_id
		WHERE we.exercise_id = $1
	`, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find affected reports: %w", err)
	}
	defer rows.Close()

	stale := newAffected()
	for rows.Next() {
		var userID, workoutID uuid.UUID
		if err := rows.Scan(&userID, &workoutID); err != nil {
			return nil, err
		}
		stale.add(userID, workoutID)
	}
	return stale, rows.Err()
}

func scanExercise(row pgx.Row) (*models.Exercise, error) {
	var e models.Exercise
	if err := row.Scan(&e.ID, &e.UserID, &e.Name, &e.Description, &e.TargetMuscle, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
