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
)

const workoutColumns = `id, user_id, name, description, is_public, created_at, updated_at`

type WorkoutInput struct {
	Name        string
	Description string
	IsPublic    bool
	Rows        []RowIntent
}

type WorkoutService struct {
	db    *database.DB
	cache ReportCache
}

func NewWorkoutService(db *database.DB, cache ReportCache) *WorkoutService {
	return &WorkoutService{db: db, cache: cache}
}

func (s *WorkoutService) Create(ctx context.Context, userID uuid.UUID, in WorkoutInput) (*models.Workout, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	rows, err := AssignOrder(in.Rows)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	own, err := listOwnExercises(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	choices := BuildEditorChoices(own, nil)
	for _, row := range rows {
		if row.ID != uuid.Nil {
			return nil, ErrUnknownRow
		}
		if !choices.Allows(row.ExerciseID) {
			return nil, ErrExerciseNotAllowed
		}
	}

	workout, err := scanWorkout(tx.QueryRow(ctx, `
		INSERT INTO workouts (user_id, name, description, is_public)
		VALUES ($1, $2, $3, $4)
		RETURNING `+workoutColumns,
		userID, name, in.Description, in.IsPublic))
	if err != nil {
		return nil, fmt.Errorf("failed to create workout: %w", err)
	}

	for i := range rows {
		rows[i].WorkoutID = workout.ID
		if err := insertWorkoutExercise(ctx, tx, &rows[i]); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	workout.Exercises = withExerciseNames(rows, choices)
	return workout, nil
}

// Update replaces the template's rows with the submitted ones. Rows that are
// not resubmitted are removed.
func (s *WorkoutService) Update(ctx context.Context, userID, workoutID uuid.UUID, in WorkoutInput) (*models.Workout, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	rows, err := AssignOrder(in.Rows)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	facts, err := workoutFacts(ctx, tx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	if err := Decide(ResourceWorkout, ActionEdit, facts); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `SELECT 1 FROM workouts WHERE id = $1 FOR UPDATE`, workoutID); err != nil {
		return nil, fmt.Errorf("failed to lock workout: %w", err)
	}

	existing, err := loadWorkoutExercises(ctx, tx, workoutID)
	if err != nil {
		return nil, err
	}
	own, err := listOwnExercises(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	choices := BuildEditorChoices(own, &models.Workout{UserID: facts.OwnerID, Exercises: existing})

	known := make(map[uuid.UUID]struct{}, len(existing))
	for _, we := range existing {
		known[we.ID] = struct{}{}
	}
	kept := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		if !choices.Allows(row.ExerciseID) {
			return nil, ErrExerciseNotAllowed
		}
		if row.ID == uuid.Nil {
			continue
		}
		if _, ok := known[row.ID]; !ok {
			return nil, ErrUnknownRow
		}
		kept = append(kept, row.ID)
	}

	workout, err := scanWorkout(tx.QueryRow(ctx, `
		UPDATE workouts SET name = $2, description = $3, is_public = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING `+workoutColumns,
		workoutID, name, in.Description, in.IsPublic))
	if err != nil {
		return nil, fmt.Errorf("failed to update workout: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM workout_exercises WHERE workout_id = $1 AND NOT (id = ANY($2))
	`, workoutID, kept); err != nil {
		return nil, fmt.Errorf("failed to remove workout exercises: %w", err)
	}

	for i := range rows {
		rows[i].WorkoutID = workoutID
		if rows[i].ID == uuid.Nil {
			err = insertWorkoutExercise(ctx, tx, &rows[i])
		} else {
			err = updateWorkoutExercise(ctx, tx, &rows[i])
		}
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if s.cache != nil {
		s.cache.InvalidateWorkout(workoutID)
		s.cache.InvalidateUser(workout.UserID)
	}

	workout.Exercises = withExerciseNames(rows, choices)
	return workout, nil
}

// Get returns the workout with its ordered rows and the caller's role on it.
func (s *WorkoutService) Get(ctx context.Context, userID, workoutID uuid.UUID) (*models.Workout, string, error) {
	facts, err := workoutFacts(ctx, s.db.Pool, userID, workoutID)
	if err != nil {
		return nil, "", err
	}
	if err := Decide(ResourceWorkout, ActionView, facts); err != nil {
		return nil, "", err
	}

	workout, err := scanWorkout(s.db.Pool.QueryRow(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE id = $1`, workoutID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", ErrWorkoutNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to get workout: %w", err)
	}

	workout.Exercises, err = loadWorkoutExercises(ctx, s.db.Pool, workoutID)
	if err != nil {
		return nil, "", err
	}
	return workout, roleFor(facts), nil
}

// ListForUser returns the user's own workouts and those shared with them, with
// the caller's role for each.
func (s *WorkoutService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Workout, []string, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT w.id, w.user_id, w.name, w.description, w.is_public, w.created_at, w.updated_at,
		       CASE WHEN w.user_id = $1 THEN 'owner' WHEN sw.can_edit THEN 'editor' ELSE 'viewer' END
		FROM workouts w
		LEFT JOIN shared_workouts sw ON sw.workout_id = w.id AND sw.shared_with = $1 AND sw.is_accepted
		WHERE w.user_id = $1 OR sw.id IS NOT NULL
		ORDER BY w.updated_at DESC
	`, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	defer rows.Close()

	workouts := []models.Workout{}
	roles := []string{}
	for rows.Next() {
		var w models.Workout
		var role string
		if err := rows.Scan(&w.ID, &w.UserID, &w.Name, &w.Description, &w.IsPublic, &w.CreatedAt, &w.UpdatedAt, &role); err != nil {
			return nil, nil, err
		}
		workouts = append(workouts, w)
		roles = append(roles, role)
	}
	return workouts, roles, rows.Err()
}

// EditorChoices returns the exercises the user may put on a new template, or
// on workoutID when it is set.
func (s *WorkoutService) EditorChoices(ctx context.Context, userID uuid.UUID, workoutID *uuid.UUID) (*EditorChoices, error) {
	own, err := listOwnExercises(ctx, s.db.Pool, userID)
	if err != nil {
		return nil, err
	}
	if workoutID == nil {
		return BuildEditorChoices(own, nil), nil
	}

	facts, err := workoutFacts(ctx, s.db.Pool, userID, *workoutID)
	if err != nil {
		return nil, err
	}
	if err := Decide(ResourceWorkout, ActionEdit, facts); err != nil {
		return nil, err
	}
	existing, err := loadWorkoutExercises(ctx, s.db.Pool, *workoutID)
	if err != nil {
		return nil, err
	}
	return BuildEditorChoices(own, &models.Workout{ID: *workoutID, UserID: facts.OwnerID, Exercises: existing}), nil
}

// Delete removes the workout with its rows, sessions and shares.
func (s *WorkoutService) Delete(ctx context.Context, userID, workoutID uuid.UUID) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	facts, err := workoutFacts(ctx, tx, userID, workoutID)
	if err != nil {
		return err
	}
	if err := Decide(ResourceWorkout, ActionDelete, facts); err != nil {
		return err
	}

	rows, err := tx.Query(ctx, `SELECT DISTINCT user_id FROM workout_sessions WHERE workout_id = $1`, workoutID)
	if err != nil {
		return fmt.Errorf("failed to load performers: %w", err)
	}
	stale := newAffected()
	stale.add(userID, workoutID)
	for rows.Next() {
		var performer uuid.UUID
		if err := rows.Scan(&performer); err != nil {
			rows.Close()
			return err
		}
		stale.add(performer, workoutID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM workouts WHERE id = $1`, workoutID); err != nil {
		return fmt.Errorf("failed to delete workout: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	stale.invalidate(s.cache)
	return nil
}

func roleFor(f Facts) string {
	switch {
	case f.IsOwner:
		return models.WorkoutRoleOwner
	case f.CanEdit:
		return models.WorkoutRoleEditor
	default:
		return models.WorkoutRoleViewer
	}
}

func loadWorkoutExercises(ctx context.Context, q querier, workoutID uuid.UUID) ([]models.WorkoutExercise, error) {
	rows, err := q.Query(ctx, `
		SELECT we.id, we.workout_id, we.exercise_id, e.name, we.suggested_sets, we.suggested_reps, we.notes, we."order"
		FROM workout_exercises we
		JOIN exercises e ON e.id = we.exercise_id
		WHERE we.workout_id = $1
		ORDER BY we."order", we.created_at
	`, workoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workout exercises: %w", err)
	}
	defer rows.Close()

	exercises := []models.WorkoutExercise{}
	for rows.Next() {
		var we models.WorkoutExercise
		if err := rows.Scan(&we.ID, &we.WorkoutID, &we.ExerciseID, &we.ExerciseName,
			&we.SuggestedSets, &we.SuggestedReps, &we.Notes, &we.Order); err != nil {
			return nil, err
		}
		exercises = append(exercises, we)
	}
	return exercises, rows.Err()
}

func insertWorkoutExercise(ctx context.Context, tx pgx.Tx, we *models.WorkoutExercise) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO workout_exercises (workout_id, exercise_id, suggested_sets, suggested_reps, notes, "order")
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, we.WorkoutID, we.ExerciseID, we.SuggestedSets, we.SuggestedReps, we.Notes, we.Order).Scan(&we.ID)
	if err != nil {
		return fmt.Errorf("failed to add workout exercise: %w", err)
	}
	return nil
}

func updateWorkoutExercise(ctx context.Context, tx pgx.Tx, we *models.WorkoutExercise) error {
	_, err := tx.Exec(ctx, `
		UPDATE workout_exercises
		SET exercise_id = $3, suggested_sets = $4, suggested_reps = $5, notes = $6, "order" = $7
		WHERE id = $1 AND workout_id = $2
	`, we.ID, we.WorkoutID, we.ExerciseID, we.SuggestedSets, we.SuggestedReps, we.Notes, we.Order)
	if err != nil {
		return fmt.Errorf("failed to update workout exercise: %w", err)
	}
	return nil
}

func withExerciseNames(rows []models.WorkoutExercise, choices *EditorChoices) []models.WorkoutExercise {
	names := make(map[uuid.UUID]string, len(choices.Exercises))
	for _, e := range choices.Exercises {
		names[e.ID] = e.Name
	}
	for i := range rows {
		rows[i].ExerciseName = names[rows[i].ExerciseID]
	}
	return rows
}

func scanWorkout(row pgx.Row) (*models.Workout, error) {
	var w models.Workout
	if err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.Description, &w.IsPublic, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}
