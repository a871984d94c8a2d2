package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/dimitrije/fitlog/internal/database"
	"github.com/dimitrije/fitlog/internal/models"
	"github.com/dimitrije/fitlog/internal/oauth"
	"github.com/google/uuid"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email:      fmt.Sprintf("user%d@example.com", f.counter),
		Name:       gofakeit.Name(),
		Provider:   "github",
		ProviderID: fmt.Sprintf("provider-%d", f.counter),
	}

	for _, opt := range opts {
		opt(user)
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO users (email, name, avatar_url, provider, provider_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email, name, avatar_url, provider, provider_id, global_role, created_at, updated_at
	`, user.Email, user.Name, user.AvatarURL, user.Provider, user.ProviderID).Scan(
		&user.ID, &user.Email, &user.Name, &user.AvatarURL,
		&user.Provider, &user.ProviderID, &user.GlobalRole, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithName sets the user's name
func WithName(name string) UserOption {
	return func(u *models.User) {
		u.Name = name
	}
}

// CreateExercise creates an exercise owned by user
func (f *Fixtures) CreateExercise(t *testing.T, owner *models.User, name string) *models.Exercise {
	t.Helper()

	e := &models.Exercise{}
	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO exercises (user_id, name, description, target_muscle)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, name, description, target_muscle, created_at, updated_at
	`, owner.ID, name, gofakeit.Sentence(6), "chest").Scan(
		&e.ID, &e.UserID, &e.Name, &e.Description, &e.TargetMuscle, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create exercise: %v", err)
	}
	return e
}

// CreateWorkout creates a template with one row per exercise, ordered 1..N
func (f *Fixtures) CreateWorkout(t *testing.T, owner *models.User, name string, exercises ...*models.Exercise) *models.Workout {
	t.Helper()
	ctx := context.Background()

	tx, err := f.db.Pool.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	w := &models.Workout{}
	err = tx.QueryRow(ctx, `
		INSERT INTO workouts (user_id, name)
		VALUES ($1, $2)
		RETURNING id, user_id, name, description, is_public, created_at, updated_at
	`, owner.ID, name).Scan(&w.ID, &w.UserID, &w.Name, &w.Description, &w.IsPublic, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create workout: %v", err)
	}

	for i, e := range exercises {
		we := models.WorkoutExercise{
			WorkoutID:     w.ID,
			ExerciseID:    e.ID,
			ExerciseName:  e.Name,
			SuggestedSets: 3,
			SuggestedReps: 10,
			Order:         i + 1,
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO workout_exercises (workout_id, exercise_id, suggested_sets, suggested_reps, "order")
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, w.ID, e.ID, we.SuggestedSets, we.SuggestedReps, we.Order).Scan(&we.ID)
		if err != nil {
			t.Fatalf("failed to add workout exercise: %v", err)
		}
		w.Exercises = append(w.Exercises, we)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("failed to commit transaction: %v", err)
	}
	return w
}

// CreateShare grants recipient access to the workout
func (f *Fixtures) CreateShare(t *testing.T, workout *models.Workout, recipient *models.User, canEdit, accepted bool) *models.SharedWorkout {
	t.Helper()

	sw := &models.SharedWorkout{}
	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO shared_workouts (workout_id, shared_by, shared_with, can_edit, is_accepted, accepted_at)
		VALUES ($1, $2, $3, $4, $5, CASE WHEN $5 THEN NOW() END)
		RETURNING id, workout_id, shared_by, shared_with, can_edit, is_accepted, accepted_at, created_at
	`, workout.ID, workout.UserID, recipient.ID, canEdit, accepted).Scan(
		&sw.ID, &sw.WorkoutID, &sw.SharedBy, &sw.SharedWith, &sw.CanEdit, &sw.IsAccepted, &sw.AcceptedAt, &sw.CreatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create share: %v", err)
	}
	return sw
}

// CreateRefreshToken creates a test refresh token
func (f *Fixtures) CreateRefreshToken(t *testing.T, userID uuid.UUID, tokenHash string, expiresAt time.Time) {
	t.Helper()

	_, err := f.db.Pool.Exec(context.Background(), `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	if err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}
}

// OAuthUserInfo creates test OAuth user info
func OAuthUserInfo(email, name, provider, id string) *oauth.UserInfo {
	return &oauth.UserInfo{
		Email:     email,
		Name:      name,
		AvatarURL: "https://example.com/avatar.png",
		ID:        id,
		Provider:  provider,
	}
}
