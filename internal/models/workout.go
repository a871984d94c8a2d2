package models

import (
	"time"

	"github.com/google/uuid"
)

// Caller roles reported with workout listings.
const (
	WorkoutRoleOwner  = "owner"
	WorkoutRoleEditor = "editor"
	WorkoutRoleViewer = "viewer"
)

type Workout struct {
	ID          uuid.UUID         `json:"id"`
	UserID      uuid.UUID         `json:"user_id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	IsPublic    bool              `json:"is_public"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Exercises   []WorkoutExercise `json:"exercises,omitempty"`
}

// WorkoutExercise is one ordered row of a workout template.
type WorkoutExercise struct {
	ID            uuid.UUID `json:"id"`
	WorkoutID     uuid.UUID `json:"workout_id"`
	ExerciseID    uuid.UUID `json:"exercise_id"`
	ExerciseName  string    `json:"exercise_name,omitempty"`
	SuggestedSets int       `json:"suggested_sets"`
	SuggestedReps int       `json:"suggested_reps"`
	Notes         string    `json:"notes"`
	Order         int       `json:"order"`
}
