package dto

import (
	"github.com/dimitrije/fitlog/internal/models"
	"github.com/google/uuid"
)

// WorkoutRow is one submitted template row. Omitted sets or reps take the
// editor defaults.
type WorkoutRow struct {
	ID            *uuid.UUID `json:"id,omitempty"`
	ExerciseID    uuid.UUID  `json:"exercise_id"`
	SuggestedSets *int       `json:"suggested_sets,omitempty"`
	SuggestedReps *int       `json:"suggested_reps,omitempty"`
	Notes         string     `json:"notes"`
	Order         int        `json:"order"`
	Delete        bool       `json:"delete"`
}

type SaveWorkoutRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	IsPublic    bool         `json:"is_public"`
	Exercises   []WorkoutRow `json:"exercises"`
}

type WorkoutResponse struct {
	Workout *models.Workout `json:"workout"`
	Role    string          `json:"role"`
	Notice  *Notice         `json:"notice,omitempty"`
}

type WorkoutListItem struct {
	models.Workout
	Role string `json:"role"`
}
