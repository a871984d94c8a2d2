package dto

import (
	"github.com/dimitrije/fitlog/internal/models"
	"github.com/google/uuid"
)

type StartSessionRequest struct {
	WorkoutID uuid.UUID `json:"workout_id"`
	Notes     string    `json:"notes"`
}

type LogSetRequest struct {
	ExerciseID uuid.UUID `json:"exercise_id"`
	Reps       int       `json:"reps"`
	Weight     float64   `json:"weight"`
	Notes      string    `json:"notes"`
}

type SessionResponse struct {
	Session   *models.WorkoutSession   `json:"session"`
	State     models.SessionState      `json:"state"`
	Exercises []models.WorkoutExercise `json:"exercises,omitempty"`
	Notice    *Notice                  `json:"notice,omitempty"`
}

type SetResponse struct {
	Set    *models.ExercisePerformance `json:"set"`
	Notice *Notice                     `json:"notice,omitempty"`
}
