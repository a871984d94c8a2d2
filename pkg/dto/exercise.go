package dto

import "github.com/dimitrije/fitlog/internal/models"

type CreateExerciseRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	TargetMuscle string `json:"target_muscle"`
}

type UpdateExerciseRequest struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	TargetMuscle *string `json:"target_muscle,omitempty"`
}

type ExerciseResponse struct {
	Exercise *models.Exercise `json:"exercise"`
	Notice   *Notice          `json:"notice,omitempty"`
}
