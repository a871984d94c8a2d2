package dto

import "github.com/dimitrije/fitlog/internal/models"

type ShareWorkoutRequest struct {
	Email   string `json:"email"`
	CanEdit bool   `json:"can_edit"`
}

type ShareResponse struct {
	Share  *models.SharedWorkout `json:"share"`
	Status models.ShareStatus    `json:"status"`
	Notice *Notice               `json:"notice,omitempty"`
}
