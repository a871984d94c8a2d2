package models

import (
	"time"

	"github.com/google/uuid"
)

type ShareStatus string

const (
	ShareStatusPending  ShareStatus = "pending"
	ShareStatusAccepted ShareStatus = "accepted"
)

type SharedWorkout struct {
	ID         uuid.UUID  `json:"id"`
	WorkoutID  uuid.UUID  `json:"workout_id"`
	SharedBy   uuid.UUID  `json:"shared_by"`
	SharedWith uuid.UUID  `json:"shared_with"`
	CanEdit    bool       `json:"can_edit"`
	IsAccepted bool       `json:"is_accepted"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`

	Workout   *Workout `json:"workout,omitempty"`
	Sharer    *User    `json:"shared_by_user,omitempty"`
	Recipient *User    `json:"shared_with_user,omitempty"`
}

func (s *SharedWorkout) Status() ShareStatus {
	if s.IsAccepted {
		return ShareStatusAccepted
	}
	return ShareStatusPending
}
