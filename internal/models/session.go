package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionState string

const (
	SessionOpen     SessionState = "open"
	SessionFinished SessionState = "finished"
)

type WorkoutSession struct {
	ID           uuid.UUID             `json:"id"`
	UserID       uuid.UUID             `json:"user_id"`
	WorkoutID    uuid.UUID             `json:"workout_id"`
	WorkoutName  string                `json:"workout_name,omitempty"`
	StartedAt    time.Time             `json:"started_at"`
	FinishedAt   *time.Time            `json:"finished_at,omitempty"`
	Notes        string                `json:"notes"`
	Performances []ExercisePerformance `json:"performances,omitempty"`
}

// State derives the session state from finished_at.
func (s *WorkoutSession) State() SessionState {
	if s.FinishedAt != nil {
		return SessionFinished
	}
	return SessionOpen
}

func (s *WorkoutSession) IsFinished() bool {
	return s.FinishedAt != nil
}

// ExercisePerformance is a single logged set.
type ExercisePerformance struct {
	ID          uuid.UUID `json:"id"`
	SessionID   uuid.UUID `json:"session_id"`
	ExerciseID  uuid.UUID `json:"exercise_id"`
	SetNumber   int       `json:"set_number"`
	Reps        int       `json:"reps"`
	Weight      float64   `json:"weight"`
	Notes       string    `json:"notes"`
	PerformedAt time.Time `json:"performed_at"`
}

func (p *ExercisePerformance) Volume() float64 {
	return p.Weight * float64(p.Reps)
}
