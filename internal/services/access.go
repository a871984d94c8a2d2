package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/fitlog/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Action string

const (
	ActionView         Action = "view"
	ActionEdit         Action = "edit"
	ActionDelete       Action = "delete"
	ActionShare        Action = "share"
	ActionStartSession Action = "start_session"
)

type ResourceKind string

const (
	ResourceExercise ResourceKind = "exercise"
	ResourceWorkout  ResourceKind = "workout"
	ResourceSession  ResourceKind = "session"
)

type Resource struct {
	Kind ResourceKind
	ID   uuid.UUID
}

// Facts is what the access rules need to know about one resource and one user.
type Facts struct {
	Exists    bool
	IsOwner   bool
	Granted   bool // accepted share
	CanEdit   bool // accepted share with edit rights
	Name      string
	OwnerID   uuid.UUID
	OwnerName string
}

// Decide applies the access rules. Resources the user cannot see come back
// as not found; visible ones the user may not touch as forbidden.
func Decide(kind ResourceKind, action Action, f Facts) error {
	switch kind {
	case ResourceExercise:
		if !f.Exists || !f.IsOwner {
			return ErrExerciseNotFound
		}
		return nil
	case ResourceSession:
		if !f.Exists || !f.IsOwner {
			return ErrSessionNotFound
		}
		return nil
	case ResourceWorkout:
		if !f.Exists || !(f.IsOwner || f.Granted) {
			return ErrWorkoutNotFound
		}
		switch action {
		case ActionView, ActionStartSession:
			return nil
		case ActionEdit:
			if f.IsOwner || (f.Granted && f.CanEdit) {
				return nil
			}
			return ErrWorkoutEditForbidden
		case ActionDelete, ActionShare:
			if f.IsOwner {
				return nil
			}
			return ErrWorkoutOwnerOnly
		}
	}
	return fmt.Errorf("unknown access check %s/%s", kind, action)
}

type AccessService struct {
	db *database.DB
}

func NewAccessService(db *database.DB) *AccessService {
	return &AccessService{db: db}
}

// Can reports whether userID may perform action on resource.
func (s *AccessService) Can(ctx context.Context, userID uuid.UUID, action Action, resource Resource) (bool, error) {
	err := s.Check(ctx, userID, action, resource)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrForbidden):
		return false, nil
	default:
		return false, err
	}
}

// Check is Can with the reason for a refusal.
func (s *AccessService) Check(ctx context.Context, userID uuid.UUID, action Action, resource Resource) error {
	var (
		facts Facts
		err   error
	)
	switch resource.Kind {
	case ResourceWorkout:
		facts, err = workoutFacts(ctx, s.db.Pool, userID, resource.ID)
	case ResourceExercise:
		facts, err = ownerFacts(ctx, s.db.Pool, `SELECT user_id FROM exercises WHERE id = $1`, userID, resource.ID)
	case ResourceSession:
		facts, err = ownerFacts(ctx, s.db.Pool, `SELECT user_id FROM workout_sessions WHERE id = $1`, userID, resource.ID)
	default:
		return fmt.Errorf("unknown resource kind %q", resource.Kind)
	}
	if err != nil {
		return err
	}
	return Decide(resource.Kind, action, facts)
}

func workoutFacts(ctx context.Context, q querier, userID, workoutID uuid.UUID) (Facts, error) {
	var (
		f        Facts
		accepted *bool
		canEdit  *bool
	)
	err := q.QueryRow(ctx, `
		SELECT w.user_id, w.name, u.name, sw.is_accepted, sw.can_edit
		FROM workouts w
		JOIN users u ON u.id = w.user_id
		LEFT JOIN shared_workouts sw ON sw.workout_id = w.id AND sw.shared_with = $2
		WHERE w.id = $1
	`, workoutID, userID).Scan(&f.OwnerID, &f.Name, &f.OwnerName, &accepted, &canEdit)
	if errors.Is(err, pgx.ErrNoRows) {
		return Facts{}, nil
	}
	if err != nil {
		return Facts{}, fmt.Errorf("failed to load workout access: %w", err)
	}

	f.Exists = true
	f.IsOwner = f.OwnerID == userID
	f.Granted = accepted != nil && *accepted
	f.CanEdit = f.Granted && canEdit != nil && *canEdit
	return f, nil
}

func ownerFacts(ctx context.Context, q querier, sql string, userID, id uuid.UUID) (Facts, error) {
	var ownerID uuid.UUID
	err := q.QueryRow(ctx, sql, id).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Facts{}, nil
	}
	if err != nil {
		return Facts{}, fmt.Errorf("failed to load owner: %w", err)
	}
	return Facts{Exists: true, IsOwner: ownerID == userID, OwnerID: ownerID}, nil
}
