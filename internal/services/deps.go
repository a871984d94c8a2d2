package services

import (
	"context"

	"github.com/dimitrije/fitlog/internal/analytics"
	"github.com/dimitrije/fitlog/internal/notify"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// querier is satisfied by the pool and by pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Notifier interface {
	Notify(userID uuid.UUID, event notify.Event)
}

// ReportCache stores built reports. The version is read before building and
// passed back on Set so a report built across an invalidation is dropped.
type ReportCache interface {
	GetUserReport(userID uuid.UUID) (*analytics.UserReport, bool)
	UserVersion(userID uuid.UUID) uint64
	SetUserReport(userID uuid.UUID, version uint64, report *analytics.UserReport)
	GetWorkoutReport(workoutID uuid.UUID) (*analytics.WorkoutReport, bool)
	WorkoutVersion(workoutID uuid.UUID) uint64
	SetWorkoutReport(workoutID uuid.UUID, version uint64, report *analytics.WorkoutReport)
	InvalidateUser(userID uuid.UUID)
	InvalidateWorkout(workoutID uuid.UUID)
}

// affected collects users and workouts whose cached reports went stale.
type affected struct {
	users    map[uuid.UUID]struct{}
	workouts map[uuid.UUID]struct{}
}

func newAffected() *affected {
	return &affected{
		users:    make(map[uuid.UUID]struct{}),
		workouts: make(map[uuid.UUID]struct{}),
	}
}

func (a *affected) add(userID, workoutID uuid.UUID) {
	a.users[userID] = struct{}{}
	a.workouts[workoutID] = struct{}{}
}

func (a *affected) invalidate(c ReportCache) {
	if c == nil {
		return
	}
	for id := range a.users {
		c.InvalidateUser(id)
	}
	for id := range a.workouts {
		c.InvalidateWorkout(id)
	}
}
