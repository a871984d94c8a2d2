package services

import (
	"sync"
	"testing"

	"github.com/dimitrije/fitlog/internal/analytics"
	"github.com/dimitrije/fitlog/internal/database"
	"github.com/dimitrije/fitlog/internal/notify"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

var (
	exerciseRowColumns     = []string{"id", "user_id", "name", "description", "target_muscle", "created_at", "updated_at"}
	workoutRowColumns      = []string{"id", "user_id", "name", "description", "is_public", "created_at", "updated_at"}
	workoutExerciseColumns = []string{"id", "workout_id", "exercise_id", "name", "suggested_sets", "suggested_reps", "notes", "order"}
	factsColumns           = []string{"user_id", "name", "name", "is_accepted", "can_edit"}
	sessionRowColumns      = []string{"id", "user_id", "workout_id", "started_at", "finished_at", "notes"}
	performanceRowColumns  = []string{"id", "session_id", "exercise_id", "set_number", "reps", "weight", "notes", "performed_at"}
	shareRowColumns        = []string{"id", "workout_id", "shared_by", "shared_with", "can_edit", "is_accepted", "accepted_at", "created_at"}
)

const factsQuery = `SELECT w.user_id, w.name, u.name, sw.is_accepted, sw.can_edit FROM workouts w`

func newMockDB(t *testing.T) (*database.DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return &database.DB{Pool: mock}, mock
}

// expectOwnerFacts answers the access lookup for the workout's owner.
func expectOwnerFacts(mock pgxmock.PgxPoolIface, workoutID, ownerID uuid.UUID, name string) {
	mock.ExpectQuery(factsQuery).
		WithArgs(workoutID, ownerID).
		WillReturnRows(pgxmock.NewRows(factsColumns).AddRow(ownerID, name, "Owner", nil, nil))
}

// expectGrantFacts answers the access lookup for a user holding a share.
func expectGrantFacts(mock pgxmock.PgxPoolIface, workoutID, ownerID, userID uuid.UUID, accepted, canEdit bool) {
	mock.ExpectQuery(factsQuery).
		WithArgs(workoutID, userID).
		WillReturnRows(pgxmock.NewRows(factsColumns).AddRow(ownerID, "Shared Workout", "Owner", &accepted, &canEdit))
}

type sentEvent struct {
	userID uuid.UUID
	event  notify.Event
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (n *recordingNotifier) Notify(userID uuid.UUID, event notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, sentEvent{userID: userID, event: event})
}

type recordingCache struct {
	users          map[uuid.UUID]*analytics.UserReport
	workouts       map[uuid.UUID]*analytics.WorkoutReport
	versions       map[uuid.UUID]uint64
	invalidUsers   []uuid.UUID
	invalidWorkout []uuid.UUID
}

func newRecordingCache() *recordingCache {
	return &recordingCache{
		users:    make(map[uuid.UUID]*analytics.UserReport),
		workouts: make(map[uuid.UUID]*analytics.WorkoutReport),
		versions: make(map[uuid.UUID]uint64),
	}
}

func (c *recordingCache) GetUserReport(id uuid.UUID) (*analytics.UserReport, bool) {
	r, ok := c.users[id]
	return r, ok
}

func (c *recordingCache) UserVersion(id uuid.UUID) uint64 { return c.versions[id] }

func (c *recordingCache) SetUserReport(id uuid.UUID, version uint64, r *analytics.UserReport) {
	if c.versions[id] == version {
		c.users[id] = r
	}
}

func (c *recordingCache) GetWorkoutReport(id uuid.UUID) (*analytics.WorkoutReport, bool) {
	r, ok := c.workouts[id]
	return r, ok
}

func (c *recordingCache) WorkoutVersion(id uuid.UUID) uint64 { return c.versions[id] }

func (c *recordingCache) SetWorkoutReport(id uuid.UUID, version uint64, r *analytics.WorkoutReport) {
	if c.versions[id] == version {
		c.workouts[id] = r
	}
}

func (c *recordingCache) InvalidateUser(id uuid.UUID) {
	delete(c.users, id)
	c.versions[id]++
	c.invalidUsers = append(c.invalidUsers, id)
}

func (c *recordingCache) InvalidateWorkout(id uuid.UUID) {
	delete(c.workouts, id)
	c.versions[id]++
	c.invalidWorkout = append(c.invalidWorkout, id)
}

type recordingMailer struct {
	sent []string
}

func (m *recordingMailer) SendWorkoutShared(to, workoutName, sharerName string, canEdit bool) error {
	m.sent = append(m.sent, to)
	return nil
}
