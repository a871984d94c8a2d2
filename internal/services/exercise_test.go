package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupExerciseService(t *testing.T) (*ExerciseService, pgxmock.PgxPoolIface, *recordingCache) {
	t.Helper()
	db, mock := newMockDB(t)
	cache := newRecordingCache()
	return NewExerciseService(db, cache), mock, cache
}

func TestExerciseService_Create(t *testing.T) {
	svc, mock, _ := setupExerciseService(t)
	userID, exerciseID := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO exercises \(user_id, name, description, target_muscle\)`).
		WithArgs(userID, "Bench Press", "flat bench", "chest").
		WillReturnRows(pgxmock.NewRows(exerciseRowColumns).AddRow(exerciseID, userID, "Bench Press", "flat bench", "chest", now, now))

	exercise, err := svc.Create(context.Background(), userID, " Bench Press ", "flat bench", "chest")

	require.NoError(t, err)
	assert.Equal(t, exerciseID, exercise.ID)
	assert.Equal(t, "chest", exercise.TargetMuscle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExerciseService_Create_EmptyName(t *testing.T) {
	svc, mock, _ := setupExerciseService(t)

	_, err := svc.Create(context.Background(), uuid.New(), "   ", "", "")

	assert.ErrorIs(t, err, ErrNameRequired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExerciseService_Get_OtherUser(t *testing.T) {
	svc, mock, _ := setupExerciseService(t)
	userID, exerciseID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM exercises WHERE id = \$1 AND user_id = \$2`).
		WithArgs(exerciseID, userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Get(context.Background(), userID, exerciseID)

	assert.ErrorIs(t, err, ErrExerciseNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExerciseService_List(t *testing.T) {
	svc, mock, _ := setupExerciseService(t)
	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM exercises WHERE user_id = \$1 ORDER BY name`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows(exerciseRowColumns).
			AddRow(uuid.New(), userID, "Deadlift", "", "back", now, now).
			AddRow(uuid.New(), userID, "Squat", "", "legs", now, now))

	exercises, err := svc.List(context.Background(), userID)

	require.NoError(t, err)
	assert.Len(t, exercises, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExerciseService_Update_RenameInvalidatesReports(t *testing.T) {
	svc, mock, cache := setupExerciseService(t)
	userID, exerciseID, workoutID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()
	name := "Front Squat"

	mock.ExpectQuery(`UPDATE exercises SET`).
		WithArgs(exerciseID, userID, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(exerciseRowColumns).AddRow(exerciseID, userID, name, "", "legs", now, now))
	mock.ExpectQuery(`SELECT ws.user_id, ws.workout_id FROM exercise_performances ep`).
		WithArgs(exerciseID).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "workout_id"}).AddRow(userID, workoutID))

	exercise, err := svc.Update(context.Background(), userID, exerciseID, &name, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, name, exercise.Name)
	assert.Equal(t, []uuid.UUID{userID}, cache.invalidUsers)
	assert.Equal(t, []uuid.UUID{workoutID}, cache.invalidWorkout)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExerciseService_Update_RenameLogsLookupFailure(t *testing.T) {
	svc, mock, cache := setupExerciseService(t)
	userID, exerciseID := uuid.New(), uuid.New()
	now := time.Now()
	name := "Front Squat"
	hook := logtest.NewGlobal()
	t.Cleanup(hook.Reset)

	mock.ExpectQuery(`UPDATE exercises SET`).
		WithArgs(exerciseID, userID, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(exerciseRowColumns).AddRow(exerciseID, userID, name, "", "legs", now, now))
	mock.ExpectQuery(`SELECT ws.user_id, ws.workout_id FROM exercise_performances ep`).
		WithArgs(exerciseID).
		WillReturnError(errors.New("connection reset"))

	exercise, err := svc.Update(context.Background(), userID, exerciseID, &name, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, name, exercise.Name)
	assert.Empty(t, cache.invalidUsers)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, log.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, exerciseID, hook.LastEntry().Data["exercise_id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExerciseService_Update_BlankName(t *testing.T) {
	svc, mock, _ := setupExerciseService(t)
	blank := " "

	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), &blank, nil, nil)

	assert.ErrorIs(t, err, ErrNameRequired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExerciseService_Delete(t *testing.T) {
	svc, mock, cache := setupExerciseService(t)
	userID, exerciseID := uuid.New(), uuid.New()
	friend, workoutID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM exercise_performances ep JOIN workout_sessions ws`).
		WithArgs(exerciseID).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "workout_id"}).
			AddRow(userID, workoutID).
			AddRow(friend, workoutID))
	mock.ExpectExec(`DELETE FROM exercises WHERE id = \$1 AND user_id = \$2`).
		WithArgs(exerciseID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	require.NoError(t, svc.Delete(context.Background(), userID, exerciseID))

	assert.ElementsMatch(t, []uuid.UUID{userID, friend}, cache.invalidUsers)
	assert.Equal(t, []uuid.UUID{workoutID}, cache.invalidWorkout)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExerciseService_Delete_NotOwner(t *testing.T) {
	svc, mock, cache := setupExerciseService(t)
	userID, exerciseID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM exercise_performances ep`).
		WithArgs(exerciseID).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "workout_id"}))
	mock.ExpectExec(`DELETE FROM exercises`).
		WithArgs(exerciseID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	err := svc.Delete(context.Background(), userID, exerciseID)

	assert.ErrorIs(t, err, ErrExerciseNotFound)
	assert.Empty(t, cache.invalidUsers)
	assert.NoError(t, mock.ExpectationsWereMet())
}
