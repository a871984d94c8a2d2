package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/dimitrije/fitlog/internal/cache"
	"github.com/dimitrije/fitlog/internal/metrics"
	"github.com/dimitrije/fitlog/internal/models"
	"github.com/dimitrije/fitlog/internal/services"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	seedEmail    string
	seedPassword string
	seedSessions int
)

type seedExercise struct {
	name       string
	muscle     string
	baseWeight float64
}

var seedExercises = []seedExercise{
	{name: "Bench Press", muscle: "chest", baseWeight: 40},
	{name: "Back Squat", muscle: "legs", baseWeight: 60},
	{name: "Deadlift", muscle: "back", baseWeight: 80},
	{name: "Overhead Press", muscle: "shoulders", baseWeight: 25},
	{name: "Barbell Row", muscle: "back", baseWeight: 35},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a demo account with workout history",
	Long: `Create (or reuse) a password account and fill it with exercises, one
template and a history of finished sessions spaced two days apart, so the
analytics screens have something to show.

EXAMPLES:

  fitlog-admin seed --email demo@example.com
  fitlog-admin seed --email demo@example.com --sessions 30`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedSessions < 1 {
			return errors.New("--sessions must be at least 1")
		}
		return runSeed(cmd.Context())
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedEmail, "email", "demo@fitlog.local", "account to seed")
	seedCmd.Flags().StringVar(&seedPassword, "password", "fitlog-demo", "password used when the account is created")
	seedCmd.Flags().IntVar(&seedSessions, "sessions", 10, "number of finished sessions to create")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(ctx context.Context) error {
	reportCache := cache.NewAnalyticsCache(1, time.Minute)
	m := metrics.NewManager("fitlog", "admin", metrics.NewRegistry())

	userService := services.NewUserService(db)
	exerciseService := services.NewExerciseService(db, reportCache)
	workoutService := services.NewWorkoutService(db, reportCache)
	sessionService := services.NewSessionService(db, nil, reportCache, m)

	user, err := userService.GetByEmail(ctx, seedEmail)
	if errors.Is(err, services.ErrUserNotFound) {
		user, err = userService.Register(ctx, seedEmail, gofakeit.Name(), seedPassword)
		if err == nil {
			color.Green("✓ Created account %s", seedEmail)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to prepare account: %w", err)
	}

	rows := make([]services.RowIntent, 0, len(seedExercises))
	byID := make(map[uuid.UUID]seedExercise, len(seedExercises))
	for _, se := range seedExercises {
		e, err := exerciseService.Create(ctx, user.ID, se.name, gofakeit.Sentence(8), se.muscle)
		if err != nil {
			return fmt.Errorf("failed to create exercise %q: %w", se.name, err)
		}
		byID[e.ID] = se
		rows = append(rows, services.RowIntent{
			ExerciseID:    e.ID,
			SuggestedSets: 3,
			SuggestedReps: gofakeit.Number(5, 10),
		})
	}

	workout, err := workoutService.Create(ctx, user.ID, services.WorkoutInput{
		Name:        "Full Body " + gofakeit.Letter(),
		Description: gofakeit.Sentence(10),
		Rows:        rows,
	})
	if err != nil {
		return fmt.Errorf("failed to create workout: %w", err)
	}
	color.Green("✓ Created %q with %d exercises", workout.Name, len(workout.Exercises))

	start := time.Now().UTC().AddDate(0, 0, -2*seedSessions)
	for i := 0; i < seedSessions; i++ {
		startedAt := start.AddDate(0, 0, 2*i).Add(time.Duration(gofakeit.Number(6, 20)) * time.Hour)
		if err := seedSession(ctx, sessionService, user.ID, workout, byID, i, startedAt); err != nil {
			return err
		}
	}

	color.Green("✓ Logged %d sessions for %s", seedSessions, seedEmail)
	fmt.Printf("  %s\n", color.New(color.Faint).Sprintf("workout id %s", workout.ID))
	return nil
}

func seedSession(
	ctx context.Context,
	sessionService *services.SessionService,
	userID uuid.UUID,
	workout *models.Workout,
	byID map[uuid.UUID]seedExercise,
	index int,
	startedAt time.Time,
) error {
	session, err := sessionService.Start(ctx, userID, workout.ID, gofakeit.Sentence(4))
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	performedAt := startedAt
	for _, row := range workout.Exercises {
		se := byID[row.ExerciseID]
		weight := se.baseWeight + 2.5*float64(index)
		for set := 0; set < row.SuggestedSets; set++ {
			logged, err := sessionService.LogSet(ctx, userID, session.ID, row.ExerciseID, gofakeit.Number(row.SuggestedReps-2, row.SuggestedReps+2), weight, "")
			if err != nil {
				return fmt.Errorf("failed to log set: %w", err)
			}
			performedAt = performedAt.Add(time.Duration(gofakeit.Number(90, 180)) * time.Second)
			if _, err := db.Pool.Exec(ctx, `UPDATE exercise_performances SET performed_at = $2 WHERE id = $1`, logged.ID, performedAt); err != nil {
				return fmt.Errorf("failed to backdate set: %w", err)
			}
		}
	}

	if _, _, err := sessionService.Finish(ctx, userID, session.ID); err != nil {
		return fmt.Errorf("failed to finish session: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		UPDATE workout_sessions SET started_at = $2, finished_at = $3
		WHERE id = $1
	`, session.ID, startedAt, performedAt.Add(5*time.Minute))
	if err != nil {
		return fmt.Errorf("failed to backdate session: %w", err)
	}
	return nil
}
