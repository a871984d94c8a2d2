package handlers

import (
	"context"
	"time"

	"github.com/dimitrije/fitlog/internal/analytics"
	"github.com/dimitrije/fitlog/internal/models"
	"github.com/dimitrije/fitlog/internal/notify"
	"github.com/dimitrije/fitlog/internal/oauth"
	"github.com/dimitrije/fitlog/internal/services"
	"github.com/google/uuid"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error)
	Register(ctx context.Context, email, name, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error)
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	RotateRefreshToken(ctx context.Context, userID uuid.UUID, oldHash, newHash string, expiresAt time.Time) error
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID uuid.UUID, email string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}

type ExerciseServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, name, description, targetMuscle string) (*models.Exercise, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Exercise, error)
	Get(ctx context.Context, userID, exerciseID uuid.UUID) (*models.Exercise, error)
	Update(ctx context.Context, userID, exerciseID uuid.UUID, name, description, targetMuscle *string) (*models.Exercise, error)
	Delete(ctx context.Context, userID, exerciseID uuid.UUID) error
}

type WorkoutServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, in services.WorkoutInput) (*models.Workout, error)
	Update(ctx context.Context, userID, workoutID uuid.UUID, in services.WorkoutInput) (*models.Workout, error)
	Get(ctx context.Context, userID, workoutID uuid.UUID) (*models.Workout, string, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Workout, []string, error)
	EditorChoices(ctx context.Context, userID uuid.UUID, workoutID *uuid.UUID) (*services.EditorChoices, error)
	Delete(ctx context.Context, userID, workoutID uuid.UUID) error
}

type SessionServiceInterface interface {
	Start(ctx context.Context, userID, workoutID uuid.UUID, notes string) (*models.WorkoutSession, error)
	Get(ctx context.Context, userID, sessionID uuid.UUID) (*models.WorkoutSession, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.WorkoutSession, error)
	LoggableExercises(ctx context.Context, userID, sessionID uuid.UUID) ([]models.WorkoutExercise, error)
	LogSet(ctx context.Context, userID, sessionID, exerciseID uuid.UUID, reps int, weight float64, notes string) (*models.ExercisePerformance, error)
	DeleteSet(ctx context.Context, userID, sessionID, setID uuid.UUID) error
	Finish(ctx context.Context, userID, sessionID uuid.UUID) (*models.WorkoutSession, bool, error)
}

type ShareServiceInterface interface {
	Share(ctx context.Context, ownerID, workoutID uuid.UUID, email string, canEdit bool) (*models.SharedWorkout, bool, error)
	Accept(ctx context.Context, userID, shareID uuid.UUID) (*models.SharedWorkout, bool, error)
	Decline(ctx context.Context, userID, shareID uuid.UUID) error
	Revoke(ctx context.Context, ownerID, workoutID, shareID uuid.UUID) error
	ListIncoming(ctx context.Context, userID uuid.UUID) ([]models.SharedWorkout, error)
	ListForWorkout(ctx context.Context, ownerID, workoutID uuid.UUID) ([]models.SharedWorkout, error)
}

type AnalyticsServiceInterface interface {
	UserReport(ctx context.Context, userID uuid.UUID) (*analytics.UserReport, error)
	WorkoutReport(ctx context.Context, userID, workoutID uuid.UUID) (*analytics.WorkoutReport, error)
}

type DashboardServiceInterface interface {
	Get(ctx context.Context, userID uuid.UUID) (*services.Dashboard, error)
}

type AccessServiceInterface interface {
	Check(ctx context.Context, userID uuid.UUID, action services.Action, resource services.Resource) error
}

// HubInterface defines the methods used by handlers from the notification Hub
type HubInterface interface {
	Register(client *notify.Client)
	Unregister(client *notify.Client)
}
