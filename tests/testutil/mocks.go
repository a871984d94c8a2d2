package testutil

import (
	"context"
	"time"

	"github.com/dimitrije/fitlog/internal/analytics"
	"github.com/dimitrije/fitlog/internal/models"
	"github.com/dimitrije/fitlog/internal/notify"
	"github.com/dimitrije/fitlog/internal/oauth"
	"github.com/dimitrije/fitlog/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	args := m.Called(ctx, email, name, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockTokenService mocks the TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockTokenService) RotateRefreshToken(ctx context.Context, userID uuid.UUID, oldHash, newHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, oldHash, newHash, expiresAt)
	return args.Error(0)
}

func (m *MockTokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockTokenService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockJWTService mocks the JWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateTokenPair(userID uuid.UUID, email string) (*services.TokenPair, error) {
	args := m.Called(userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockJWTService) RefreshExpiry() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

// MockExerciseService mocks the ExerciseService
type MockExerciseService struct {
	mock.Mock
}

func (m *MockExerciseService) Create(ctx context.Context, userID uuid.UUID, name, description, targetMuscle string) (*models.Exercise, error) {
	args := m.Called(ctx, userID, name, description, targetMuscle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exercise), args.Error(1)
}

func (m *MockExerciseService) List(ctx context.Context, userID uuid.UUID) ([]models.Exercise, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Exercise), args.Error(1)
}

func (m *MockExerciseService) Get(ctx context.Context, userID, exerciseID uuid.UUID) (*models.Exercise, error) {
	args := m.Called(ctx, userID, exerciseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exercise), args.Error(1)
}

func (m *MockExerciseService) Update(ctx context.Context, userID, exerciseID uuid.UUID, name, description, targetMuscle *string) (*models.Exercise, error) {
	args := m.Called(ctx, userID, exerciseID, name, description, targetMuscle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exercise), args.Error(1)
}

func (m *MockExerciseService) Delete(ctx context.Context, userID, exerciseID uuid.UUID) error {
	args := m.Called(ctx, userID, exerciseID)
	return args.Error(0)
}

// MockWorkoutService mocks the WorkoutService
type MockWorkoutService struct {
	mock.Mock
}

func (m *MockWorkoutService) Create(ctx context.Context, userID uuid.UUID, in services.WorkoutInput) (*models.Workout, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workout), args.Error(1)
}

func (m *MockWorkoutService) Update(ctx context.Context, userID, workoutID uuid.UUID, in services.WorkoutInput) (*models.Workout, error) {
	args := m.Called(ctx, userID, workoutID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workout), args.Error(1)
}

func (m *MockWorkoutService) Get(ctx context.Context, userID, workoutID uuid.UUID) (*models.Workout, string, error) {
	args := m.Called(ctx, userID, workoutID)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.Workout), args.String(1), args.Error(2)
}

func (m *MockWorkoutService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Workout, []string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]models.Workout), args.Get(1).([]string), args.Error(2)
}

func (m *MockWorkoutService) EditorChoices(ctx context.Context, userID uuid.UUID, workoutID *uuid.UUID) (*services.EditorChoices, error) {
	args := m.Called(ctx, userID, workoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.EditorChoices), args.Error(1)
}

func (m *MockWorkoutService) Delete(ctx context.Context, userID, workoutID uuid.UUID) error {
	args := m.Called(ctx, userID, workoutID)
	return args.Error(0)
}

// MockSessionService mocks the SessionService
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Start(ctx context.Context, userID, workoutID uuid.UUID, notes string) (*models.WorkoutSession, error) {
	args := m.Called(ctx, userID, workoutID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkoutSession), args.Error(1)
}

func (m *MockSessionService) Get(ctx context.Context, userID, sessionID uuid.UUID) (*models.WorkoutSession, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkoutSession), args.Error(1)
}

func (m *MockSessionService) List(ctx context.Context, userID uuid.UUID) ([]models.WorkoutSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WorkoutSession), args.Error(1)
}

func (m *MockSessionService) LoggableExercises(ctx context.Context, userID, sessionID uuid.UUID) ([]models.WorkoutExercise, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WorkoutExercise), args.Error(1)
}

func (m *MockSessionService) LogSet(ctx context.Context, userID, sessionID, exerciseID uuid.UUID, reps int, weight float64, notes string) (*models.ExercisePerformance, error) {
	args := m.Called(ctx, userID, sessionID, exerciseID, reps, weight, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExercisePerformance), args.Error(1)
}

func (m *MockSessionService) DeleteSet(ctx context.Context, userID, sessionID, setID uuid.UUID) error {
	args := m.Called(ctx, userID, sessionID, setID)
	return args.Error(0)
}

func (m *MockSessionService) Finish(ctx context.Context, userID, sessionID uuid.UUID) (*models.WorkoutSession, bool, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.WorkoutSession), args.Bool(1), args.Error(2)
}

// MockShareService mocks the ShareService
type MockShareService struct {
	mock.Mock
}

func (m *MockShareService) Share(ctx context.Context, ownerID, workoutID uuid.UUID, email string, canEdit bool) (*models.SharedWorkout, bool, error) {
	args := m.Called(ctx, ownerID, workoutID, email, canEdit)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.SharedWorkout), args.Bool(1), args.Error(2)
}

func (m *MockShareService) Accept(ctx context.Context, userID, shareID uuid.UUID) (*models.SharedWorkout, bool, error) {
	args := m.Called(ctx, userID, shareID)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.SharedWorkout), args.Bool(1), args.Error(2)
}

func (m *MockShareService) Decline(ctx context.Context, userID, shareID uuid.UUID) error {
	args := m.Called(ctx, userID, shareID)
	return args.Error(0)
}

func (m *MockShareService) Revoke(ctx context.Context, ownerID, workoutID, shareID uuid.UUID) error {
	args := m.Called(ctx, ownerID, workoutID, shareID)
	return args.Error(0)
}

func (m *MockShareService) ListIncoming(ctx context.Context, userID uuid.UUID) ([]models.SharedWorkout, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SharedWorkout), args.Error(1)
}

func (m *MockShareService) ListForWorkout(ctx context.Context, ownerID, workoutID uuid.UUID) ([]models.SharedWorkout, error) {
	args := m.Called(ctx, ownerID, workoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SharedWorkout), args.Error(1)
}

// MockAnalyticsService mocks the AnalyticsService
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) UserReport(ctx context.Context, userID uuid.UUID) (*analytics.UserReport, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.UserReport), args.Error(1)
}

func (m *MockAnalyticsService) WorkoutReport(ctx context.Context, userID, workoutID uuid.UUID) (*analytics.WorkoutReport, error) {
	args := m.Called(ctx, userID, workoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.WorkoutReport), args.Error(1)
}

// MockDashboardService mocks the DashboardService
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Get(ctx context.Context, userID uuid.UUID) (*services.Dashboard, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Dashboard), args.Error(1)
}

// MockAccessService mocks the AccessService
type MockAccessService struct {
	mock.Mock
}

func (m *MockAccessService) Check(ctx context.Context, userID uuid.UUID, action services.Action, resource services.Resource) error {
	args := m.Called(ctx, userID, action, resource)
	return args.Error(0)
}

// MockHub mocks the notification Hub
type MockHub struct {
	mock.Mock
}

func (m *MockHub) Register(client *notify.Client) {
	m.Called(client)
}

func (m *MockHub) Unregister(client *notify.Client) {
	m.Called(client)
}

// MockOAuthProvider mocks an OAuth provider
type MockOAuthProvider struct {
	mock.Mock
}

func (m *MockOAuthProvider) GetConsentURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockOAuthProvider) ExchangeCode(ctx context.Context, code string) (*oauth.UserInfo, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.UserInfo), args.Error(1)
}

func (m *MockOAuthProvider) Name() string {
	args := m.Called()
	return args.String(0)
}
