package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/fitlog/internal/database"
	"github.com/dimitrije/fitlog/internal/models"
	"github.com/dimitrije/fitlog/internal/oauth"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var userRowColumns = []string{
	"id", "email", "name", "avatar_url", "provider", "provider_id", "password_hash", "global_role", "created_at", "updated_at",
}

func setupUserService(t *testing.T) (*UserService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	svc := NewUserService(&database.DB{Pool: mock})
	svc.cost = bcrypt.MinCost
	return svc, mock
}

func TestUserService_FindOrCreateFromOAuth_CreateNew(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	info := &oauth.UserInfo{
		Email:     "new@example.com",
		Name:      "New User",
		AvatarURL: "https://example.com/avatar.png",
		ID:        "provider-123",
		Provider:  "github",
	}
	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE provider = .+ AND provider_id`).
		WithArgs(info.Provider, info.ID).
		WillReturnError(pgx.ErrNoRows)

	rows := pgxmock.NewRows(userRowColumns).
		AddRow(userID, info.Email, info.Name, &info.AvatarURL, info.Provider, info.ID, nil, "user", now, now)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(info.Email, info.Name, &info.AvatarURL, info.Provider, info.ID).
		WillReturnRows(rows)

	user, err := svc.FindOrCreateFromOAuth(ctx, info)

	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, info.Email, user.Email)
	assert.Nil(t, user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_FindOrCreateFromOAuth_UpdatesChangedProfile(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	info := &oauth.UserInfo{Email: "new@example.com", Name: "New Name", ID: "provider-456", Provider: "google"}
	userID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows(userRowColumns).
		AddRow(userID, "old@example.com", "Old Name", nil, info.Provider, info.ID, nil, "user", now, now)
	mock.ExpectQuery(`SELECT .+ FROM users WHERE provider`).
		WithArgs(info.Provider, info.ID).
		WillReturnRows(rows)
	mock.ExpectExec(`UPDATE users SET email`).
		WithArgs(info.Email, info.Name, pgxmock.AnyArg(), userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	user, err := svc.FindOrCreateFromOAuth(ctx, info)

	require.NoError(t, err)
	assert.Equal(t, "New Name", user.Name)
	assert.Equal(t, "new@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_FindOrCreateFromOAuth_EmailTaken(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	info := &oauth.UserInfo{Email: "taken@example.com", Name: "Taken", ID: "1", Provider: "github"}

	mock.ExpectQuery(`SELECT .+ FROM users WHERE provider`).
		WithArgs(info.Provider, info.ID).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(info.Email, info.Name, pgxmock.AnyArg(), info.Provider, info.ID).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := svc.FindOrCreateFromOAuth(ctx, info)

	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Register(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()
	hash := "hash"

	rows := pgxmock.NewRows(userRowColumns).
		AddRow(userID, "lifter@example.com", "lifter", nil, models.ProviderPassword, "lifter@example.com", &hash, "user", now, now)
	mock.ExpectQuery(`INSERT INTO users \(email, name, provider, provider_id, password_hash\)`).
		WithArgs("lifter@example.com", "lifter", models.ProviderPassword, pgxmock.AnyArg()).
		WillReturnRows(rows)

	user, err := svc.Register(ctx, "  Lifter@Example.com ", "", "correct-horse")

	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "lifter", user.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Register_Validation(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "x", "long-enough-password")
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, err = svc.Register(ctx, "a@example.com", "x", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	assert.ErrorIs(t, err, ErrInvalid)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Register_Duplicate(t *testing.T) {
	svc, mock := setupUserService(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("a@example.com", "A", models.ProviderPassword, pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := svc.Register(context.Background(), "a@example.com", "A", "long-enough-password")

	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserService_Authenticate(t *testing.T) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	hash := string(hashBytes)
	userID := uuid.New()
	now := time.Now()

	expectLookup := func(mock pgxmock.PgxPoolIface) {
		rows := pgxmock.NewRows(userRowColumns).
			AddRow(userID, "a@example.com", "A", nil, models.ProviderPassword, "a@example.com", &hash, "user", now, now)
		mock.ExpectQuery(`SELECT .+ FROM users WHERE LOWER\(email\) = LOWER\(\$1\) AND provider = \$2`).
			WithArgs("A@example.com", models.ProviderPassword).
			WillReturnRows(rows)
	}

	t.Run("correct password", func(t *testing.T) {
		svc, mock := setupUserService(t)
		expectLookup(mock)

		user, err := svc.Authenticate(context.Background(), "A@example.com", "correct-horse")

		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, mock := setupUserService(t)
		expectLookup(mock)

		_, err := svc.Authenticate(context.Background(), "A@example.com", "battery-staple")

		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, mock := setupUserService(t)
		mock.ExpectQuery(`SELECT .+ FROM users`).
			WithArgs("nobody@example.com", models.ProviderPassword).
			WillReturnError(pgx.ErrNoRows)

		_, err := svc.Authenticate(context.Background(), "nobody@example.com", "whatever-it-is")

		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	svc, mock := setupUserService(t)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id`).
		WithArgs(userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(context.Background(), userID)

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Update(t *testing.T) {
	svc, mock := setupUserService(t)
	userID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows(userRowColumns).
		AddRow(userID, "a@example.com", "Renamed", nil, "github", "1", nil, "user", now, now)
	mock.ExpectQuery(`UPDATE users SET name`).
		WithArgs("Renamed", userID).
		WillReturnRows(rows)

	user, err := svc.Update(context.Background(), userID, " Renamed ")

	require.NoError(t, err)
	assert.Equal(t, "Renamed", user.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_PromoteToAdmin(t *testing.T) {
	svc, mock := setupUserService(t)

	mock.ExpectExec(`UPDATE users SET global_role`).
		WithArgs(models.GlobalRoleSuperAdmin, "admin@example.com").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE users SET global_role`).
		WithArgs(models.GlobalRoleSuperAdmin, "ghost@example.com").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.NoError(t, svc.PromoteToAdmin(context.Background(), "admin@example.com"))
	assert.ErrorIs(t, svc.PromoteToAdmin(context.Background(), "ghost@example.com"), ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
