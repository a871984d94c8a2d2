package integration

import (
	"context"
	"testing"

	"github.com/dimitrije/fitlog/internal/models"
	"github.com/dimitrije/fitlog/internal/oauth"
	"github.com/dimitrije/fitlog/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Integration_FindOrCreateFromOAuth_CreateNew(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	info := &oauth.UserInfo{
		Email:     "newuser@example.com",
		Name:      "New User",
		AvatarURL: "https://example.com/avatar.png",
		ID:        "github-12345",
		Provider:  "github",
	}

	user, err := svc.FindOrCreateFromOAuth(ctx, info)

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, info.Email, user.Email)
	assert.Equal(t, info.Name, user.Name)
	assert.Equal(t, info.Provider, user.Provider)
	assert.Equal(t, info.ID, user.ProviderID)
}

func TestUserService_Integration_FindOrCreateFromOAuth_FindExisting(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	info := &oauth.UserInfo{
		Email:     "existinguser@example.com",
		Name:      "Existing User",
		AvatarURL: "https://example.com/avatar.png",
		ID:        "github-99999",
		Provider:  "github",
	}

	// Create user first
	user1, err := svc.FindOrCreateFromOAuth(ctx, info)
	require.NoError(t, err)

	// Find same user
	user2, err := svc.FindOrCreateFromOAuth(ctx, info)
	require.NoError(t, err)

	assert.Equal(t, user1.ID, user2.ID)
}

func TestUserService_Integration_FindOrCreateFromOAuth_UpdateExisting(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	// Create user
	info := &oauth.UserInfo{
		Email:     "updateuser@example.com",
		Name:      "Original Name",
		AvatarURL: "",
		ID:        "github-11111",
		Provider:  "github",
	}
	user1, err := svc.FindOrCreateFromOAuth(ctx, info)
	require.NoError(t, err)

	// Update with new info
	info.Email = "updated@example.com"
	info.Name = "Updated Name"
	info.AvatarURL = "https://example.com/new-avatar.png"

	user2, err := svc.FindOrCreateFromOAuth(ctx, info)
	require.NoError(t, err)

	assert.Equal(t, user1.ID, user2.ID)
	assert.Equal(t, "updated@example.com", user2.Email)
	assert.Equal(t, "Updated Name", user2.Name)
}

func TestUserService_Integration_GetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	// Create user
	info := &oauth.UserInfo{
		Email:    "getbyid@example.com",
		Name:     "Test User",
		ID:       "github-22222",
		Provider: "github",
	}
	created, err := svc.FindOrCreateFromOAuth(ctx, info)
	require.NoError(t, err)

	// Get by ID
	user, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, created.Email, user.Email)
}

func TestUserService_Integration_GetByEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	// Create user
	info := &oauth.UserInfo{
		Email:    "getbyemail@example.com",
		Name:     "Test User",
		ID:       "github-33333",
		Provider: "github",
	}
	created, err := svc.FindOrCreateFromOAuth(ctx, info)
	require.NoError(t, err)

	// Get by email
	user, err := svc.GetByEmail(ctx, created.Email)
	require.NoError(t, err)

	assert.Equal(t, created.ID, user.ID)
}

func TestUserService_Integration_Update(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	// Create user
	info := &oauth.UserInfo{
		Email:    "update@example.com",
		Name:     "Original",
		ID:       "github-44444",
		Provider: "github",
	}
	created, err := svc.FindOrCreateFromOAuth(ctx, info)
	require.NoError(t, err)

	// Update name
	updated, err := svc.Update(ctx, created.ID, "New Name")
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "New Name", updated.Name)
}

func TestUserService_Integration_RegisterAndAuthenticate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	created, err := svc.Register(ctx, " Lifter@Example.com ", "", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "lifter@example.com", created.Email)
	assert.Equal(t, "lifter", created.Name)
	assert.Equal(t, models.GlobalRoleUser, created.GlobalRole)

	user, err := svc.Authenticate(ctx, "LIFTER@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.Authenticate(ctx, "lifter@example.com", "wrong horse")
	assert.ErrorIs(t, err, services.ErrAuthenticationFailed)

	_, err = svc.Register(ctx, "lifter@example.com", "Again", "another password")
	assert.ErrorIs(t, err, services.ErrUserAlreadyExists)
}

func TestUserService_Integration_OAuthEmailTakenByPasswordAccount(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	_, err := svc.Register(ctx, "shared@example.com", "Pw", "password123")
	require.NoError(t, err)

	_, err = svc.FindOrCreateFromOAuth(ctx, &oauth.UserInfo{
		Email:    "shared@example.com",
		Name:     "Gh",
		ID:       "github-555",
		Provider: "github",
	})
	assert.ErrorIs(t, err, services.ErrUserAlreadyExists)
}

func TestUserService_Integration_PromoteToAdmin(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	created, err := svc.Register(ctx, "coach@example.com", "Coach", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.PromoteToAdmin(ctx, "Coach@Example.com"))

	user, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GlobalRoleSuperAdmin, user.GlobalRole)

	assert.ErrorIs(t, svc.PromoteToAdmin(ctx, "nobody@example.com"), services.ErrUserNotFound)
}
