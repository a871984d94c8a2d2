package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dimitrije/fitlog/internal/middleware"
	"github.com/dimitrije/fitlog/internal/models"
	"github.com/dimitrije/fitlog/pkg/dto"
	"github.com/dimitrije/fitlog/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUserHandler_GetMe_Success(t *testing.T) {
	mockUserService := new(testutil.MockUserService)
	handler := NewUserHandler(mockUserService)

	userID := uuid.New()
	avatarURL := "https://example.com/avatar.png"
	joined := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	user := &models.User{
		ID:         userID,
		Email:      "lifter@example.com",
		Name:       "Test User",
		AvatarURL:  &avatarURL,
		Provider:   "github",
		GlobalRole: models.GlobalRoleUser,
		CreatedAt:  joined,
	}

	mockUserService.On("GetByID", mock.Anything, userID).Return(user, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(testutil.TestJWTService()))
	app.Get("/users/me", handler.GetMe)

	rec := testutil.NewHTTPTestClient(t, app).GET("/users/me", authHeaders(t, userID))
	testutil.AssertStatus(t, rec, http.StatusOK)

	var response dto.UserResponse
	testutil.ParseJSON(t, rec, &response)

	assert.Equal(t, userID, response.ID)
	assert.Equal(t, "lifter@example.com", response.Email)
	assert.Equal(t, &avatarURL, response.AvatarURL)
	assert.Equal(t, models.GlobalRoleUser, response.GlobalRole)
	assert.False(t, response.HasPassword)
	assert.True(t, joined.Equal(response.MemberSince))

	mockUserService.AssertExpectations(t)
}

func TestUserHandler_GetMe_NotFound(t *testing.T) {
	mockUserService := new(testutil.MockUserService)
	handler := NewUserHandler(mockUserService)

	userID := uuid.New()
	mockUserService.On("GetByID", mock.Anything, userID).Return(nil, errors.New("no rows"))

	app := drift.New()
	app.Use(middleware.Auth(testutil.TestJWTService()))
	app.Get("/users/me", handler.GetMe)

	rec := testutil.NewHTTPTestClient(t, app).GET("/users/me", authHeaders(t, userID))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserHandler_GetMe_Unauthenticated(t *testing.T) {
	handler := NewUserHandler(new(testutil.MockUserService))

	app := drift.New()
	app.Use(middleware.Auth(testutil.TestJWTService()))
	app.Get("/users/me", handler.GetMe)

	rec := testutil.NewHTTPTestClient(t, app).GET("/users/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserHandler_UpdateMe(t *testing.T) {
	mockUserService := new(testutil.MockUserService)
	handler := NewUserHandler(mockUserService)

	userID := uuid.New()
	mockUserService.On("Update", mock.Anything, userID, "Renamed").
		Return(&models.User{ID: userID, Name: "Renamed"}, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(testutil.TestJWTService()))
	app.Patch("/users/me", handler.UpdateMe)
	client := testutil.NewHTTPTestClient(t, app)

	rec := client.PATCH("/users/me", dto.UpdateUserRequest{Name: "Renamed"}, authHeaders(t, userID))
	testutil.AssertStatus(t, rec, http.StatusOK)
	testutil.AssertJSON(t, rec, map[string]any{"name": "Renamed"})

	rec = client.PATCH("/users/me", dto.UpdateUserRequest{Name: "  Renamed "}, authHeaders(t, userID))
	testutil.AssertStatus(t, rec, http.StatusOK)

	for _, blank := range []string{"", "   "} {
		rec = client.PATCH("/users/me", dto.UpdateUserRequest{Name: blank}, authHeaders(t, userID))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}

	mockUserService.AssertExpectations(t)
}
