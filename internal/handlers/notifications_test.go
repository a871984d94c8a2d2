package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/fitlog/internal/middleware"
	"github.com/dimitrije/fitlog/internal/notify"
	"github.com/dimitrije/fitlog/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNotificationHandler_Stream(t *testing.T) {
	hub := new(testutil.MockHub)
	handler := NewNotificationHandler(hub)
	userID := uuid.New()

	var registered *notify.Client
	hub.On("Register", mock.AnythingOfType("*notify.Client")).Run(func(args mock.Arguments) {
		registered = args.Get(0).(*notify.Client)
		registered.Send <- []byte(`{"type":"share_received","message":"Workout shared with you","level":"info"}`)
	})
	hub.On("Unregister", mock.AnythingOfType("*notify.Client")).Return()

	app := drift.New()
	app.Use(middleware.Auth(testutil.TestJWTService()))
	app.Get("/notifications/stream", handler.Stream)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/notifications/stream", nil).WithContext(ctx)
	for k, v := range authHeaders(t, userID) {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, "connected")
	assert.Contains(t, body, "Workout shared with you")
	if assert.NotNil(t, registered) {
		assert.Equal(t, userID, registered.UserID)
	}
	hub.AssertExpectations(t)
}

func TestNotificationHandler_Stream_Unauthenticated(t *testing.T) {
	hub := new(testutil.MockHub)
	handler := NewNotificationHandler(hub)

	app := drift.New()
	app.Use(middleware.Auth(testutil.TestJWTService()))
	app.Get("/notifications/stream", handler.Stream)

	rec := testutil.NewHTTPTestClient(t, app).GET("/notifications/stream", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	hub.AssertNotCalled(t, "Register", mock.Anything)
}
