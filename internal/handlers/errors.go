package handlers

import (
	"errors"
	"net/http"

	"github.com/dimitrije/fitlog/internal/middleware"
	"github.com/dimitrije/fitlog/internal/services"
	"github.com/dimitrije/fitlog/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	log "github.com/sirupsen/logrus"
)

// respondError maps service errors onto HTTP statuses. Anything that is not a
// known kind is logged and hidden behind a 500.
func respondError(c *drift.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.NotFound(err.Error())
	case errors.Is(err, services.ErrForbidden):
		c.Forbidden(err.Error())
	case errors.Is(err, services.ErrInvalid):
		c.BadRequest(err.Error())
	case errors.Is(err, services.ErrConflict):
		_ = c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error(), Code: conflictCode(err)})
	default:
		log.WithError(err).WithField("path", c.Request.URL.Path).Error(fallback)
		c.InternalServerError(fallback)
	}
}

func conflictCode(err error) string {
	switch {
	case errors.Is(err, services.ErrSessionFinished):
		return "SESSION_FINISHED"
	case errors.Is(err, services.ErrUserAlreadyExists):
		return "USER_EXISTS"
	default:
		return "CONFLICT"
	}
}

// currentUser writes 401 and returns false when the request is anonymous.
func currentUser(c *drift.Context) (uuid.UUID, bool) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses a uuid route parameter, writing 400 on failure.
func pathID(c *drift.Context, param, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.BadRequest("invalid " + label + " id")
		return uuid.Nil, false
	}
	return id, true
}

func notice(message, level string) *dto.Notice {
	return &dto.Notice{Message: message, Level: level}
}
