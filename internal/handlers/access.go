package handlers

import (
	"errors"
	"net/http"

	"github.com/dimitrije/fitlog/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
)

type AccessHandler struct {
	accessService AccessServiceInterface
}

func NewAccessHandler(accessService AccessServiceInterface) *AccessHandler {
	return &AccessHandler{accessService: accessService}
}

type canResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Can answers GET /can/:kind/:id/:action so clients can hide controls the
// caller may not use.
func (h *AccessHandler) Can(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "resource")
	if !ok {
		return
	}

	kind := services.ResourceKind(c.Param("kind"))
	action := services.Action(c.Param("action"))
	switch kind {
	case services.ResourceExercise, services.ResourceWorkout, services.ResourceSession:
	default:
		c.BadRequest("unknown resource kind")
		return
	}
	switch action {
	case services.ActionView, services.ActionEdit, services.ActionDelete, services.ActionShare, services.ActionStartSession:
	default:
		c.BadRequest("unknown action")
		return
	}

	err := h.accessService.Check(c.Request.Context(), userID, action, services.Resource{Kind: kind, ID: id})
	switch {
	case err == nil:
		_ = c.JSON(http.StatusOK, canResponse{Allowed: true})
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrForbidden):
		_ = c.JSON(http.StatusOK, canResponse{Allowed: false, Reason: err.Error()})
	default:
		respondError(c, err, "failed to check access")
	}
}
