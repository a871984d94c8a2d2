package handlers

import (
	"fmt"
	"net/http"

	"github.com/dimitrije/fitlog/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type ShareHandler struct {
	shareService ShareServiceInterface
}

func NewShareHandler(shareService ShareServiceInterface) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

func (h *ShareHandler) ListForWorkout(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId", "workout")
	if !ok {
		return
	}

	shares, err := h.shareService.ListForWorkout(c.Request.Context(), userID, workoutID)
	if err != nil {
		respondError(c, err, "failed to list shares")
		return
	}

	_ = c.JSON(http.StatusOK, shares)
}

func (h *ShareHandler) Share(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId", "workout")
	if !ok {
		return
	}

	var req dto.ShareWorkoutRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	share, created, err := h.shareService.Share(c.Request.Context(), userID, workoutID, req.Email, req.CanEdit)
	if err != nil {
		respondError(c, err, "failed to share workout")
		return
	}

	status := http.StatusOK
	n := notice(fmt.Sprintf("Workout is already shared with %s", req.Email), dto.NoticeInfo)
	if created {
		status = http.StatusCreated
		n = notice(fmt.Sprintf("Workout shared with %s", req.Email), dto.NoticeSuccess)
	}

	_ = c.JSON(status, dto.ShareResponse{Share: share, Status: share.Status(), Notice: n})
}

func (h *ShareHandler) Revoke(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId", "workout")
	if !ok {
		return
	}
	shareID, ok := pathID(c, "shareId", "share")
	if !ok {
		return
	}

	if err := h.shareService.Revoke(c.Request.Context(), userID, workoutID, shareID); err != nil {
		respondError(c, err, "failed to revoke share")
		return
	}

	_ = c.JSON(http.StatusOK, notice("Share revoked", dto.NoticeSuccess))
}

func (h *ShareHandler) ListIncoming(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	shares, err := h.shareService.ListIncoming(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to list shares")
		return
	}

	_ = c.JSON(http.StatusOK, shares)
}

func (h *ShareHandler) Accept(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	shareID, ok := pathID(c, "shareId", "share")
	if !ok {
		return
	}

	share, changed, err := h.shareService.Accept(c.Request.Context(), userID, shareID)
	if err != nil {
		respondError(c, err, "failed to accept share")
		return
	}

	n := notice("You already accepted this workout", dto.NoticeInfo)
	if changed {
		n = notice(fmt.Sprintf("You accepted %q", share.Workout.Name), dto.NoticeSuccess)
	}

	_ = c.JSON(http.StatusOK, dto.ShareResponse{Share: share, Status: share.Status(), Notice: n})
}

func (h *ShareHandler) Decline(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	shareID, ok := pathID(c, "shareId", "share")
	if !ok {
		return
	}

	if err := h.shareService.Decline(c.Request.Context(), userID, shareID); err != nil {
		respondError(c, err, "failed to decline share")
		return
	}

	_ = c.JSON(http.StatusOK, notice("Share declined", dto.NoticeInfo))
}
