package handlers

import (
	"net/http"

	"github.com/m1z23r/drift/pkg/drift"
)

type AnalyticsHandler struct {
	analyticsService AnalyticsServiceInterface
}

func NewAnalyticsHandler(analyticsService AnalyticsServiceInterface) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) UserReport(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	report, err := h.analyticsService.UserReport(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to build analytics")
		return
	}

	_ = c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) WorkoutReport(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId", "workout")
	if !ok {
		return
	}

	report, err := h.analyticsService.WorkoutReport(c.Request.Context(), userID, workoutID)
	if err != nil {
		respondError(c, err, "failed to build workout analytics")
		return
	}

	_ = c.JSON(http.StatusOK, report)
}
