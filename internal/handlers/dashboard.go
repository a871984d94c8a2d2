package handlers

import (
	"net/http"

	"github.com/m1z23r/drift/pkg/drift"
)

type DashboardHandler struct {
	dashboardService DashboardServiceInterface
}

func NewDashboardHandler(dashboardService DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Get(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to load dashboard")
		return
	}

	_ = c.JSON(http.StatusOK, dashboard)
}
