package services

import (
	"context"
	"fmt"

	"github.com/dimitrije/fitlog/internal/database"
	"github.com/google/uuid"
)

type Dashboard struct {
	Exercises        int `json:"exercises"`
	Workouts         int `json:"workouts"`
	FinishedSessions int `json:"finished_sessions"`
	OpenSessions     int `json:"open_sessions"`
	PendingShares    int `json:"pending_shares"`
	AcceptedShares   int `json:"accepted_shares"`
}

type DashboardService struct {
	db *database.DB
}

func NewDashboardService(db *database.DB) *DashboardService {
	return &DashboardService{db: db}
}

func (s *DashboardService) Get(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	var d Dashboard
	err := s.db.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM exercises WHERE user_id = $1),
			(SELECT COUNT(*) FROM workouts WHERE user_id = $1),
			(SELECT COUNT(*) FROM workout_sessions WHERE user_id = $1 AND finished_at IS NOT NULL),
			(SELECT COUNT(*) FROM workout_sessions WHERE user_id = $1 AND finished_at IS NULL),
			(SELECT COUNT(*) FROM shared_workouts WHERE shared_with = $1 AND NOT is_accepted),
			(SELECT COUNT(*) FROM shared_workouts WHERE shared_with = $1 AND is_accepted)
	`, userID).Scan(&d.Exercises, &d.Workouts, &d.FinishedSessions, &d.OpenSessions, &d.PendingShares, &d.AcceptedShares)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	return &d, nil
}
