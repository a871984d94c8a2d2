package handlers

import (
	"net/http"

	"github.com/dimitrije/fitlog/internal/models"
	"github.com/dimitrije/fitlog/internal/services"
	"github.com/dimitrije/fitlog/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type WorkoutHandler struct {
	workoutService WorkoutServiceInterface
}

func NewWorkoutHandler(workoutService WorkoutServiceInterface) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

func (h *WorkoutHandler) List(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	workouts, roles, err := h.workoutService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to list workouts")
		return
	}

	items := make([]dto.WorkoutListItem, len(workouts))
	for i, w := range workouts {
		items[i] = dto.WorkoutListItem{Workout: w, Role: roles[i]}
	}

	_ = c.JSON(http.StatusOK, items)
}

func (h *WorkoutHandler) Create(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.SaveWorkoutRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	workout, err := h.workoutService.Create(c.Request.Context(), userID, toWorkoutInput(req))
	if err != nil {
		respondError(c, err, "failed to create workout")
		return
	}

	_ = c.JSON(http.StatusCreated, dto.WorkoutResponse{
		Workout: workout,
		Role:    models.WorkoutRoleOwner,
		Notice:  notice("Workout created", dto.NoticeSuccess),
	})
}

func (h *WorkoutHandler) Get(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId", "workout")
	if !ok {
		return
	}

	workout, role, err := h.workoutService.Get(c.Request.Context(), userID, workoutID)
	if err != nil {
		respondError(c, err, "failed to get workout")
		return
	}

	_ = c.JSON(http.StatusOK, dto.WorkoutResponse{Workout: workout, Role: role})
}

// Update replaces the template's rows with the submitted ones.
func (h *WorkoutHandler) Update(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId", "workout")
	if !ok {
		return
	}

	var req dto.SaveWorkoutRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	ctx := c.Request.Context()
	workout, err := h.workoutService.Update(ctx, userID, workoutID, toWorkoutInput(req))
	if err != nil {
		respondError(c, err, "failed to update workout")
		return
	}

	role := models.WorkoutRoleOwner
	if workout.UserID != userID {
		role = models.WorkoutRoleEditor
	}

	_ = c.JSON(http.StatusOK, dto.WorkoutResponse{
		Workout: workout,
		Role:    role,
		Notice:  notice("Workout updated", dto.NoticeSuccess),
	})
}

func (h *WorkoutHandler) Delete(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId", "workout")
	if !ok {
		return
	}

	if err := h.workoutService.Delete(c.Request.Context(), userID, workoutID); err != nil {
		respondError(c, err, "failed to delete workout")
		return
	}

	_ = c.JSON(http.StatusOK, notice("Workout deleted", dto.NoticeSuccess))
}

// EditorChoices serves the exercise picker. ?workout_id= scopes it to an
// existing template.
func (h *WorkoutHandler) EditorChoices(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var workoutID *uuid.UUID
	if raw := c.QueryParam("workout_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.BadRequest("invalid workout id")
			return
		}
		workoutID = &id
	}

	choices, err := h.workoutService.EditorChoices(c.Request.Context(), userID, workoutID)
	if err != nil {
		respondError(c, err, "failed to load exercise choices")
		return
	}

	_ = c.JSON(http.StatusOK, choices)
}

func toWorkoutInput(req dto.SaveWorkoutRequest) services.WorkoutInput {
	rows := make([]services.RowIntent, len(req.Exercises))
	for i, r := range req.Exercises {
		rows[i] = services.RowIntent{
			ID:            r.ID,
			ExerciseID:    r.ExerciseID,
			SuggestedSets: services.DefaultSuggestedSets,
			SuggestedReps: services.DefaultSuggestedReps,
			Notes:         r.Notes,
			Order:         r.Order,
			Delete:        r.Delete,
		}
		if r.SuggestedSets != nil {
			rows[i].SuggestedSets = *r.SuggestedSets
		}
		if r.SuggestedReps != nil {
			rows[i].SuggestedReps = *r.SuggestedReps
		}
	}
	return services.WorkoutInput{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		Rows:        rows,
	}
}
