package handlers

import (
	"net/http"

	"github.com/dimitrije/fitlog/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type ExerciseHandler struct {
	exerciseService ExerciseServiceInterface
}

func NewExerciseHandler(exerciseService ExerciseServiceInterface) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

func (h *ExerciseHandler) List(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	exercises, err := h.exerciseService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to list exercises")
		return
	}

	_ = c.JSON(http.StatusOK, exercises)
}

func (h *ExerciseHandler) Create(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateExerciseRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	exercise, err := h.exerciseService.Create(c.Request.Context(), userID, req.Name, req.Description, req.TargetMuscle)
	if err != nil {
		respondError(c, err, "failed to create exercise")
		return
	}

	_ = c.JSON(http.StatusCreated, dto.ExerciseResponse{
		Exercise: exercise,
		Notice:   notice("Exercise created", dto.NoticeSuccess),
	})
}

func (h *ExerciseHandler) Get(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "exerciseId", "exercise")
	if !ok {
		return
	}

	exercise, err := h.exerciseService.Get(c.Request.Context(), userID, exerciseID)
	if err != nil {
		respondError(c, err, "failed to get exercise")
		return
	}

	_ = c.JSON(http.StatusOK, dto.ExerciseResponse{Exercise: exercise})
}

func (h *ExerciseHandler) Update(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "exerciseId", "exercise")
	if !ok {
		return
	}

	var req dto.UpdateExerciseRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	exercise, err := h.exerciseService.Update(c.Request.Context(), userID, exerciseID, req.Name, req.Description, req.TargetMuscle)
	if err != nil {
		respondError(c, err, "failed to update exercise")
		return
	}

	_ = c.JSON(http.StatusOK, dto.ExerciseResponse{
		Exercise: exercise,
		Notice:   notice("Exercise updated", dto.NoticeSuccess),
	})
}

func (h *ExerciseHandler) Delete(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "exerciseId", "exercise")
	if !ok {
		return
	}

	if err := h.exerciseService.Delete(c.Request.Context(), userID, exerciseID); err != nil {
		respondError(c, err, "failed to delete exercise")
		return
	}

	_ = c.JSON(http.StatusOK, notice("Exercise deleted", dto.NoticeSuccess))
}
