package handlers

import (
	"fmt"
	"net/http"

	"github.com/dimitrije/fitlog/internal/models"
	"github.com/dimitrije/fitlog/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type SessionHandler struct {
	sessionService SessionServiceInterface
}

func NewSessionHandler(sessionService SessionServiceInterface) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func (h *SessionHandler) List(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	sessions, err := h.sessionService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to list sessions")
		return
	}

	_ = c.JSON(http.StatusOK, sessions)
}

func (h *SessionHandler) Start(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.StartSessionRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.WorkoutID == uuid.Nil {
		c.BadRequest("workout_id is required")
		return
	}

	session, err := h.sessionService.Start(c.Request.Context(), userID, req.WorkoutID, req.Notes)
	if err != nil {
		respondError(c, err, "failed to start session")
		return
	}

	_ = c.JSON(http.StatusCreated, dto.SessionResponse{
		Session: session,
		State:   session.State(),
		Notice:  notice(fmt.Sprintf("Started %s", session.WorkoutName), dto.NoticeSuccess),
	})
}

// Get returns the session with its sets. Open sessions also carry the
// template rows sets can be logged against.
func (h *SessionHandler) Get(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "sessionId", "session")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	session, err := h.sessionService.Get(ctx, userID, sessionID)
	if err != nil {
		respondError(c, err, "failed to get session")
		return
	}

	resp := dto.SessionResponse{Session: session, State: session.State()}
	if session.State() == models.SessionOpen {
		exercises, err := h.sessionService.LoggableExercises(ctx, userID, sessionID)
		if err != nil {
			respondError(c, err, "failed to get session")
			return
		}
		resp.Exercises = exercises
	}

	_ = c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) LogSet(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "sessionId", "session")
	if !ok {
		return
	}

	var req dto.LogSetRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	set, err := h.sessionService.LogSet(c.Request.Context(), userID, sessionID, req.ExerciseID, req.Reps, req.Weight, req.Notes)
	if err != nil {
		respondError(c, err, "failed to log set")
		return
	}

	_ = c.JSON(http.StatusCreated, dto.SetResponse{
		Set:    set,
		Notice: notice(fmt.Sprintf("Set %d logged", set.SetNumber), dto.NoticeSuccess),
	})
}

func (h *SessionHandler) DeleteSet(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "sessionId", "session")
	if !ok {
		return
	}
	setID, ok := pathID(c, "setId", "set")
	if !ok {
		return
	}

	if err := h.sessionService.DeleteSet(c.Request.Context(), userID, sessionID, setID); err != nil {
		respondError(c, err, "failed to delete set")
		return
	}

	_ = c.JSON(http.StatusOK, notice("Set deleted", dto.NoticeSuccess))
}

func (h *SessionHandler) Finish(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "sessionId", "session")
	if !ok {
		return
	}

	session, changed, err := h.sessionService.Finish(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondError(c, err, "failed to finish session")
		return
	}

	n := notice("Session was already finished", dto.NoticeInfo)
	if changed {
		n = notice("Workout finished", dto.NoticeSuccess)
	}

	_ = c.JSON(http.StatusOK, dto.SessionResponse{Session: session, State: session.State(), Notice: n})
}
