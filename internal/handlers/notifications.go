package handlers

import (
	"github.com/dimitrije/fitlog/internal/notify"
	"github.com/m1z23r/drift/pkg/drift"
)

type NotificationHandler struct {
	hub HubInterface
}

func NewNotificationHandler(hub HubInterface) *NotificationHandler {
	return &NotificationHandler{hub: hub}
}

// Stream keeps an SSE connection open and forwards the caller's events.
func (h *NotificationHandler) Stream(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	sseCtx := c.SSE()

	client := notify.NewClient(userID)
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := sseCtx.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": client.ID,
	}, "system", ""); err != nil {
		return
	}

	done := c.Request.Context().Done()
	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
