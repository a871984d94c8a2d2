package middleware

import (
	"strings"

	"github.com/dimitrije/fitlog/internal/services"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const identityKey = "identity"

type TokenValidator interface {
	ValidateAccessToken(token string) (*services.Claims, error)
}

// Identity is the authenticated caller.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// Auth requires an access token, refresh tokens are rejected. Browsers cannot
// set headers on an EventSource, so a stream request may pass the token as
// the access_token query parameter instead.
func Auth(validator TokenValidator) drift.HandlerFunc {
	return func(c *drift.Context) {
		token, problem := accessToken(c)
		if problem != "" {
			c.Unauthorized(problem)
			return
		}

		claims, err := validator.ValidateAccessToken(token)
		if err != nil {
			c.Unauthorized("invalid or expired token")
			return
		}

		c.Set(identityKey, Identity{UserID: claims.UserID, Email: claims.Email})
		c.Next()
	}
}

func accessToken(c *drift.Context) (string, string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if isEventStream(c) {
			if token := c.Request.URL.Query().Get("access_token"); token != "" {
				return token, ""
			}
		}
		return "", "missing authorization header"
	}

	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", "invalid authorization header format"
	}
	return token, ""
}

func isEventStream(c *drift.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/event-stream")
}

// CurrentIdentity reports the caller set by Auth.
func CurrentIdentity(c *drift.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

func GetUserID(c *drift.Context) uuid.UUID {
	id, _ := CurrentIdentity(c)
	return id.UserID
}

func GetUserEmail(c *drift.Context) string {
	id, _ := CurrentIdentity(c)
	return id.Email
}
