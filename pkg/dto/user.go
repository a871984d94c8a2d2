package dto

import (
	"strings"
	"time"

	"github.com/dimitrije/fitlog/internal/models"
	"github.com/google/uuid"
)

// UserResponse is the caller's profile. Credentials never leave the server,
// only whether a password login exists.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	Provider    string    `json:"provider"`
	GlobalRole  string    `json:"global_role"`
	HasPassword bool      `json:"has_password"`
	MemberSince time.Time `json:"member_since"`
}

func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		AvatarURL:   user.AvatarURL,
		Provider:    user.Provider,
		GlobalRole:  user.GlobalRole,
		HasPassword: user.PasswordHash != nil,
		MemberSince: user.CreatedAt,
	}
}

type UpdateUserRequest struct {
	Name string `json:"name"`
}

// DisplayName is the submitted name with surrounding whitespace removed.
func (r UpdateUserRequest) DisplayName() string {
	return strings.TrimSpace(r.Name)
}
