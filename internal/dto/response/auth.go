package response

import (
	"time"

	"theatre-booking/internal/data/entity"
)

type TokenPairResponse struct {
	Access           string    `json:"access"`
	Refresh          string    `json:"refresh"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type AccessTokenResponse struct {
	Access          string    `json:"access"`
	AccessExpiresAt time.Time `json:"access_expires_at"`
}

type UserResponse struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Role      entity.UserRole `json:"role"`
	IsStaff   bool            `json:"is_staff"`
	CreatedAt time.Time       `json:"created_at"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		IsStaff:   user.IsAdmin(),
		CreatedAt: user.CreatedAt,
	}
}
