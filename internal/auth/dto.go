package auth

import (
	"time"

	"github.com/frahmantamala/order-admin/internal/user"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the user, without password, plus the session token.
type LoginResponse struct {
	user.UserResponse
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type LogoutResponse struct {
	Success bool `json:"success"`
}
