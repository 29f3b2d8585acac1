package auth

import "github.com/nderitu/tma/internal/services/user"

type RegisterRequest struct {
	Username string        `json:"username"`
	Email    string        `json:"email"`
	Password string        `json:"password"`
	Role     user.UserRole `json:"role"`
}

// AuthResult is what every successful register/login/refresh returns:
// the resolved identity plus a token pair.
type AuthResult struct {
	User         *user.User `json:"user"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
}
