// internal/domain/auth/entity.go
package auth

import "time"

// User represents the authenticated account
type User struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Success is the session payload returned by login, and nested under
// "token" in the register response
type Success struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        User   `json:"user"`
}

// Credentials is the login request body
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterPayload is the register request body
type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerResponse wraps the register result. Token is absent when the
// backend defers session creation (e.g. email verification flows).
type registerResponse struct {
	Message string   `json:"message"`
	Token   *Success `json:"token"`
}
