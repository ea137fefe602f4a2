package model

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SessionClaims are the verified contents of a session token. They are
// only ever produced by AuthService.ValidateSessionToken.
type SessionClaims struct {
	UserID  string `json:"sub"`
	Email   string `json:"email"`
	Role    Role   `json:"role"`
	TokenID string `json:"jti"`
}
