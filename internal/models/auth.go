package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest carries the EKOID to resolve. The password is accepted for
// form compatibility but never verified.
type LoginRequest struct {
	EKOID    string `json:"ekoid" validate:"required"`
	Password string `json:"password"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        User      `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}

// Actor converts the claims into the identity passed to services.
func (c *JWTClaims) Actor() *Actor {
	if c == nil {
		return nil
	}
	return &Actor{ID: c.UserID, DisplayName: c.FullName, Role: c.Role}
}
