package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims are JWT claims for creator authentication
type UserClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// RegisterRequest is the request body for POST /auth/register
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleLoginRequest is the request body for POST /auth/google
type GoogleLoginRequest struct {
	Credential string `json:"credential"`
}

// AuthResponse is returned after a successful register or login
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
