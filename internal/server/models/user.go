// Package models defines the persisted and wire-level data structures
// shared by repositories, services, and the HTTP layer.
package models

import "time"

// User is an account row. The password hash never leaves the server.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	WalletAddress *string   `json:"wallet_address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateUserRequest is the signup payload.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignInRequest is the credential payload for POST /signin.
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignInResponse carries the issued session token.
type SignInResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

// UserResponse is the public identity snapshot returned by protected
// endpoints.
type UserResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UpdateWalletRequest binds a wallet address to the authenticated user.
type UpdateWalletRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
}
