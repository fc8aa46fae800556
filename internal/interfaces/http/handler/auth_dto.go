package handler

import (
	"time"

	"github.com/google/uuid"
	identityapp "github.com/marketplace/backend/internal/application/identity"
	"github.com/marketplace/backend/internal/domain/identity"
)

// =====================
// Auth Request DTOs
// =====================

// RegisterRequest is the request body for user registration
type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	Role        string `json:"role" binding:"required,oneof=buyer producer"`
	FirstName   string `json:"first_name" binding:"max=100"`
	LastName    string `json:"last_name" binding:"max=100"`
	CompanyName string `json:"company_name" binding:"max=200"`
}

// LoginRequest is the request body for user login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest is the request body for password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// UpdateProfileRequest carries the editable profile fields
type UpdateProfileRequest struct {
	FirstName   string `json:"first_name" binding:"max=100"`
	LastName    string `json:"last_name" binding:"max=100"`
	CompanyName string `json:"company_name" binding:"max=200"`
}

// =====================
// Auth Response DTOs
// =====================

// UserResponse is the outward user shape
type UserResponse struct {
	ID          uuid.UUID     `json:"id"`
	Username    string        `json:"username"`
	Email       string        `json:"email"`
	Role        identity.Role `json:"role"`
	DisplayName string        `json:"display_name"`
	FirstName   string        `json:"first_name,omitempty"`
	LastName    string        `json:"last_name,omitempty"`
	CompanyName string        `json:"company_name,omitempty"`
	Approved    bool          `json:"approved"`
	CreatedAt   time.Time     `json:"created_at"`
}

// LoginResponse is the response body for a successful login
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

func userResponseFrom(info identityapp.UserInfo) UserResponse {
	return UserResponse{
		ID:          info.ID,
		Username:    info.Username,
		Email:       info.Email,
		Role:        info.Role,
		DisplayName: info.DisplayName,
		FirstName:   info.FirstName,
		LastName:    info.LastName,
		CompanyName: info.CompanyName,
		Approved:    info.Approved,
		CreatedAt:   info.CreatedAt,
	}
}
