package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
)

// RegisterInput contains the input for user registration
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	Role        identity.Role
	FirstName   string
	LastName    string
	CompanyName string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Username string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	TokenType   string
	User        UserInfo
}

// UserInfo contains basic user information returned to clients
type UserInfo struct {
	ID          uuid.UUID
	Username    string
	Email       string
	Role        identity.Role
	DisplayName string
	FirstName   string
	LastName    string
	CompanyName string
	Approved    bool
	CreatedAt   time.Time
}

// LogoutInput carries the token identity needed for blacklisting
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TokenTTL time.Duration
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// UpdateProfileInput contains the editable profile fields
type UpdateProfileInput struct {
	UserID      uuid.UUID
	FirstName   string
	LastName    string
	CompanyName string
}

// userInfoFrom maps a domain user to the outward UserInfo shape
func userInfoFrom(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		DisplayName: u.DisplayName(),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		CompanyName: u.CompanyName,
		Approved:    u.Approved,
		CreatedAt:   u.CreatedAt,
	}
}
