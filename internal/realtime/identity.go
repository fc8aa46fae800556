package realtime

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
)

// Identity is the resolved user bound to a connection for its whole
// lifetime. It is an immutable snapshot; profile changes made while a
// connection is open are not reflected until reconnect.
type Identity struct {
	ID          uuid.UUID     `json:"user_id"`
	Username    string        `json:"username"`
	Role        identity.Role `json:"role"`
	DisplayName string        `json:"display_name"`
	CompanyName string        `json:"company_name,omitempty"`
}

// IdentityFromUser snapshots a domain user into a connection identity
func IdentityFromUser(u *identity.User) Identity {
	return Identity{
		ID:          u.ID,
		Username:    u.Username,
		Role:        u.Role,
		DisplayName: u.DisplayName(),
		CompanyName: u.CompanyName,
	}
}

// IsAdmin reports whether the identity carries the admin role
func (i Identity) IsAdmin() bool {
	return i.Role == identity.RoleAdmin
}
