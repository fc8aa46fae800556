package models

import (
	"time"

	"github.com/marketplace/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AggregateModel
	Username     string        `gorm:"type:varchar(50);not null;uniqueIndex"`
	Email        string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string        `gorm:"type:varchar(200);not null"`
	Role         identity.Role `gorm:"type:varchar(20);not null;index"`
	FirstName    string        `gorm:"type:varchar(100)"`
	LastName     string        `gorm:"type:varchar(100)"`
	CompanyName  string        `gorm:"type:varchar(200)"`
	Approved     bool          `gorm:"not null;default:false"`
	LastLoginAt  *time.Time
	LastLoginIP  string `gorm:"type:varchar(45)"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Username:          m.Username,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Role:              m.Role,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		CompanyName:       m.CompanyName,
		Approved:          m.Approved,
		LastLoginAt:       m.LastLoginAt,
		LastLoginIP:       m.LastLoginIP,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Username = u.Username
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.CompanyName = u.CompanyName
	m.Approved = u.Approved
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
}
