// Package models contains the persistence-backed value types of the server.
package models

import (
	"strings"
	"time"
)

type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleModerator  UserRole = "moderator"
	RoleSuperAdmin UserRole = "super_admin"
)

type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
	StatusBanned   UserStatus = "banned"
)

// User is the identity record. PasswordHash never leaves the service layer;
// responses carry the PublicUser projection instead.
type User struct {
	ID              string
	Email           string
	Phone           string
	FullName        string
	Avatar          string
	PasswordHash    string
	Role            UserRole
	Status          UserStatus
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PublicUser is the client-visible projection of a User.
type PublicUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Public returns the client-visible projection. An empty full name falls
// back to the email local part.
func (u *User) Public() PublicUser {
	name := u.FullName
	if name == "" {
		name, _, _ = strings.Cut(u.Email, "@")
	}
	return PublicUser{
		ID:       u.ID,
		Email:    u.Email,
		FullName: name,
		Avatar:   u.Avatar,
		Phone:    u.Phone,
	}
}
