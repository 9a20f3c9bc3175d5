package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleGenerator Role = "GENERATOR"
	RoleRecycler  Role = "RECYCLER"
)

// ParseRole normalizes a role claim to the closed enumeration.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleGenerator:
		return RoleGenerator, true
	case RoleRecycler:
		return RoleRecycler, true
	}
	return "", false
}

type User struct {
	ID             string
	Email          string
	PasswordHash   []byte
	Username       string
	EnterpriseName string
	Position       string
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
