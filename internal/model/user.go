package model

import (
	"strings"

	apperrors "github.com/huggodev/vntl-api/pkg/errors"
)

// Role is the closed set of authorization levels. Route policy is expressed
// against these constants, never against free-form strings.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleManager    Role = "MANAGER"
	RoleTechnician Role = "TECHNICIAN"
)

// ParseRole validates a role string against the closed enumeration.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(s)) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleManager:
		return RoleManager, nil
	case RoleTechnician:
		return RoleTechnician, nil
	}
	return "", apperrors.NewInvalidEnum("role", s)
}

// User is an identity record in the credential store. PasswordHash is never
// serialized.
type User struct {
	Base
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
	DisplayName  string `json:"display_name" db:"display_name"`
	Role         Role   `json:"role" db:"role"`
}
