package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of staff roles a user can hold.
type Role string

const (
	RoleAdmin        Role = "ROLE_ADMIN"
	RoleCaregiver    Role = "ROLE_CAREGIVER"
	RoleKitchenStaff Role = "ROLE_KITCHEN_STAFF"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// ValidatePassword rejects passwords that could never be used to log in.
func ValidatePassword(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if len(raw) > MaxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, MaxPasswordBytes)
	}
	return nil
}

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleCaregiver, RoleKitchenStaff}

// ParseRole converts raw input into a Role, rejecting anything outside Roles.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(s))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

// User models a staff account.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Identity returns the request-facing view of the user.
func (u *User) Identity() Identity {
	return Identity{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}
}

// Identity is the resolved principal attached to an authenticated request.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}

// NormalizeEmail trims whitespace and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
