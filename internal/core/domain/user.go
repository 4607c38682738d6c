package domain

import (
	"strings"
	"time"
)

// Role names are stored and compared in their bare upper-case form.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

const legacyRolePrefix = "ROLE_"

// User is the stored credential record of an account. Only the user
// management side writes it; authentication reads it.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NormalizeRole maps "role_admin", " ADMIN " and "ROLE_ADMIN" to "ADMIN".
func NormalizeRole(role string) string {
	r := strings.ToUpper(strings.TrimSpace(role))
	return strings.TrimPrefix(r, legacyRolePrefix)
}

// NormalizeRoles normalizes every entry, dropping blanks and duplicates while
// keeping the first-seen order.
func NormalizeRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	seen := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		n := NormalizeRole(r)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// NormalizeEmail is the canonical form of a login identifier.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
