package auth

import "fmt"

// Role is the caller's role as asserted by the identity provider.
type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// ParseRole validates a role string from a token or CLI flag.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleClient, RoleProvider, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Actor identifies who performs an operation.
type Actor struct {
	UserID string
	Role   Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// IsProvider reports whether the actor acts as the given provider.
func (a Actor) IsProvider(providerID string) bool {
	return a.IsAdmin() || (a.Role == RoleProvider && a.UserID == providerID)
}
