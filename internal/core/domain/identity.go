package domain

import "errors"

var ErrInvalidToken = errors.New("invalid token")
var ErrTokenExpired = errors.New("token expired")
var ErrMissingSecret = errors.New("signing secret is not configured")

// Identity is the resolved caller attached to a request after token
// verification: just enough to drive role gates and ownership scoping.
type Identity struct {
	ID   string
	Role string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// ScopeOwner returns the owner id every query must be filtered by.
// Empty means unscoped: admins see the full collection.
func (i Identity) ScopeOwner() string {
	if i.IsAdmin() {
		return ""
	}
	return i.ID
}
