package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the session claims carried by a dashboard API token. The
// organization id scopes every query and cache key the request touches.
type Claims struct {
	jwt.RegisteredClaims
	UserID         string   `json:"user_id"`
	OrganizationID string   `json:"org_id"`
	Roles          []string `json:"roles,omitempty"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Role constants.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)
