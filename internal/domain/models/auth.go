package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the JWT claims structure issued by the external auth
// collaborator. Only the subject is required; the core trusts the
// verified identity and scopes every brochure lookup to it.
type AccessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// GetUserID returns the opaque user identity from the subject claim.
func (c *AccessClaims) GetUserID() string {
	return c.Subject
}
