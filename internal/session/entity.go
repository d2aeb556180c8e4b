package session

import "github.com/golang-jwt/jwt/v5"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// State is the normalized result of evaluating the stored bearer token.
// An empty Role means no role claim (or no session at all).
type State struct {
	Valid bool   `json:"valid"`
	Role  string `json:"role,omitempty"`
}

// Privileged reports whether the state carries the admin role.
func (s State) Privileged() bool {
	return s.Valid && s.Role == RoleAdmin
}

// Claims is the subset of the access token payload the client reads.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}
