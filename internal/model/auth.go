package model

import "github.com/golang-jwt/jwt/v5"

// HostRole is the permission level of a host account
type HostRole string

const (
	RoleAdmin  HostRole = "ADMIN"
	RoleEditor HostRole = "EDITOR"
	RoleViewer HostRole = "VIEWER"
)

// CanAnalyze reports whether the role may trigger analysis
func (r HostRole) CanAnalyze() bool {
	return r == RoleAdmin || r == RoleEditor
}

// HostClaims are JWT claims for host authentication
type HostClaims struct {
	HostID string   `json:"hostId"`
	Role   HostRole `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for host login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token  string   `json:"token"`
	HostID string   `json:"hostId"`
	Role   HostRole `json:"role"`
}
