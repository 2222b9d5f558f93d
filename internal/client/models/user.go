// Package models defines client-side data models used by the storefront
// client. Nothing here is trusted by the server.
package models

// Role is the role the client believes the user has. It only decides which
// views to offer; the server re-checks every protected call.
type Role string

const (
	RoleStandard Role = "standard"
	RoleAdmin    Role = "admin"
)

// CachedUser is the client's advisory copy of the logged-in user, stored
// under the currentUser key.
type CachedUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u *CachedUser) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
