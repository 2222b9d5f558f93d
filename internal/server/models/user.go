// Package models defines server-side data models persisted by the
// credential store.
package models

import "time"

// Role is the authorization level of an account.
type Role string

const (
	RoleStandard Role = "standard"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStandard || r == RoleAdmin
}

// Satisfies reports whether r meets the required role. Admin dominates
// standard.
func (r Role) Satisfies(required Role) bool {
	switch required {
	case RoleStandard:
		return r == RoleStandard || r == RoleAdmin
	case RoleAdmin:
		return r == RoleAdmin
	default:
		return false
	}
}

// User is an identity record. Email is stored normalized. SecretHash never
// leaves the server.
type User struct {
	ID         string    `db:"id" bson:"_id" json:"id"`
	Name       string    `db:"name" bson:"name" json:"name"`
	Email      string    `db:"email" bson:"email" json:"email"`
	SecretHash string    `db:"secret_hash" bson:"secret_hash" json:"-"`
	Role       Role      `db:"role" bson:"role" json:"role"`
	CreatedAt  time.Time `db:"created_at" bson:"created_at" json:"-"`
}

// IsAdmin is shorthand for Role == RoleAdmin.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
