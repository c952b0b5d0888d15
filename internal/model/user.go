package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Staff roles. Only users holding RoleDoctor are schedulable.
const (
	RoleAdmin        = "ADMIN"
	RoleDoctor       = "DOCTOR"
	RoleNurse        = "NURSE"
	RoleReceptionist = "RECEPTIONIST"
)

// User is a staff member owned by a tenant.
type User struct {
	Base
	TenantID uuid.UUID      `db:"tenant_id" json:"tenant_id"`
	Name     string         `db:"name" json:"name"`
	Email    string         `db:"email" json:"email"`
	Roles    pq.StringArray `db:"roles" json:"roles"`
	Status   string         `db:"status" json:"status"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
