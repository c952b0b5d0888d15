package model

import (
	"github.com/google/uuid"
)

// Patient is owned by its tenant and referenced by appointments and bills.
type Patient struct {
	Base
	TenantID uuid.UUID `db:"tenant_id" json:"tenant_id"`
	UID      string    `db:"uid" json:"uid"`
	Name     string    `db:"name" json:"name"`
	Email    string    `db:"email" json:"email,omitempty"`
	Phone    string    `db:"phone" json:"phone,omitempty"`
	Gender   string    `db:"gender" json:"gender,omitempty"`
}

type CreatePatientRequest struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"omitempty,email"`
	Phone  string `json:"phone"`
	Gender string `json:"gender" binding:"omitempty,oneof=male female other"`
}
