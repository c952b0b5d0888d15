package model

type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "ACTIVE"
	TenantStatusSuspended TenantStatus = "SUSPENDED"
)

// Tenant is the isolation boundary: one hospital/organization whose data is
// never visible to another tenant. Immutable after onboarding.
type Tenant struct {
	Base
	Name          string       `db:"name" json:"name"`
	Email         string       `db:"email" json:"email"`
	Phone         string       `db:"phone" json:"phone,omitempty"`
	Address       string       `db:"address" json:"address,omitempty"`
	LicenseNumber string       `db:"license_number" json:"license_number"`
	Status        TenantStatus `db:"status" json:"status"`
}

type CreateTenantRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	LicenseNumber string `json:"license_number" binding:"required"`
}
