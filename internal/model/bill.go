package model

import (
	"github.com/google/uuid"
)

type BillStatus string

const (
	BillStatusUnpaid  BillStatus = "UNPAID"
	BillStatusPartial BillStatus = "PARTIAL"
	BillStatusPaid    BillStatus = "PAID"
)

// DeriveBillStatus computes the status from the ledger amounts. Status is
// never stored independently of them.
func DeriveBillStatus(paid, due int64) BillStatus {
	switch {
	case due == 0:
		return BillStatusPaid
	case paid == 0:
		return BillStatusUnpaid
	default:
		return BillStatusPartial
	}
}

// Bill is a ledger over immutable line items. Amounts are minor currency
// units. PaidAmount only ever grows; DueAmount is always total minus paid.
type Bill struct {
	Base
	TenantID    uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	PatientID   uuid.UUID  `db:"patient_id" json:"patient_id"`
	TotalAmount int64      `db:"total_amount" json:"total_amount"`
	PaidAmount  int64      `db:"paid_amount" json:"paid_amount"`
	DueAmount   int64      `db:"due_amount" json:"due_amount"`
	Status      BillStatus `db:"status" json:"status"`
	Items       []BillItem `db:"-" json:"items,omitempty"`
}

type BillItem struct {
	ID     uuid.UUID `db:"id" json:"id"`
	BillID uuid.UUID `db:"bill_id" json:"bill_id"`
	Title  string    `db:"title" json:"title"`
	Amount int64     `db:"amount" json:"amount"`
}

type BillItemRequest struct {
	Title  string `json:"title" binding:"required"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
}

type CreateBillRequest struct {
	PatientID uuid.UUID         `json:"patient_id" binding:"required"`
	Items     []BillItemRequest `json:"items" binding:"required,min=1,dive"`
}

// AddPaymentRequest carries no binding rules on purpose: the amount check
// lives in the billing service so a zero payment gets the domain message, not
// a generic binding error.
type AddPaymentRequest struct {
	Amount int64 `json:"amount"`
}
