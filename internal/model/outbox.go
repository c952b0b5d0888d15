package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// Domain event types written to the outbox.
const (
	EventAppointmentCreated   = "appointment_created"
	EventAppointmentUpdated   = "appointment_updated"
	EventAppointmentCancelled = "appointment_cancelled"
	EventAppointmentDeleted   = "appointment_deleted"
	EventBillCreated          = "bill_created"
	EventPaymentRecorded      = "payment_recorded"
)

// OutboxEvent is a domain event recorded after the write that produced it,
// drained asynchronously by the worker.
type OutboxEvent struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	TenantID    uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	EventType   string          `db:"event_type" json:"event_type"`
	Payload     json.RawMessage `db:"payload" json:"payload"`
	Status      OutboxStatus    `db:"status" json:"status"`
	Error       *string         `db:"error" json:"error,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
}
