package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carelink/hospital-api/internal/model"
)

// Sentinel errors surfaced by implementations. Services translate these into
// caller-visible failures; repositories never leak driver errors for the
// cases below.
var (
	// ErrNotFound covers both a missing row and a row owned by another
	// tenant. The two are indistinguishable on purpose.
	ErrNotFound = errors.New("not found")

	// ErrSlotTaken is returned when an insert or update loses the race on
	// the scheduled-slot uniqueness constraint.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrDuplicate is returned on any other uniqueness violation, such as
	// a tenant license number that is already registered.
	ErrDuplicate = errors.New("duplicate value")
)

// ExceedsDueError is returned when a payment is larger than the bill's
// current due amount, read under the same row lock as the update.
type ExceedsDueError struct {
	Due int64
}

func (e *ExceedsDueError) Error() string {
	return fmt.Sprintf("payment exceeds due amount %d", e.Due)
}

// Every method that touches tenant-owned data takes the caller's tenant ID as
// an explicit argument and filters on it. There is no lookup by bare primary
// key.
type (
	TenantRepository interface {
		Create(ctx context.Context, tenant *model.Tenant) error
		Get(ctx context.Context, id uuid.UUID) (*model.Tenant, error)
		List(ctx context.Context) ([]*model.Tenant, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, tenantID, id uuid.UUID) (*model.User, error)
		ListByRole(ctx context.Context, tenantID uuid.UUID, role string) ([]*model.User, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Patient, error)
		List(ctx context.Context, tenantID uuid.UUID) ([]*model.Patient, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, tenantID, id uuid.UUID) error
		List(ctx context.Context, tenantID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		ListByDoctor(ctx context.Context, tenantID, doctorID uuid.UUID) ([]*model.Appointment, error)
		// SlotTaken reports whether a SCHEDULED appointment other than
		// excludeID already occupies (tenant, doctor, date, time). The
		// answer is advisory only; the uniqueness constraint is what
		// closes the check-then-insert race.
		SlotTaken(ctx context.Context, tenantID, doctorID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error)
	}

	BillRepository interface {
		Create(ctx context.Context, bill *model.Bill) error
		Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Bill, error)
		List(ctx context.Context, tenantID uuid.UUID) ([]*model.Bill, error)
		ListByPatient(ctx context.Context, tenantID, patientID uuid.UUID) ([]*model.Bill, error)
		// AddPayment applies a payment atomically: the due amount is read
		// under a row lock in the same transaction as the update, so two
		// concurrent payments can never both observe the same stale due.
		AddPayment(ctx context.Context, tenantID, billID uuid.UUID, amount int64) (*model.Bill, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	}
)
