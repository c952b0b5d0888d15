package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/carelink/hospital-api/internal/repository"
)

type tenantRepository struct {
	BaseRepository
}

type userRepository struct {
	BaseRepository
}

type patientRepository struct {
	BaseRepository
}

type appointmentRepository struct {
	BaseRepository
}

type billRepository struct {
	BaseRepository
}

type outboxRepository struct {
	BaseRepository
}

func NewTenantRepository(db *sqlx.DB) repository.TenantRepository {
	return &tenantRepository{NewBaseRepository(db)}
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{NewBaseRepository(db)}
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{NewBaseRepository(db)}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{NewBaseRepository(db)}
}

func NewBillRepository(db *sqlx.DB) repository.BillRepository {
	return &billRepository{NewBaseRepository(db)}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{NewBaseRepository(db)}
}
