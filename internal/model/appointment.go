package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

// TimeSlotLayout is the wire format for appointment slot times ("HH:MM").
const TimeSlotLayout = "15:04"

// Valid reports whether s is one of the three known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Appointment occupies a (doctor, date, time) slot while SCHEDULED. The date
// carries no time-of-day; the slot time is kept separately as "HH:MM".
type Appointment struct {
	Base
	TenantID  uuid.UUID         `db:"tenant_id" json:"tenant_id"`
	PatientID uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID  uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	Date      time.Time         `db:"date" json:"date"`
	Time      string            `db:"time" json:"time"`
	Reason    string            `db:"reason" json:"reason,omitempty"`
	Status    AppointmentStatus `db:"status" json:"status"`
}

// EffectiveDateTimeIn combines the appointment's calendar date with its slot
// time in the given location. The stored date scans back as UTC midnight, so
// the instant is rebuilt from its components rather than compared directly
// against a clock in another zone. An appointment without a time counts as
// midnight.
func (a *Appointment) EffectiveDateTimeIn(loc *time.Location) time.Time {
	y, m, d := a.Date.Date()
	dt := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if a.Time == "" {
		return dt
	}
	t, err := time.Parse(TimeSlotLayout, a.Time)
	if err != nil {
		return dt
	}
	return dt.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
}

type CreateAppointmentRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	DoctorID  uuid.UUID `json:"doctor_id" binding:"required"`
	Date      string    `json:"date" binding:"required,datetime=2006-01-02"`
	Time      string    `json:"time" binding:"required,datetime=15:04"`
	Reason    string    `json:"reason" binding:"max=1000"`
}

// UpdateAppointmentRequest carries a partial edit: nil fields keep their
// stored values.
type UpdateAppointmentRequest struct {
	PatientID *uuid.UUID `json:"patient_id"`
	DoctorID  *uuid.UUID `json:"doctor_id"`
	Date      *string    `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Time      *string    `json:"time" binding:"omitempty,datetime=15:04"`
	Reason    *string    `json:"reason" binding:"omitempty,max=1000"`
}

type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required"`
}

// AppointmentFilters is the composable read-side filter set. Today and
// Upcoming narrow the date the same way the booking views do: Today is the
// current calendar day, Upcoming is anything after the current instant, which
// for date-only rows starts tomorrow.
type AppointmentFilters struct {
	Date     *time.Time
	Status   *AppointmentStatus
	DoctorID *uuid.UUID
	Today    bool
	Upcoming bool

	// DateFrom/DateTo are the resolved forms of Today and Upcoming. The
	// service fills them in from its clock; repositories only ever see
	// concrete bounds.
	DateFrom *time.Time
	DateTo   *time.Time
}
