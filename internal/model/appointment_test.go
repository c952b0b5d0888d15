package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveDateTimeIn(t *testing.T) {
	date := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	apt := &Appointment{Date: date, Time: "14:30"}
	assert.Equal(t, time.Date(2026, 3, 11, 14, 30, 0, 0, time.UTC), apt.EffectiveDateTimeIn(time.UTC))

	// No slot time counts as midnight.
	apt = &Appointment{Date: date}
	assert.Equal(t, date, apt.EffectiveDateTimeIn(time.UTC))

	// A stray time-of-day on the stored date is dropped.
	apt = &Appointment{Date: date.Add(9 * time.Hour), Time: "08:00"}
	assert.Equal(t, time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC), apt.EffectiveDateTimeIn(time.UTC))
}

func TestEffectiveDateTimeInRebuildsCalendarDay(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*60*60+30*60)

	// The stored date is UTC midnight; the instant is the same calendar day
	// in the requested zone, not the UTC instant shifted.
	apt := &Appointment{Date: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), Time: "09:00"}
	assert.Equal(t, time.Date(2026, 3, 11, 9, 0, 0, 0, kolkata), apt.EffectiveDateTimeIn(kolkata))
}

func TestAppointmentStatusValid(t *testing.T) {
	assert.True(t, AppointmentStatusScheduled.Valid())
	assert.True(t, AppointmentStatusCompleted.Valid())
	assert.True(t, AppointmentStatusCancelled.Valid())
	assert.False(t, AppointmentStatus("NOSHOW").Valid())
	assert.False(t, AppointmentStatus("scheduled").Valid())
}
