package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/carelink/hospital-api/pkg/errors"
)

func TestValidateSlotAgainstNow(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		date    time.Time
		slot    string
		wantErr string
	}{
		{
			name:    "yesterday rejected",
			date:    now.AddDate(0, 0, -1),
			slot:    "10:00",
			wantErr: "cannot book an appointment for a past date",
		},
		{
			name:    "today without time rejected",
			date:    now,
			slot:    "",
			wantErr: "time is required for today's appointment",
		},
		{
			name:    "today one minute ago rejected",
			date:    now,
			slot:    "14:29",
			wantErr: "cannot book an appointment for a past time",
		},
		{
			name: "today one minute from now accepted",
			date: now,
			slot: "14:31",
		},
		{
			name: "today exactly now accepted",
			date: now,
			slot: "14:30",
		},
		{
			name: "tomorrow without time accepted",
			date: now.AddDate(0, 0, 1),
			slot: "",
		},
		{
			name: "tomorrow early morning accepted",
			date: now.AddDate(0, 0, 1),
			slot: "00:05",
		},
		{
			name:    "today with malformed time rejected",
			date:    now,
			slot:    "2pm",
			wantErr: "invalid time, expected HH:MM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSlotAgainstNow(tt.date, tt.slot, now)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
		})
	}
}

// Request dates parse to UTC midnight regardless of where the server runs.
// The policy must still see them as the same calendar day as a clock east or
// west of UTC.
func TestValidateSlotAgainstNowEastOfUTC(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*60*60+30*60)
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, kolkata)
	date, err := time.Parse("2006-01-02", "2026-08-28")
	require.NoError(t, err)

	err = validateSlotAgainstNow(date, "09:00", now)
	assert.EqualError(t, err, "cannot book an appointment for a past time")

	err = validateSlotAgainstNow(date, "", now)
	assert.EqualError(t, err, "time is required for today's appointment")

	assert.NoError(t, validateSlotAgainstNow(date, "16:00", now))
}

func TestValidateSlotAgainstNowWestOfUTC(t *testing.T) {
	newYork := time.FixedZone("EST", -5*60*60)
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, newYork)
	date, err := time.Parse("2006-01-02", "2026-08-28")
	require.NoError(t, err)

	// Same-day booking for later in the day must not read as a past date.
	assert.NoError(t, validateSlotAgainstNow(date, "14:00", now))

	err = validateSlotAgainstNow(date, "09:00", now)
	assert.EqualError(t, err, "cannot book an appointment for a past time")
}

func TestValidateSlotAgainstNowFutureDateIgnoresTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)

	// A slot earlier in the day than "now" is fine on a future date.
	err := validateSlotAgainstNow(now.AddDate(0, 0, 1), "08:00", now)
	assert.NoError(t, err)
}
