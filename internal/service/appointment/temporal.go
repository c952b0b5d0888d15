package appointment

import (
	"time"

	"github.com/carelink/hospital-api/internal/model"
	apperrors "github.com/carelink/hospital-api/pkg/errors"
)

// validateSlotAgainstNow is the temporal policy for a proposed (date, slot)
// pair. It is a pure function of its arguments: "now" always comes in from
// the caller's clock.
//
// A date before today is rejected outright. On today's date a slot time is
// mandatory and must not have passed yet. Any slot time is acceptable on a
// future date.
//
// Dates compare by calendar components in now's location. The parsed request
// date and the stored DATE column both carry UTC midnight, so comparing them
// as instants against a clock in another zone would shift the day boundary.
func validateSlotAgainstNow(date time.Time, slot string, now time.Time) error {
	py, pm, pd := date.Date()
	ny, nm, nd := now.Date()
	proposed := time.Date(py, pm, pd, 0, 0, 0, 0, now.Location())
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, now.Location())

	if proposed.Before(today) {
		return apperrors.Validation("cannot book an appointment for a past date")
	}

	if !proposed.Equal(today) {
		return nil
	}

	if slot == "" {
		return apperrors.Validation("time is required for today's appointment")
	}

	t, err := time.Parse(model.TimeSlotLayout, slot)
	if err != nil {
		return apperrors.Validation("invalid time, expected HH:MM")
	}

	instant := today.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
	if instant.Before(now) {
		return apperrors.Validation("cannot book an appointment for a past time")
	}

	return nil
}
