package booking

import (
	"time"

	"rusunawa/internal/models"
)

// DateRange is a normalized, midnight-aligned booking interval.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Nights returns the number of nights covered by a daily range.
func (d DateRange) Nights() int {
	return int(d.End.Sub(d.Start).Hours() / 24)
}

// AddMonthClamped returns the date exactly one calendar month after t,
// clamped to the last valid day of the target month: Jan 31 resolves to
// Feb 28 (29 in leap years), never Mar 2/3.
func AddMonthClamped(t time.Time) time.Time {
	day := t.Day()
	firstOfNext := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfNext.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfNext.Year(), firstOfNext.Month(), day, 0, 0, 0, 0, t.Location())
}

// ValidateRange enforces rental-type rules and returns the normalized
// range. For monthly rentals the end date is derived from the start:
// one calendar month later, clamped; a caller-supplied end earlier than
// that is silently replaced. No side effects beyond the return value.
func ValidateRange(room *models.Room, start, end, now time.Time, maxAdvanceDays int) (DateRange, error) {
	if room == nil {
		return DateRange{}, ErrRoomRequired
	}
	if maxAdvanceDays <= 0 {
		maxAdvanceDays = models.DefaultMaxAdvanceDays
	}

	start = midnight(start)
	end = midnight(end)
	today := midnight(now)

	if start.Before(today) {
		return DateRange{}, ErrStartInPast
	}
	if start.After(today.AddDate(0, 0, maxAdvanceDays)) {
		return DateRange{}, ErrDateTooFar
	}

	switch room.RentalType {
	case models.RentalMonthly:
		derived := AddMonthClamped(start)
		if end.IsZero() || end.Before(derived) {
			end = derived
		}
	default:
		if !end.After(start) {
			return DateRange{}, ErrEndBeforeStart
		}
	}

	return DateRange{Start: start, End: end}, nil
}

func midnight(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
