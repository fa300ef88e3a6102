package reservation

import "time"

// ServiceWindow is the fixed duration a reservation is assumed to
// occupy its table, measured from the reservation time.
const ServiceWindow = 2 * time.Hour

// SlotDateLayout and SlotTimeLayout are the wire and column formats
// for reservation dates and times.
const (
	SlotDateLayout = "2006-01-02"
	SlotTimeLayout = "15:04:05"
)

// CheckTableAssignment is the named policy for reservations without an
// assigned table: availability is NOT checked and the reservation is
// always admitted.  Staff seat such parties manually on arrival,
// walk-in style.  The create handler branches on this function rather
// than falling through silently so the policy stays visible.
func CheckTableAssignment(tableID *uint64) bool {
	return tableID != nil
}

// Overlaps reports whether two reservations for the same table and
// date conflict.  Each reservation spans ServiceWindow from its start
// time.  Windows that touch exactly at a boundary do not conflict;
// the comparison is strict on both sides.
func Overlaps(existing, requested time.Time) bool {
	if existing.Equal(requested) {
		return true
	}
	if existing.After(requested) {
		return existing.Before(requested.Add(ServiceWindow))
	}
	return existing.Add(ServiceWindow).After(requested)
}

// WindowBounds returns the exclusive lower and upper bounds for the
// start times of reservations that would conflict with one starting at
// t.  An existing reservation conflicts exactly when its start time
// lies strictly between the two bounds, which lets the repository
// express the overlap test as a pair of inequalities on the time
// column.
func WindowBounds(t time.Time) (lower, upper time.Time) {
	return t.Add(-ServiceWindow), t.Add(ServiceWindow)
}

// ParseSlot validates and combines a reservation date and time into a
// single instant in UTC.  The time accepts both "15:04" and
// "15:04:05" forms.
func ParseSlot(date, clock string) (time.Time, error) {
	d, err := time.Parse(SlotDateLayout, date)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(SlotTimeLayout, clock)
	if err != nil {
		t, err = time.Parse("15:04", clock)
		if err != nil {
			return time.Time{}, err
		}
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}
