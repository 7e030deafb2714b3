package deadline

import (
	"errors"
	"time"
)

// DateLayout is the calendar-date format used on the wire and in the record store.
const DateLayout = "2006-01-02"

// MealKind names the meal occasion a deadline applies to.
type MealKind string

const (
	Lunch  MealKind = "lunch"
	Dinner MealKind = "dinner"
)

var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// Cutoffs, local wall-clock time.
const (
	lunchHour       = 21 // on the day before the order date
	dinnerHour      = 16 // on the order date
	dinnerMinute    = 30
	transportCutoff = 17 // on the booking date
)

// Window reports whether a date is still open and the instant it closes.
type Window struct {
	Open     bool      `json:"open"`
	Deadline time.Time `json:"deadline"`
}

// Policy decides order/booking eligibility against the current wall-clock time.
// Every call reads the clock again; nothing is cached.
type Policy struct {
	now func() time.Time
	loc *time.Location
}

func NewPolicy(loc *time.Location, now func() time.Time) *Policy {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Policy{now: now, loc: loc}
}

func (p *Policy) Location() *time.Location {
	return p.loc
}

func (p *Policy) Now() time.Time {
	return p.now().In(p.loc)
}

// Today returns the current calendar date in the policy's time zone.
func (p *Policy) Today() string {
	return p.Now().Format(DateLayout)
}

// DaysFromToday returns today's date shifted by n days.
func (p *Policy) DaysFromToday(n int) string {
	return p.day(p.Now()).AddDate(0, 0, n).Format(DateLayout)
}

// ParseDate reads a YYYY-MM-DD value as midnight in the policy's time zone.
func (p *Policy) ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, p.loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// MealDeadline returns the last instant at which an order for the given
// meal on date is accepted.
func (p *Policy) MealDeadline(kind MealKind, date time.Time) (time.Time, bool) {
	y, m, d := date.In(p.loc).Date()
	switch kind {
	case Lunch:
		return time.Date(y, m, d-1, lunchHour, 0, 0, 0, p.loc), true
	case Dinner:
		return time.Date(y, m, d, dinnerHour, dinnerMinute, 0, 0, p.loc), true
	}
	return time.Time{}, false
}

// IsMealOrderingAllowed is true while now <= deadline. The deadline instant
// itself is still allowed.
func (p *Policy) IsMealOrderingAllowed(kind MealKind, date time.Time) bool {
	deadline, ok := p.MealDeadline(kind, date)
	if !ok {
		return false
	}
	return !p.now().After(deadline)
}

func (p *Policy) MealWindow(kind MealKind, date time.Time) Window {
	deadline, _ := p.MealDeadline(kind, date)
	return Window{
		Open:     p.IsMealOrderingAllowed(kind, date),
		Deadline: deadline,
	}
}

// TransportCutoff is 17:00 local time on the booking date.
func (p *Policy) TransportCutoff(date time.Time) time.Time {
	y, m, d := date.In(p.loc).Date()
	return time.Date(y, m, d, transportCutoff, 0, 0, 0, p.loc)
}

// IsTransportBookingClosed reports whether bookings for date are refused:
// any date before today, or today once the clock is past 17:00:00.
func (p *Policy) IsTransportBookingClosed(date time.Time) bool {
	now := p.Now()
	today := p.day(now)
	target := p.day(date)

	switch {
	case target.Before(today):
		return true
	case target.Equal(today):
		return now.After(p.TransportCutoff(today))
	default:
		return false
	}
}

func (p *Policy) TransportWindow(date time.Time) Window {
	return Window{
		Open:     !p.IsTransportBookingClosed(date),
		Deadline: p.TransportCutoff(date),
	}
}

func (p *Policy) day(t time.Time) time.Time {
	y, m, d := t.In(p.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, p.loc)
}
