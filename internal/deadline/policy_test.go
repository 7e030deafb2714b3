package deadline

import (
	"testing"
	"time"
)

var kolkata = time.FixedZone("IST", 5*3600+1800)

func fixedPolicy(now time.Time) *Policy {
	return NewPolicy(kolkata, func() time.Time { return now })
}

func at(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, kolkata)
}

func mustDate(t *testing.T, p *Policy, s string) time.Time {
	t.Helper()
	d, err := p.ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestLunchDeadlineIsNinePMTheDayBefore(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"morning before", at(2024, 1, 9, 9, 0, 0), true},
		{"exactly at deadline", at(2024, 1, 9, 21, 0, 0), true},
		{"one second late", at(2024, 1, 9, 21, 0, 1), false},
		{"on the day", at(2024, 1, 10, 8, 0, 0), false},
		{"days before", at(2024, 1, 1, 23, 59, 59), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := fixedPolicy(tc.now)
			got := p.IsMealOrderingAllowed(Lunch, mustDate(t, p, "2024-01-10"))
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestDinnerDeadlineIsFourThirtyOnTheDay(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"same morning", at(2024, 1, 10, 10, 0, 0), true},
		{"exactly at deadline", at(2024, 1, 10, 16, 30, 0), true},
		{"one second late", at(2024, 1, 10, 16, 30, 1), false},
		{"next day", at(2024, 1, 11, 0, 0, 0), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := fixedPolicy(tc.now)
			got := p.IsMealOrderingAllowed(Dinner, mustDate(t, p, "2024-01-10"))
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestLunchDeadlineCrossesMonthBoundary(t *testing.T) {
	p := fixedPolicy(at(2024, 2, 29, 20, 0, 0))
	deadline, ok := p.MealDeadline(Lunch, mustDate(t, p, "2024-03-01"))
	if !ok {
		t.Fatal("expected a lunch deadline")
	}
	if want := at(2024, 2, 29, 21, 0, 0); !deadline.Equal(want) {
		t.Fatalf("expected %v, got %v", want, deadline)
	}
}

func TestUnknownMealKindIsNeverAllowed(t *testing.T) {
	p := fixedPolicy(at(2024, 1, 1, 0, 0, 0))
	if p.IsMealOrderingAllowed(MealKind("breakfast"), mustDate(t, p, "2024-02-01")) {
		t.Fatal("expected unknown meal kind to be refused")
	}
}

func TestTransportBookingClosed(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		date string
		want bool
	}{
		{"today before cutoff", at(2024, 1, 10, 16, 59, 59), "2024-01-10", false},
		{"today at cutoff", at(2024, 1, 10, 17, 0, 0), "2024-01-10", false},
		{"today after cutoff", at(2024, 1, 10, 17, 0, 1), "2024-01-10", true},
		{"yesterday", at(2024, 1, 10, 9, 0, 0), "2024-01-09", true},
		{"tomorrow late at night", at(2024, 1, 10, 23, 59, 0), "2024-01-11", false},
		{"far future", at(2024, 1, 10, 23, 59, 0), "2025-06-01", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := fixedPolicy(tc.now)
			got := p.IsTransportBookingClosed(mustDate(t, p, tc.date))
			if got != tc.want {
				t.Fatalf("expected closed=%v, got %v", tc.want, got)
			}
		})
	}
}

func TestPolicyReadsClockOnEveryCall(t *testing.T) {
	now := at(2024, 1, 10, 16, 29, 0)
	p := NewPolicy(kolkata, func() time.Time { return now })
	date := mustDate(t, p, "2024-01-10")

	if !p.IsMealOrderingAllowed(Dinner, date) {
		t.Fatal("expected dinner to be open before 16:30")
	}

	now = at(2024, 1, 10, 16, 31, 0)
	if p.IsMealOrderingAllowed(Dinner, date) {
		t.Fatal("expected dinner to close once the clock passes 16:30")
	}
}

func TestWindows(t *testing.T) {
	p := fixedPolicy(at(2024, 1, 10, 12, 0, 0))
	date := mustDate(t, p, "2024-01-10")

	lunch := p.MealWindow(Lunch, date)
	if lunch.Open {
		t.Error("expected lunch window to be closed")
	}
	dinner := p.MealWindow(Dinner, date)
	if !dinner.Open || !dinner.Deadline.Equal(at(2024, 1, 10, 16, 30, 0)) {
		t.Errorf("unexpected dinner window %+v", dinner)
	}
	transport := p.TransportWindow(date)
	if !transport.Open || !transport.Deadline.Equal(at(2024, 1, 10, 17, 0, 0)) {
		t.Errorf("unexpected transport window %+v", transport)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	p := fixedPolicy(time.Now())
	for _, s := range []string{"", "10-01-2024", "2024-13-01", "2024-01-10T00:00:00"} {
		if _, err := p.ParseDate(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestTodayAndDaysFromToday(t *testing.T) {
	p := fixedPolicy(at(2024, 3, 2, 1, 0, 0))
	if got := p.Today(); got != "2024-03-02" {
		t.Errorf("expected 2024-03-02, got %s", got)
	}
	if got := p.DaysFromToday(-7); got != "2024-02-24" {
		t.Errorf("expected 2024-02-24, got %s", got)
	}
}
