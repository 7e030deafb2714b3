package report

import (
	"errors"
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

var ErrInvalidRange = errors.New("invalid date range")

// Record is anything persisted with a calendar date, a requester and an amount.
type Record interface {
	RecordDate() string
	RecordName() string
	RecordEmail() string
	RecordAmount() int
}

// Range is an inclusive [Start, End] span of YYYY-MM-DD dates. Zero-padded
// ISO dates compare correctly as strings.
type Range struct {
	Start string `json:"start_date"`
	End   string `json:"end_date"`
}

func (r Range) Validate() error {
	if _, err := time.Parse(dateLayout, r.Start); err != nil {
		return ErrInvalidRange
	}
	if _, err := time.Parse(dateLayout, r.End); err != nil {
		return ErrInvalidRange
	}
	if r.Start > r.End {
		return ErrInvalidRange
	}
	return nil
}

func (r Range) Contains(date string) bool {
	return r.Start <= date && date <= r.End
}

func FilterByDate[T Record](records []T, date string) []T {
	out := make([]T, 0)
	for _, rec := range records {
		if rec.RecordDate() == date {
			out = append(out, rec)
		}
	}
	return out
}

func FilterByRange[T Record](records []T, r Range) []T {
	out := make([]T, 0)
	for _, rec := range records {
		if r.Contains(rec.RecordDate()) {
			out = append(out, rec)
		}
	}
	return out
}

type DateGroup[T Record] struct {
	Date        string `json:"date"`
	Records     []T    `json:"records"`
	TotalAmount int    `json:"total_amount"`
	Count       int    `json:"count"`
}

// GroupByDate buckets records per date, newest date first. Records keep
// their input order inside a bucket.
func GroupByDate[T Record](records []T) []DateGroup[T] {
	index := make(map[string]int)
	groups := make([]DateGroup[T], 0)

	for _, rec := range records {
		date := rec.RecordDate()
		i, ok := index[date]
		if !ok {
			i = len(groups)
			index[date] = i
			groups = append(groups, DateGroup[T]{Date: date})
		}
		groups[i].Records = append(groups[i].Records, rec)
		groups[i].TotalAmount += rec.RecordAmount()
		groups[i].Count++
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Date > groups[b].Date
	})
	return groups
}

type UserGroup[T Record] struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Records     []T    `json:"records"`
	TotalAmount int    `json:"total_amount"`
	Count       int    `json:"count"`
}

// GroupByUser buckets records per email, highest total first. Ties keep
// the order in which each email was first seen. The name is taken from
// the first record of each email.
func GroupByUser[T Record](records []T) []UserGroup[T] {
	index := make(map[string]int)
	groups := make([]UserGroup[T], 0)

	for _, rec := range records {
		email := rec.RecordEmail()
		i, ok := index[email]
		if !ok {
			i = len(groups)
			index[email] = i
			groups = append(groups, UserGroup[T]{
				Name:  rec.RecordName(),
				Email: email,
			})
		}
		groups[i].Records = append(groups[i].Records, rec)
		groups[i].TotalAmount += rec.RecordAmount()
		groups[i].Count++
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].TotalAmount > groups[b].TotalAmount
	})
	return groups
}

// TotalAmount sums RecordAmount over records.
func TotalAmount[T Record](records []T) int {
	total := 0
	for _, rec := range records {
		total += rec.RecordAmount()
	}
	return total
}

// UniqueUsers counts distinct emails.
func UniqueUsers[T Record](records []T) int {
	seen := make(map[string]struct{})
	for _, rec := range records {
		seen[rec.RecordEmail()] = struct{}{}
	}
	return len(seen)
}

// ResolveRange fills missing bounds the way the admin views default them:
// start is a week before today, end is today.
func ResolveRange(start, end string, today time.Time) (Range, error) {
	if start == "" {
		start = today.AddDate(0, 0, -7).Format(dateLayout)
	}
	if end == "" {
		end = today.Format(dateLayout)
	}
	r := Range{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}
