package transport

import "mealdesk/internal/report"

// RouteStat counts one route's bookings for a single day.
type RouteStat struct {
	Route    string         `json:"route"`
	Total    int            `json:"total"`
	ByTiming map[string]int `json:"by_timing"`
	Pickups  int            `json:"pickups"`
	Dropoffs int            `json:"dropoffs"`
}

// RouteStats cross-tabulates bookings by route and shift end time, in
// route order. Every timing starts at 0. Bookings without a known route
// are skipped; bookings without a shift end time count only toward the
// route total.
func RouteStats(bookings []*Booking) []RouteStat {
	stats := make([]RouteStat, len(Routes))
	index := make(map[string]int, len(Routes))
	for i, route := range Routes {
		byTiming := make(map[string]int, len(ShiftEndTimes))
		for _, t := range ShiftEndTimes {
			byTiming[t] = 0
		}
		stats[i] = RouteStat{Route: route, ByTiming: byTiming}
		index[route] = i
	}

	for _, b := range bookings {
		i, ok := index[b.Route]
		if !ok {
			continue
		}
		st := &stats[i]
		st.Total++
		if b.ShiftEndTime != "" {
			st.ByTiming[b.ShiftEndTime]++
		}
		if b.BookingType == KindPickup {
			st.Pickups++
		} else {
			st.Dropoffs++
		}
	}
	return stats
}

// DaySummary counts bookings on one date.
type DaySummary struct {
	Date     string `json:"date"`
	Total    int    `json:"total"`
	Pickups  int    `json:"pickups"`
	Dropoffs int    `json:"dropoffs"`
}

// DailySummary returns one entry per date, newest first.
func DailySummary(bookings []*Booking) []DaySummary {
	groups := report.GroupByDate(bookings)

	out := make([]DaySummary, 0, len(groups))
	for _, g := range groups {
		day := DaySummary{Date: g.Date, Total: g.Count}
		for _, b := range g.Records {
			if b.BookingType == KindPickup {
				day.Pickups++
			} else {
				day.Dropoffs++
			}
		}
		out = append(out, day)
	}
	return out
}

type Totals struct {
	Total       int `json:"total"`
	Pickups     int `json:"pickups"`
	Dropoffs    int `json:"dropoffs"`
	UniqueUsers int `json:"unique_users"`
}

func ComputeTotals(bookings []*Booking) Totals {
	t := Totals{
		Total:       len(bookings),
		UniqueUsers: report.UniqueUsers(bookings),
	}
	for _, b := range bookings {
		switch b.BookingType {
		case KindPickup:
			t.Pickups++
		case KindDropoff:
			t.Dropoffs++
		}
	}
	return t
}

// Summary is the transport admin view. Route stats cover the selected date,
// the rest covers the range.
type Summary struct {
	Date          string       `json:"date"`
	Range         report.Range `json:"range"`
	DailyBookings []*Booking   `json:"daily_bookings"`
	RouteStats    []RouteStat  `json:"route_stats"`
	DailySummary  []DaySummary `json:"daily_summary"`
	Totals        Totals       `json:"totals"`
}

func Summarize(bookings []*Booking, date string, r report.Range) Summary {
	daily := report.FilterByDate(bookings, date)
	inRange := report.FilterByRange(bookings, r)
	return Summary{
		Date:          date,
		Range:         r,
		DailyBookings: daily,
		RouteStats:    RouteStats(daily),
		DailySummary:  DailySummary(inRange),
		Totals:        ComputeTotals(inRange),
	}
}

var exportHeader = []string{
	"Date",
	"Name",
	"Email",
	"Type",
	"Route",
	"Shift End Time",
	"Pickup Time",
	"Gender",
}

func ExportTable(bookings []*Booking) report.Table {
	rows := make([][]any, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, []any{
			b.BookingDate,
			b.UserName,
			b.UserEmail,
			string(b.BookingType),
			dash(b.Route),
			dash(b.ShiftEndTime),
			dash(b.PickupTime),
			dash(string(b.Gender)),
		})
	}
	return report.Table{Sheet: "Transport Bookings", Header: exportHeader, Rows: rows}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
