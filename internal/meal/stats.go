package meal

import (
	"strings"

	"mealdesk/internal/report"
)

// Stats covers every fetched order, not just the selected range.
type Stats struct {
	TotalOrders  int `json:"total_orders"`
	TotalRevenue int `json:"total_revenue"`
	LunchOrders  int `json:"lunch_orders"`
	DinnerOrders int `json:"dinner_orders"`
}

func ComputeStats(orders []*Order) Stats {
	st := Stats{TotalOrders: len(orders)}
	for _, o := range orders {
		st.TotalRevenue += o.TotalPrice
		if strings.Contains(o.MealType, string(SlotLunch)) {
			st.LunchOrders++
		}
		if strings.Contains(o.MealType, string(SlotDinner)) {
			st.DinnerOrders++
		}
	}
	return st
}

// Summary is the orders admin view.
type Summary struct {
	Date         string                     `json:"date"`
	Range        report.Range               `json:"range"`
	Stats        Stats                      `json:"stats"`
	DailyOrders  []*Order                   `json:"daily_orders"`
	DailySummary []report.DateGroup[*Order] `json:"daily_summary"`
	UserSummary  []report.UserGroup[*Order] `json:"user_summary"`
	RangeTotal   int                        `json:"range_total"`
}

// Summarize recomputes the whole admin view from the full order list.
func Summarize(orders []*Order, date string, r report.Range) Summary {
	inRange := report.FilterByRange(orders, r)
	return Summary{
		Date:         date,
		Range:        r,
		Stats:        ComputeStats(orders),
		DailyOrders:  report.FilterByDate(orders, date),
		DailySummary: report.GroupByDate(inRange),
		UserSummary:  report.GroupByUser(inRange),
		RangeTotal:   report.TotalAmount(inRange),
	}
}

var exportHeader = []string{
	"Date",
	"Name",
	"Email",
	"Meal Type",
	"Lunch Preference",
	"Lunch Type",
	"Dinner Preference",
	"Dinner Type",
	"Total Amount",
}

func ExportTable(orders []*Order) report.Table {
	rows := make([][]any, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []any{
			o.OrderDate,
			o.UserName,
			o.UserEmail,
			o.MealType,
			string(o.LunchPreference),
			string(o.LunchType),
			string(o.DinnerPreference),
			string(o.DinnerType),
			o.TotalPrice,
		})
	}
	return report.Table{Sheet: "Food Orders", Header: exportHeader, Rows: rows}
}
