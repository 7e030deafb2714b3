package meal

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"mealdesk/internal/submission"
)

// Column widths of the orders table.
const (
	MaxNameLength  = 255
	MaxEmailLength = 255
)

// Validate checks every rule and returns all failures keyed by form field.
// It never stops at the first failure and never returns nil.
func Validate(f Form) submission.Errors {
	errs := submission.Errors{}

	name := strings.TrimSpace(f.UserName)
	switch {
	case name == "":
		errs["userName"] = "Name is required"
	case utf8.RuneCountInString(name) > MaxNameLength:
		errs["userName"] = tooLong("Name", MaxNameLength)
	}

	email := strings.TrimSpace(f.UserEmail)
	switch {
	case email == "" || !strings.Contains(email, "@"):
		errs["userEmail"] = "Valid email is required"
	case utf8.RuneCountInString(email) > MaxEmailLength:
		errs["userEmail"] = tooLong("Email", MaxEmailLength)
	}

	if len(f.MealType) == 0 {
		errs["mealType"] = "Please select at least one meal"
	}
	seen := make(map[Slot]bool, len(f.MealType))
	for _, s := range f.MealType {
		switch {
		case !s.Valid():
			errs["mealType"] = "Unknown meal " + string(s)
		case seen[s]:
			errs["mealType"] = "Each meal can be selected only once"
		}
		seen[s] = true
	}

	for _, slot := range Slots {
		if !f.Has(slot) {
			continue
		}

		pref := f.PreferenceFor(slot)
		typ := f.TypeFor(slot)
		switch {
		case pref == PreferenceNone || pref == "":
			errs[fieldKey(slot, "Preference")] = "Please select " + string(slot) + " preference"
		case !pref.Valid():
			errs[fieldKey(slot, "Preference")] = "Unknown " + string(slot) + " preference"
		case typ == TypeNone || typ == "":
			errs[fieldKey(slot, "Type")] = "Please select " + string(slot) + " type"
		case !typ.Valid():
			errs[fieldKey(slot, "Type")] = "Unknown " + string(slot) + " type"
		}
	}

	return errs
}

func tooLong(field string, limit int) string {
	return field + " must be at most " + strconv.Itoa(limit) + " characters"
}

// fieldKey builds the form field name, e.g. lunchPreference.
func fieldKey(slot Slot, field string) string {
	return string(slot) + field
}

// BuildOrder assembles the record to persist from a validated form.
// Unselected slots are stored as none with price 0.
func BuildOrder(f Form) *Order {
	order := &Order{
		UserName:         strings.TrimSpace(f.UserName),
		UserEmail:        strings.TrimSpace(f.UserEmail),
		OrderDate:        f.OrderDate,
		LunchPreference:  PreferenceNone,
		LunchType:        TypeNone,
		DinnerPreference: PreferenceNone,
		DinnerType:       TypeNone,
	}

	names := make([]string, 0, len(f.MealType))
	for _, s := range f.MealType {
		names = append(names, string(s))
	}
	order.MealType = strings.Join(names, ", ")

	if f.Has(SlotLunch) {
		order.LunchPreference = f.LunchPreference
		order.LunchType = f.LunchType
		order.LunchPrice = PriceFor(f.LunchPreference)
	}
	if f.Has(SlotDinner) {
		order.DinnerPreference = f.DinnerPreference
		order.DinnerType = f.DinnerType
		order.DinnerPrice = PriceFor(f.DinnerPreference)
	}
	order.TotalPrice = order.LunchPrice + order.DinnerPrice

	return order
}
