package transport

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"mealdesk/internal/submission"
)

// Column widths of the transport_bookings table. pickup_address is TEXT
// and capped here.
const (
	MaxNameLength          = 255
	MaxEmailLength         = 255
	MaxPickupTimeLength    = 50
	MaxPickupAddressLength = 500
)

// Validate runs every rule and returns all failures keyed by form field.
func Validate(f Form) submission.Errors {
	errs := submission.Errors{}

	checkLength(errs, "userName", "Name", f.UserName, MaxNameLength)
	checkLength(errs, "userEmail", "Email", f.UserEmail, MaxEmailLength)

	if strings.TrimSpace(f.TransportDate) == "" {
		errs["transportDate"] = "Please select a transport date"
	}

	if !f.WantDropOff.Valid() {
		errs["wantDropOff"] = "Please answer yes or no"
	}
	if !f.ShiftStartsAfter8pm.Valid() {
		errs["shiftStartsAfter8pm"] = "Please answer yes or no"
	}
	if !f.NeedCabPickup.Valid() {
		errs["needCabPickup"] = "Please answer yes or no"
	}

	if f.WantsDropOff() {
		switch {
		case f.ShiftEndTime == "":
			errs["shiftEndTime"] = "Please select shift ending time"
		case !IsShiftEndTime(f.ShiftEndTime):
			errs["shiftEndTime"] = "Unknown shift ending time"
		}
		switch {
		case f.Gender == "":
			errs["gender"] = "Please select your gender"
		case !f.Gender.Valid():
			errs["gender"] = "Unknown gender"
		}
		if !f.Acknowledgement {
			errs["acknowledgement"] = "Please accept the acknowledgement"
		}
		switch {
		case f.Route == "":
			errs["route"] = "Please select your route"
		case !IsRoute(f.Route):
			errs["route"] = "Unknown route"
		}
	}

	if f.WantsPickup() {
		if strings.TrimSpace(f.PickupTime) == "" {
			errs["pickupTime"] = "Please mention your pickup time"
		}
		if strings.TrimSpace(f.PickupAddress) == "" {
			errs["pickupAddress"] = "Please mention your pickup address"
		}
		checkLength(errs, "pickupTime", "Pickup time", f.PickupTime, MaxPickupTimeLength)
		checkLength(errs, "pickupAddress", "Pickup address", f.PickupAddress, MaxPickupAddressLength)
	}

	return errs
}

// checkLength measures the trimmed value, as stored.
func checkLength(errs submission.Errors, key, label, value string, limit int) {
	if utf8.RuneCountInString(strings.TrimSpace(value)) > limit {
		errs[key] = label + " must be at most " + strconv.Itoa(limit) + " characters"
	}
}

// BuildBookings turns a validated form into zero, one or two records,
// drop-off first.
func BuildBookings(f Form) []*Booking {
	name := strings.TrimSpace(f.UserName)
	email := strings.TrimSpace(f.UserEmail)

	var out []*Booking
	if f.WantsDropOff() {
		out = append(out, &Booking{
			UserName:     name,
			UserEmail:    email,
			BookingDate:  f.TransportDate,
			BookingType:  KindDropoff,
			ShiftEndTime: f.ShiftEndTime,
			Gender:       f.Gender,
			Route:        f.Route,
		})
	}
	if f.WantsPickup() {
		out = append(out, &Booking{
			UserName:      name,
			UserEmail:     email,
			BookingDate:   f.TransportDate,
			BookingType:   KindPickup,
			PickupTime:    strings.TrimSpace(f.PickupTime),
			PickupAddress: strings.TrimSpace(f.PickupAddress),
		})
	}
	return out
}
