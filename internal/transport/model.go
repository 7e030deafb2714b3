package transport

import "time"

// Kind is the booking type stored per record.
type Kind string

const (
	KindPickup  Kind = "pickup"
	KindDropoff Kind = "dropoff"
)

// Routes are the fixed drop-off routes, in display order.
var Routes = []string{
	"Office-Patia-Cuttack",
	"Office - Jatani",
	"Office-Sahid nagar-Puri highway",
	"Office-Sundarpada",
	"Office-Silicon (For Interns only)",
	"Office-KIIT-Patia (For Interns only)",
}

// ShiftEndTimes run from 9:00 PM to 6:00 AM the next day.
var ShiftEndTimes = []string{
	"9:00 PM",
	"10:00 PM",
	"11:00 PM",
	"12:00 AM",
	"1:00 AM",
	"2:00 AM",
	"3:00 AM",
	"4:00 AM",
	"5:00 AM",
	"6:00 AM",
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

var Genders = []Gender{GenderMale, GenderFemale}

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Choice is a yes/no answer. The empty value means unanswered.
type Choice string

const (
	Unanswered Choice = ""
	Yes        Choice = "yes"
	No         Choice = "no"
)

func (c Choice) Valid() bool {
	return c == Unanswered || c == Yes || c == No
}

func IsRoute(s string) bool {
	return contains(Routes, s)
}

func IsShiftEndTime(s string) bool {
	return contains(ShiftEndTimes, s)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Booking is one persisted pickup or drop-off. Drop-off fields are empty
// on pickups and the other way round.
type Booking struct {
	ID            string    `json:"id"`
	UserName      string    `json:"user_name"`
	UserEmail     string    `json:"user_email"`
	BookingDate   string    `json:"booking_date"`
	BookingType   Kind      `json:"booking_type"`
	ShiftEndTime  string    `json:"shift_end_time,omitempty"`
	Gender        Gender    `json:"gender,omitempty"`
	Route         string    `json:"route,omitempty"`
	PickupTime    string    `json:"pickup_time,omitempty"`
	PickupAddress string    `json:"pickup_address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (b *Booking) RecordDate() string  { return b.BookingDate }
func (b *Booking) RecordName() string  { return b.UserName }
func (b *Booking) RecordEmail() string { return b.UserEmail }

// RecordAmount is always 0; transport is free.
func (b *Booking) RecordAmount() int { return 0 }
