package meal

import "time"

// Slot is a meal occasion that can be ordered on its own.
type Slot string

const (
	SlotLunch  Slot = "lunch"
	SlotDinner Slot = "dinner"
)

// Slots lists every slot in display order.
var Slots = []Slot{SlotLunch, SlotDinner}

func (s Slot) Valid() bool {
	return s == SlotLunch || s == SlotDinner
}

// Preference is the food category chosen for a slot.
type Preference string

const (
	PreferenceVeg     Preference = "veg"
	PreferencePaneer  Preference = "paneer"
	PreferenceChicken Preference = "chicken"
	PreferenceFish    Preference = "fish"
	PreferenceEgg     Preference = "egg"
	PreferenceNone    Preference = "none"
)

var Preferences = []Preference{
	PreferenceVeg,
	PreferencePaneer,
	PreferenceChicken,
	PreferenceFish,
	PreferenceEgg,
}

func (p Preference) Valid() bool {
	_, ok := prices[p]
	return ok
}

// Type is how the meal is served.
type Type string

const (
	TypeRotiOnly         Type = "roti_only"
	TypeRotiRiceCombined Type = "roti_rice_combined"
	TypeNone             Type = "none"
)

var Types = []Type{TypeRotiOnly, TypeRotiRiceCombined}

func (t Type) Valid() bool {
	return t == TypeRotiOnly || t == TypeRotiRiceCombined || t == TypeNone
}

// Order is a persisted food order. Prices are a snapshot taken at
// submission and are never recomputed.
type Order struct {
	ID               string     `json:"id"`
	UserName         string     `json:"user_name"`
	UserEmail        string     `json:"user_email"`
	OrderDate        string     `json:"order_date"`
	MealType         string     `json:"meal_type"`
	LunchPreference  Preference `json:"lunch_preference"`
	LunchType        Type       `json:"lunch_type"`
	DinnerPreference Preference `json:"dinner_preference"`
	DinnerType       Type       `json:"dinner_type"`
	LunchPrice       int        `json:"lunch_price"`
	DinnerPrice      int        `json:"dinner_price"`
	TotalPrice       int        `json:"total_price"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (o *Order) RecordDate() string  { return o.OrderDate }
func (o *Order) RecordName() string  { return o.UserName }
func (o *Order) RecordEmail() string { return o.UserEmail }
func (o *Order) RecordAmount() int   { return o.TotalPrice }
