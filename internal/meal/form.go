package meal

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrInvalidValue  = errors.New("invalid value")
)

// Form is the in-progress input for one order.
type Form struct {
	UserName         string     `json:"userName"`
	UserEmail        string     `json:"userEmail"`
	OrderDate        string     `json:"orderDate"`
	MealType         []Slot     `json:"mealType"`
	LunchPreference  Preference `json:"lunchPreference"`
	LunchType        Type       `json:"lunchType"`
	DinnerPreference Preference `json:"dinnerPreference"`
	DinnerType       Type       `json:"dinnerType"`
}

// NewForm returns the initial form for the given date.
func NewForm(orderDate string) Form {
	return Form{
		OrderDate:        orderDate,
		MealType:         []Slot{},
		LunchPreference:  PreferenceNone,
		LunchType:        TypeNone,
		DinnerPreference: PreferenceNone,
		DinnerType:       TypeNone,
	}
}

// Normalize maps empty enum values to "none".
func (f Form) Normalize() Form {
	if f.MealType == nil {
		f.MealType = []Slot{}
	}
	if f.LunchPreference == "" {
		f.LunchPreference = PreferenceNone
	}
	if f.LunchType == "" {
		f.LunchType = TypeNone
	}
	if f.DinnerPreference == "" {
		f.DinnerPreference = PreferenceNone
	}
	if f.DinnerType == "" {
		f.DinnerType = TypeNone
	}
	return f
}

func (f Form) Has(slot Slot) bool {
	for _, s := range f.MealType {
		if s == slot {
			return true
		}
	}
	return false
}

func (f Form) PreferenceFor(slot Slot) Preference {
	if slot == SlotDinner {
		return f.DinnerPreference
	}
	return f.LunchPreference
}

func (f Form) TypeFor(slot Slot) Type {
	if slot == SlotDinner {
		return f.DinnerType
	}
	return f.LunchType
}

// Selections maps each selected slot to its preference.
func (f Form) Selections() map[Slot]Preference {
	out := make(map[Slot]Preference, len(f.MealType))
	for _, s := range f.MealType {
		if s.Valid() {
			out[s] = f.PreferenceFor(s)
		}
	}
	return out
}

// TotalPrice is the running total shown while the form is edited.
func (f Form) TotalPrice() int {
	return TotalPrice(f.Selections())
}

type ActionType string

const (
	ActionSetUserName   ActionType = "set_user_name"
	ActionSetUserEmail  ActionType = "set_user_email"
	ActionSetOrderDate  ActionType = "set_order_date"
	ActionToggleSlot    ActionType = "toggle_slot"
	ActionSetPreference ActionType = "set_preference"
	ActionSetType       ActionType = "set_type"
	ActionReset         ActionType = "reset"
)

// Action is one user edit. Slot is used by the slot-scoped actions.
type Action struct {
	Type  ActionType `json:"type"`
	Slot  Slot       `json:"slot,omitempty"`
	Value string     `json:"value"`
}

// Reduce applies a to f and returns the new form; f is not modified.
// Deselecting a slot, or setting its preference to none, clears the
// fields that depended on it. ActionReset needs the session's initial
// form and is handled by the session.
func Reduce(f Form, a Action) (Form, error) {
	next := f
	next.MealType = append([]Slot{}, f.MealType...)

	switch a.Type {
	case ActionSetUserName:
		next.UserName = a.Value
	case ActionSetUserEmail:
		next.UserEmail = a.Value
	case ActionSetOrderDate:
		next.OrderDate = strings.TrimSpace(a.Value)

	case ActionToggleSlot:
		slot := Slot(a.Value)
		if !slot.Valid() {
			return f, fmt.Errorf("%w: meal %q", ErrInvalidValue, a.Value)
		}
		if next.Has(slot) {
			next.MealType = without(next.MealType, slot)
			next = next.setPreference(slot, PreferenceNone)
		} else {
			next.MealType = append(next.MealType, slot)
		}

	case ActionSetPreference:
		pref := Preference(a.Value)
		if !a.Slot.Valid() || !pref.Valid() {
			return f, fmt.Errorf("%w: %s preference %q", ErrInvalidValue, a.Slot, a.Value)
		}
		next = next.setPreference(a.Slot, pref)

	case ActionSetType:
		typ := Type(a.Value)
		if !a.Slot.Valid() || !typ.Valid() {
			return f, fmt.Errorf("%w: %s type %q", ErrInvalidValue, a.Slot, a.Value)
		}
		if a.Slot == SlotDinner {
			next.DinnerType = typ
		} else {
			next.LunchType = typ
		}

	default:
		return f, fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}

	return next, nil
}

func (f Form) setPreference(slot Slot, pref Preference) Form {
	if slot == SlotDinner {
		f.DinnerPreference = pref
		if pref == PreferenceNone {
			f.DinnerType = TypeNone
		}
		return f
	}
	f.LunchPreference = pref
	if pref == PreferenceNone {
		f.LunchType = TypeNone
	}
	return f
}

func without(slots []Slot, drop Slot) []Slot {
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s != drop {
			out = append(out, s)
		}
	}
	return out
}
