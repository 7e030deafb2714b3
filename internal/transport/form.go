package transport

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrInvalidValue  = errors.New("invalid value")
)

// Form is the in-progress input for one transport request. It can yield a
// drop-off, a pickup, or both.
type Form struct {
	UserName            string `json:"userName"`
	UserEmail           string `json:"userEmail"`
	TransportDate       string `json:"transportDate"`
	WantDropOff         Choice `json:"wantDropOff"`
	ShiftEndTime        string `json:"shiftEndTime"`
	Gender              Gender `json:"gender"`
	Route               string `json:"route"`
	Acknowledgement     bool   `json:"acknowledgement"`
	ShiftStartsAfter8pm Choice `json:"shiftStartsAfter8pm"`
	NeedCabPickup       Choice `json:"needCabPickup"`
	PickupTime          string `json:"pickupTime"`
	PickupAddress       string `json:"pickupAddress"`
}

// WantsDropOff reports whether a drop-off booking is requested.
func (f Form) WantsDropOff() bool {
	return f.WantDropOff == Yes
}

// WantsPickup requires both the late-shift and the pickup answer.
func (f Form) WantsPickup() bool {
	return f.ShiftStartsAfter8pm == Yes && f.NeedCabPickup == Yes
}

type ActionType string

const (
	ActionSetUserName            ActionType = "set_user_name"
	ActionSetUserEmail           ActionType = "set_user_email"
	ActionSetTransportDate       ActionType = "set_transport_date"
	ActionSetWantDropOff         ActionType = "set_want_drop_off"
	ActionSetShiftEndTime        ActionType = "set_shift_end_time"
	ActionSetGender              ActionType = "set_gender"
	ActionSetRoute               ActionType = "set_route"
	ActionSetAcknowledgement     ActionType = "set_acknowledgement"
	ActionSetShiftStartsAfter8pm ActionType = "set_shift_starts_after_8pm"
	ActionSetNeedCabPickup       ActionType = "set_need_cab_pickup"
	ActionSetPickupTime          ActionType = "set_pickup_time"
	ActionSetPickupAddress       ActionType = "set_pickup_address"
	ActionReset                  ActionType = "reset"
)

type Action struct {
	Type  ActionType `json:"type"`
	Value string     `json:"value"`
}

// Reduce applies a to f and returns the new form. Answering "no" to a
// parent question clears the fields only that answer made relevant.
// ActionReset is handled by the session.
func Reduce(f Form, a Action) (Form, error) {
	next := f

	switch a.Type {
	case ActionSetUserName:
		next.UserName = a.Value
	case ActionSetUserEmail:
		next.UserEmail = a.Value
	case ActionSetTransportDate:
		next.TransportDate = strings.TrimSpace(a.Value)

	case ActionSetWantDropOff:
		c, err := parseChoice(a)
		if err != nil {
			return f, err
		}
		next.WantDropOff = c
		if c != Yes {
			next.ShiftEndTime = ""
			next.Gender = ""
			next.Route = ""
			next.Acknowledgement = false
		}

	case ActionSetShiftEndTime:
		if a.Value != "" && !IsShiftEndTime(a.Value) {
			return f, fmt.Errorf("%w: shift end time %q", ErrInvalidValue, a.Value)
		}
		next.ShiftEndTime = a.Value
	case ActionSetGender:
		g := Gender(a.Value)
		if g != "" && !g.Valid() {
			return f, fmt.Errorf("%w: gender %q", ErrInvalidValue, a.Value)
		}
		next.Gender = g
	case ActionSetRoute:
		if a.Value != "" && !IsRoute(a.Value) {
			return f, fmt.Errorf("%w: route %q", ErrInvalidValue, a.Value)
		}
		next.Route = a.Value
	case ActionSetAcknowledgement:
		ack, err := strconv.ParseBool(a.Value)
		if err != nil {
			return f, fmt.Errorf("%w: acknowledgement %q", ErrInvalidValue, a.Value)
		}
		next.Acknowledgement = ack

	case ActionSetShiftStartsAfter8pm:
		c, err := parseChoice(a)
		if err != nil {
			return f, err
		}
		next.ShiftStartsAfter8pm = c
		if c != Yes {
			next.NeedCabPickup = Unanswered
			next.PickupTime = ""
			next.PickupAddress = ""
		}

	case ActionSetNeedCabPickup:
		c, err := parseChoice(a)
		if err != nil {
			return f, err
		}
		next.NeedCabPickup = c
		if c != Yes {
			next.PickupTime = ""
			next.PickupAddress = ""
		}

	case ActionSetPickupTime:
		next.PickupTime = a.Value
	case ActionSetPickupAddress:
		next.PickupAddress = a.Value

	default:
		return f, fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}

	return next, nil
}

func parseChoice(a Action) (Choice, error) {
	c := Choice(a.Value)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %s %q", ErrInvalidValue, a.Type, a.Value)
	}
	return c, nil
}
