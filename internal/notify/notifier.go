package notify

import (
	"bytes"
	"context"
	"html/template"
	"log"
	"strings"
)

// MealLine is one ordered meal in a confirmation.
type MealLine struct {
	Slot       string
	Preference string
	Type       string
	Price      int
}

type OrderConfirmation struct {
	Name      string
	Email     string
	OrderDate string
	Meals     []MealLine
	Total     int
}

type BookingLine struct {
	Kind          string
	Route         string
	ShiftEndTime  string
	PickupTime    string
	PickupAddress string
}

type BookingConfirmation struct {
	Name     string
	Email    string
	Date     string
	Bookings []BookingLine
}

// Notifier sends confirmations after a record is stored. Failures are
// reported to the caller but never undo the stored record.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, c OrderConfirmation) error
	SendBookingConfirmation(ctx context.Context, c BookingConfirmation) error
}

var funcs = template.FuncMap{
	"label": Label,
}

var orderTmpl = template.Must(template.New("order").Funcs(funcs).Parse(`<html>
  <body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Food Order Confirmation</h2>
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Order Date:</strong> {{.OrderDate}}</p>
    {{range .Meals}}
    <h3>{{label .Slot}} Order</h3>
    <p><strong>Preference:</strong> {{label .Preference}}</p>
    <p><strong>Type:</strong> {{label .Type}}</p>
    <p><strong>Price:</strong> ₹{{.Price}}</p>
    {{end}}
    <p><strong>Total Amount: ₹{{.Total}}</strong></p>
    <p><em>Payment to be made at the end of the month.</em></p>
  </body>
</html>`))

var bookingTmpl = template.Must(template.New("booking").Funcs(funcs).Parse(`<html>
  <body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Transport Booking Confirmation</h2>
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Date:</strong> {{.Date}}</p>
    {{range .Bookings}}
    <h3>{{label .Kind}}</h3>
    {{if .Route}}<p><strong>Route:</strong> {{.Route}}</p>{{end}}
    {{if .ShiftEndTime}}<p><strong>Shift ends:</strong> {{.ShiftEndTime}}</p>{{end}}
    {{if .PickupTime}}<p><strong>Pickup time:</strong> {{.PickupTime}}</p>{{end}}
    {{if .PickupAddress}}<p><strong>Pickup address:</strong> {{.PickupAddress}}</p>{{end}}
    {{end}}
  </body>
</html>`))

// LogNotifier renders the confirmation and writes it to the log instead of
// sending mail.
type LogNotifier struct {
	hrEmail string
	logger  *log.Logger
}

func NewLogNotifier(hrEmail string, logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.Default()
	}
	return &LogNotifier{hrEmail: hrEmail, logger: logger}
}

func (n *LogNotifier) SendOrderConfirmation(ctx context.Context, c OrderConfirmation) error {
	var body bytes.Buffer
	if err := orderTmpl.Execute(&body, c); err != nil {
		return err
	}
	n.logger.Printf("[NOTIFY] order confirmation to=%s cc=%s\n%s", c.Email, n.hrEmail, body.String())
	return nil
}

func (n *LogNotifier) SendBookingConfirmation(ctx context.Context, c BookingConfirmation) error {
	var body bytes.Buffer
	if err := bookingTmpl.Execute(&body, c); err != nil {
		return err
	}
	n.logger.Printf("[NOTIFY] booking confirmation to=%s cc=%s\n%s", c.Email, n.hrEmail, body.String())
	return nil
}

// Label turns an enum value such as "roti_rice_combined" into "Roti Rice Combined".
func Label(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
