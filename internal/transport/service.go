package transport

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"mealdesk/internal/deadline"
	"mealdesk/internal/notify"
	"mealdesk/internal/report"
	"mealdesk/internal/submission"
)

// ExportEntity prefixes export file names.
const ExportEntity = "transport-bookings"

type Service struct {
	repo     Repository
	policy   *deadline.Policy
	notifier notify.Notifier
	timeout  time.Duration
}

func NewService(
	repo Repository,
	policy *deadline.Policy,
	notifier notify.Notifier,
	timeout time.Duration,
) *Service {
	return &Service{
		repo:     repo,
		policy:   policy,
		notifier: notifier,
		timeout:  timeout,
	}
}

func (s *Service) Policy() *deadline.Policy {
	return s.policy
}

// --------------------------------------------------
// Validation (form rules + booking cutoff)
// --------------------------------------------------
func (s *Service) Validate(f Form) submission.Errors {
	errs := Validate(f)

	if f.TransportDate != "" {
		date, err := s.policy.ParseDate(f.TransportDate)
		switch {
		case err != nil:
			errs["transportDate"] = "Please select a valid transport date"
		case s.policy.IsTransportBookingClosed(date):
			errs["transportDate"] = "Bookings for " + f.TransportDate + " are closed"
		}
	}

	if !f.WantsDropOff() && !f.WantsPickup() {
		errs["booking"] = "Please request a drop-off or a pickup"
	}

	return errs
}

// Availability reports whether bookings for date are still accepted.
func (s *Service) Availability(date string) (deadline.Window, error) {
	d, err := s.policy.ParseDate(date)
	if err != nil {
		return deadline.Window{}, err
	}
	return s.policy.TransportWindow(d), nil
}

// --------------------------------------------------
// Submission
// --------------------------------------------------
type attempt struct {
	svc      *Service
	form     Form
	bookings []*Booking

	onValidated func(submission.Errors)
	onStored    func([]*Booking)
}

func (s *Service) newAttempt(f Form) *attempt {
	return &attempt{svc: s, form: f}
}

func (a *attempt) steps() submission.Steps {
	return submission.Steps{
		Validate: a.validate,
		Persist:  a.persist,
		Notify:   a.notify,
	}
}

func (a *attempt) validate() submission.Errors {
	errs := a.svc.Validate(a.form)
	if a.onValidated != nil {
		a.onValidated(errs)
	}
	return errs
}

func (a *attempt) persist(ctx context.Context) error {
	bookings := BuildBookings(a.form)

	ctx, cancel := submission.StoreContext(ctx, a.svc.timeout, true)
	defer cancel()

	if err := a.svc.repo.InsertAll(ctx, bookings); err != nil {
		log.Printf("[TRANSPORT] insert failed for %s on %s: %v", a.form.UserEmail, a.form.TransportDate, err)
		return err
	}

	for _, b := range bookings {
		log.Printf("[TRANSPORT] stored id=%s type=%s date=%s route=%q", b.ID, b.BookingType, b.BookingDate, b.Route)
	}

	a.bookings = bookings
	if a.onStored != nil {
		a.onStored(bookings)
	}
	return nil
}

func (a *attempt) notify(ctx context.Context) error {
	if a.svc.notifier == nil || len(a.bookings) == 0 {
		return nil
	}
	return a.svc.notifier.SendBookingConfirmation(ctx, Confirmation(a.bookings))
}

// Submit validates and stores the bookings of one request. Bookings are
// returned only when the result is KindSucceeded.
func (s *Service) Submit(ctx context.Context, f Form) (submission.Result, []*Booking) {
	a := s.newAttempt(f)
	res := submission.Run(ctx, a.steps())
	if !res.Succeeded() {
		return res, nil
	}
	return res, a.bookings
}

// Confirmation builds the notification content for the bookings of one
// submission.
func Confirmation(bookings []*Booking) notify.BookingConfirmation {
	first := bookings[0]
	c := notify.BookingConfirmation{
		Name:  first.UserName,
		Email: first.UserEmail,
		Date:  first.BookingDate,
	}
	for _, b := range bookings {
		c.Bookings = append(c.Bookings, notify.BookingLine{
			Kind:          string(b.BookingType),
			Route:         b.Route,
			ShiftEndTime:  b.ShiftEndTime,
			PickupTime:    b.PickupTime,
			PickupAddress: b.PickupAddress,
		})
	}
	return c
}

// --------------------------------------------------
// Admin reads
// --------------------------------------------------
func (s *Service) ListAll(ctx context.Context) ([]*Booking, error) {
	ctx, cancel := submission.StoreContext(ctx, s.timeout, false)
	defer cancel()
	return s.repo.ListAll(ctx)
}

func (s *Service) Summary(ctx context.Context, date string, r report.Range) (*Summary, error) {
	bookings, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sum := Summarize(bookings, date, r)
	return &sum, nil
}

// Export renders the bookings in r and returns the file body and name.
func (s *Service) Export(ctx context.Context, r report.Range, format report.Format) ([]byte, string, error) {
	if err := r.Validate(); err != nil {
		return nil, "", err
	}

	bookings, err := s.ListAll(ctx)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := ExportTable(report.FilterByRange(bookings, r)).Write(&buf, format); err != nil {
		return nil, "", fmt.Errorf("render export: %w", err)
	}
	return buf.Bytes(), report.Filename(ExportEntity, r, format), nil
}
