package meal

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
const ExportEntity = "food-orders"

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
// Validation (form rules + ordering deadlines)
// --------------------------------------------------
func (s *Service) Validate(f Form) submission.Errors {
	errs := Validate(f)

	date, err := s.policy.ParseDate(f.OrderDate)
	if err != nil {
		errs["orderDate"] = "Please select a valid order date"
		return errs
	}

	for _, slot := range Slots {
		if !f.Has(slot) {
			continue
		}
		if !s.policy.IsMealOrderingAllowed(deadline.MealKind(slot), date) {
			dl, _ := s.policy.MealDeadline(deadline.MealKind(slot), date)
			errs[string(slot)] = fmt.Sprintf(
				"%s ordering for %s closed at %s",
				notify.Label(string(slot)),
				f.OrderDate,
				dl.Format("3:04 PM on 2006-01-02"),
			)
		}
	}

	return errs
}

// Availability reports, per slot, whether ordering for date is still open.
func (s *Service) Availability(date string) (map[Slot]deadline.Window, error) {
	d, err := s.policy.ParseDate(date)
	if err != nil {
		return nil, err
	}

	out := make(map[Slot]deadline.Window, len(Slots))
	for _, slot := range Slots {
		out[slot] = s.policy.MealWindow(deadline.MealKind(slot), d)
	}
	return out, nil
}

// --------------------------------------------------
// Submission
// --------------------------------------------------

// attempt is one pass of a form through the submission pipeline.
type attempt struct {
	svc   *Service
	form  Form
	order *Order

	onValidated func(submission.Errors)
	onStored    func(*Order)
}

func (s *Service) newAttempt(f Form) *attempt {
	return &attempt{svc: s, form: f.Normalize()}
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
	order := BuildOrder(a.form)

	ctx, cancel := submission.StoreContext(ctx, a.svc.timeout, true)
	defer cancel()

	if err := a.svc.repo.Insert(ctx, order); err != nil {
		log.Printf("[ORDERS] insert failed for %s on %s: %v", order.UserEmail, order.OrderDate, err)
		return err
	}

	log.Printf(
		"[ORDERS] stored id=%s email=%s date=%s meals=%q total=%d",
		order.ID, order.UserEmail, order.OrderDate, order.MealType, order.TotalPrice,
	)

	a.order = order
	if a.onStored != nil {
		a.onStored(order)
	}
	return nil
}

func (a *attempt) notify(ctx context.Context) error {
	if a.svc.notifier == nil || a.order == nil {
		return nil
	}
	return a.svc.notifier.SendOrderConfirmation(ctx, Confirmation(a.order))
}

// Submit validates, prices and stores one order. The order is returned
// only when the result is KindSucceeded.
func (s *Service) Submit(ctx context.Context, f Form) (submission.Result, *Order) {
	a := s.newAttempt(f)
	res := submission.Run(ctx, a.steps())
	if !res.Succeeded() {
		return res, nil
	}
	return res, a.order
}

// Confirmation builds the notification content for a stored order.
func Confirmation(o *Order) notify.OrderConfirmation {
	c := notify.OrderConfirmation{
		Name:      o.UserName,
		Email:     o.UserEmail,
		OrderDate: o.OrderDate,
		Total:     o.TotalPrice,
	}
	if o.LunchPreference != PreferenceNone {
		c.Meals = append(c.Meals, notify.MealLine{
			Slot:       string(SlotLunch),
			Preference: string(o.LunchPreference),
			Type:       string(o.LunchType),
			Price:      o.LunchPrice,
		})
	}
	if o.DinnerPreference != PreferenceNone {
		c.Meals = append(c.Meals, notify.MealLine{
			Slot:       string(SlotDinner),
			Preference: string(o.DinnerPreference),
			Type:       string(o.DinnerType),
			Price:      o.DinnerPrice,
		})
	}
	return c
}

// --------------------------------------------------
// Admin reads
// --------------------------------------------------
func (s *Service) ListAll(ctx context.Context) ([]*Order, error) {
	ctx, cancel := submission.StoreContext(ctx, s.timeout, false)
	defer cancel()
	return s.repo.ListAll(ctx)
}

func (s *Service) Summary(ctx context.Context, date string, r report.Range) (*Summary, error) {
	orders, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sum := Summarize(orders, date, r)
	return &sum, nil
}

// Export renders the orders in r and returns the file body and name.
func (s *Service) Export(ctx context.Context, r report.Range, format report.Format) ([]byte, string, error) {
	if err := r.Validate(); err != nil {
		return nil, "", err
	}

	orders, err := s.ListAll(ctx)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := ExportTable(report.FilterByRange(orders, r)).Write(&buf, format); err != nil {
		return nil, "", fmt.Errorf("render export: %w", err)
	}
	return buf.Bytes(), report.Filename(ExportEntity, r, format), nil
}
