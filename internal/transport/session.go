package transport

import (
	"context"
	"sync"
	"time"

	"mealdesk/internal/deadline"
	"mealdesk/internal/submission"
)

// Session is one user's transport form kept on the server between edits.
type Session struct {
	svc      *Service
	pipeline *submission.Pipeline

	mu       sync.Mutex
	form     Form
	errors   submission.Errors
	bookings []*Booking
}

type SessionView struct {
	ID           string            `json:"id"`
	Phase        submission.Phase  `json:"phase"`
	Form         Form              `json:"form"`
	Errors       submission.Errors `json:"errors"`
	Availability *deadline.Window  `json:"availability,omitempty"`
	Bookings     []*Booking        `json:"bookings,omitempty"`
}

func NewSession(svc *Service, resetDelay time.Duration) *Session {
	s := &Session{
		svc:    svc,
		errors: submission.Errors{},
	}
	s.pipeline = submission.New(submission.Options{
		ResetDelay: resetDelay,
		OnReset:    s.resetForm,
	})
	return s
}

func (s *Session) Apply(a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.Type == ActionReset {
		s.form = Form{}
		s.errors = submission.Errors{}
		return nil
	}

	next, err := Reduce(s.form, a)
	if err != nil {
		return err
	}
	s.form = next
	return nil
}

// Submit sends the current form through the session pipeline. It returns
// submission.ErrBusy while an earlier attempt is in flight or its success
// is still on screen.
func (s *Session) Submit(ctx context.Context) (submission.Result, error) {
	s.mu.Lock()
	form := s.form
	s.mu.Unlock()

	a := s.svc.newAttempt(form)
	a.onValidated = func(errs submission.Errors) {
		s.mu.Lock()
		s.errors = errs
		s.mu.Unlock()
	}
	a.onStored = func(b []*Booking) {
		s.mu.Lock()
		s.errors = submission.Errors{}
		s.bookings = b
		s.mu.Unlock()
	}

	return s.pipeline.Submit(ctx, a.steps())
}

func (s *Session) View(id string) SessionView {
	phase := s.pipeline.Phase()

	s.mu.Lock()
	defer s.mu.Unlock()

	v := SessionView{
		ID:     id,
		Phase:  phase,
		Form:   s.form,
		Errors: s.errors,
	}
	if s.form.TransportDate != "" {
		if w, err := s.svc.Availability(s.form.TransportDate); err == nil {
			v.Availability = &w
		}
	}
	if phase == submission.PhaseSucceeded {
		v.Bookings = s.bookings
	}
	return v
}

func (s *Session) Close() {
	s.pipeline.Close()
}

func (s *Session) resetForm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.form = Form{}
	s.errors = submission.Errors{}
	s.bookings = nil
}
