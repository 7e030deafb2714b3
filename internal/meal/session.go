package meal

import (
	"context"
	"sync"
	"time"

	"mealdesk/internal/deadline"
	"mealdesk/internal/submission"
)

// Session is one user's order form kept on the server between edits.
type Session struct {
	svc      *Service
	pipeline *submission.Pipeline

	mu     sync.Mutex
	form   Form
	errors submission.Errors
	last   *Order
}

// SessionView is what the client renders.
type SessionView struct {
	ID           string                   `json:"id"`
	Phase        submission.Phase         `json:"phase"`
	Form         Form                     `json:"form"`
	Errors       submission.Errors        `json:"errors"`
	TotalPrice   int                      `json:"total_price"`
	Availability map[Slot]deadline.Window `json:"availability,omitempty"`
	Order        *Order                   `json:"order,omitempty"`
}

func NewSession(svc *Service, resetDelay time.Duration) *Session {
	s := &Session{
		svc:    svc,
		form:   svc.initialForm(),
		errors: submission.Errors{},
	}
	s.pipeline = submission.New(submission.Options{
		ResetDelay: resetDelay,
		OnReset:    s.resetForm,
	})
	return s
}

func (s *Service) initialForm() Form {
	return NewForm(s.policy.Today())
}

// Apply runs one edit through the reducer.
func (s *Session) Apply(a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.Type == ActionReset {
		s.form = s.svc.initialForm()
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
// submission.ErrBusy while an earlier attempt is still in flight or its
// success is still on screen.
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
	a.onStored = func(o *Order) {
		s.mu.Lock()
		s.errors = submission.Errors{}
		s.last = o
		s.mu.Unlock()
	}

	return s.pipeline.Submit(ctx, a.steps())
}

func (s *Session) View(id string) SessionView {
	phase := s.pipeline.Phase()

	s.mu.Lock()
	defer s.mu.Unlock()

	v := SessionView{
		ID:         id,
		Phase:      phase,
		Form:       s.form,
		Errors:     s.errors,
		TotalPrice: s.form.TotalPrice(),
	}
	if av, err := s.svc.Availability(s.form.OrderDate); err == nil {
		v.Availability = av
	}
	if phase == submission.PhaseSucceeded {
		v.Order = s.last
	}
	return v
}

func (s *Session) Close() {
	s.pipeline.Close()
}

// resetForm runs from the pipeline's reset timer.
func (s *Session) resetForm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.form = s.svc.initialForm()
	s.errors = submission.Errors{}
	s.last = nil
}
