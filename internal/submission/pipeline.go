package submission

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// DefaultResetDelay is how long a successful submission stays visible
// before the form is reset.
const DefaultResetDelay = 3 * time.Second

var (
	ErrBusy   = errors.New("a submission is already in progress")
	ErrClosed = errors.New("submission pipeline is closed")
)

// Phase is the pipeline state.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseRejected   Phase = "rejected"
	PhaseSubmitting Phase = "submitting"
	PhaseFailed     Phase = "failed"
	PhaseSucceeded  Phase = "succeeded"
)

// Kind tags the outcome of one submit attempt.
type Kind string

const (
	KindSucceeded Kind = "succeeded"
	KindRejected  Kind = "rejected"
	KindFailed    Kind = "failed"
)

// Errors maps a form field name to a user-facing message.
type Errors map[string]string

func (e Errors) Any() bool {
	return len(e) > 0
}

// Result is the tagged outcome returned by Submit. Errors is set for
// KindRejected, Err for KindFailed.
type Result struct {
	Kind   Kind
	Errors Errors
	Err    error
}

func (r Result) Succeeded() bool { return r.Kind == KindSucceeded }

// Steps are the pieces of one submission. Validate must not fail; it
// returns an empty map when the input is acceptable. Persist is the single
// store call. Notify is optional and best-effort.
type Steps struct {
	Validate func() Errors
	Persist  func(ctx context.Context) error
	Notify   func(ctx context.Context) error
}

type Options struct {
	// ResetDelay <= 0 disables the automatic reset after success.
	ResetDelay time.Duration
	// OnReset runs when the reset timer fires. It and OnTransition are
	// called with the pipeline locked and must not call back into it.
	OnReset      func()
	OnTransition func(from, to Phase)
}

// Pipeline drives Idle -> Validating -> {Rejected -> Idle | Submitting ->
// {Failed -> Idle | Succeeded -> (reset) -> Idle}}. Only one submission can
// be in flight at a time.
type Pipeline struct {
	mu         sync.Mutex
	phase      Phase
	closed     bool
	resetTimer *time.Timer
	opts       Options
}

func New(opts Options) *Pipeline {
	return &Pipeline{phase: PhaseIdle, opts: opts}
}

func (p *Pipeline) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// Submit runs one attempt. It returns ErrBusy while another attempt is in
// flight or a success is still waiting for its reset, and ErrClosed after
// Close.
func (p *Pipeline) Submit(ctx context.Context, steps Steps) (Result, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return Result{}, ErrClosed
	}
	if p.phase != PhaseIdle {
		p.mu.Unlock()
		return Result{}, ErrBusy
	}

	p.transition(PhaseValidating)
	var errs Errors
	if steps.Validate != nil {
		errs = steps.Validate()
	}
	if errs.Any() {
		p.transition(PhaseRejected)
		p.transition(PhaseIdle)
		p.mu.Unlock()
		return Result{Kind: KindRejected, Errors: errs}, nil
	}

	p.transition(PhaseSubmitting)
	p.mu.Unlock()

	err := steps.Persist(ctx)
	if err == nil && steps.Notify != nil {
		if nerr := steps.Notify(ctx); nerr != nil {
			log.Printf("[SUBMISSION] notification failed: %v", nerr)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.transition(PhaseFailed)
		p.transition(PhaseIdle)
		return Result{Kind: KindFailed, Err: err}, nil
	}

	p.transition(PhaseSucceeded)
	if p.closed || p.opts.ResetDelay <= 0 {
		p.transition(PhaseIdle)
	} else {
		p.resetTimer = time.AfterFunc(p.opts.ResetDelay, p.reset)
	}
	return Result{Kind: KindSucceeded}, nil
}

// Close cancels a pending reset; OnReset never runs after Close returns.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.resetTimer != nil {
		p.resetTimer.Stop()
		p.resetTimer = nil
	}
}

func (p *Pipeline) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.phase != PhaseSucceeded {
		return
	}
	p.resetTimer = nil
	if p.opts.OnReset != nil {
		p.opts.OnReset()
	}
	p.transition(PhaseIdle)
}

func (p *Pipeline) transition(to Phase) {
	from := p.phase
	p.phase = to
	if p.opts.OnTransition != nil {
		p.opts.OnTransition(from, to)
	}
}

// Run executes a single attempt on a throwaway pipeline with no reset.
func Run(ctx context.Context, steps Steps) Result {
	p := New(Options{})
	defer p.Close()

	res, err := p.Submit(ctx, steps)
	if err != nil {
		return Result{Kind: KindFailed, Err: err}
	}
	return res
}
