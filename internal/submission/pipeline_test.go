package submission

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	steps []Phase
}

func (r *recorder) observe(from, to Phase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, to)
}

func (r *recorder) phases() []Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Phase(nil), r.steps...)
}

func TestSubmitRejectedNeverPersists(t *testing.T) {
	rec := &recorder{}
	p := New(Options{OnTransition: rec.observe})
	defer p.Close()

	persisted := false
	res, err := p.Submit(context.Background(), Steps{
		Validate: func() Errors { return Errors{"userName": "Name is required"} },
		Persist: func(ctx context.Context) error {
			persisted = true
			return nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != KindRejected {
		t.Fatalf("expected rejected, got %s", res.Kind)
	}
	if res.Errors["userName"] == "" {
		t.Fatalf("expected userName error, got %v", res.Errors)
	}
	if persisted {
		t.Fatal("persist must not run for rejected input")
	}

	want := []Phase{PhaseValidating, PhaseRejected, PhaseIdle}
	if got := rec.phases(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSubmitFailedReturnsToIdle(t *testing.T) {
	rec := &recorder{}
	p := New(Options{ResetDelay: time.Hour, OnTransition: rec.observe})
	defer p.Close()

	storeErr := errors.New("insert rejected")
	notified := false
	res, err := p.Submit(context.Background(), Steps{
		Validate: func() Errors { return nil },
		Persist:  func(ctx context.Context) error { return storeErr },
		Notify: func(ctx context.Context) error {
			notified = true
			return nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != KindFailed || !errors.Is(res.Err, storeErr) {
		t.Fatalf("expected failed with store error, got %+v", res)
	}
	if notified {
		t.Fatal("notify must not run when the insert fails")
	}
	if p.Phase() != PhaseIdle {
		t.Fatalf("expected idle, got %s", p.Phase())
	}

	want := []Phase{PhaseValidating, PhaseSubmitting, PhaseFailed, PhaseIdle}
	if got := rec.phases(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSubmitSucceededResetsAfterDelay(t *testing.T) {
	reset := make(chan struct{})
	p := New(Options{
		ResetDelay: 20 * time.Millisecond,
		OnReset:    func() { close(reset) },
	})
	defer p.Close()

	res, err := p.Submit(context.Background(), Steps{
		Validate: func() Errors { return Errors{} },
		Persist:  func(ctx context.Context) error { return nil },
	})
	if err != nil || !res.Succeeded() {
		t.Fatalf("expected success, got %+v (%v)", res, err)
	}
	if p.Phase() != PhaseSucceeded {
		t.Fatalf("expected succeeded until reset, got %s", p.Phase())
	}

	if _, err := p.Submit(context.Background(), Steps{
		Persist: func(ctx context.Context) error { return nil },
	}); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy while success is showing, got %v", err)
	}

	select {
	case <-reset:
	case <-time.After(time.Second):
		t.Fatal("reset did not fire")
	}

	deadline := time.Now().Add(time.Second)
	for p.Phase() != PhaseIdle {
		if time.Now().After(deadline) {
			t.Fatalf("expected idle after reset, got %s", p.Phase())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNotifyFailureDoesNotUndoSuccess(t *testing.T) {
	p := New(Options{})
	defer p.Close()

	res, err := p.Submit(context.Background(), Steps{
		Persist: func(ctx context.Context) error { return nil },
		Notify:  func(ctx context.Context) error { return errors.New("smtp down") },
	})
	if err != nil || !res.Succeeded() {
		t.Fatalf("expected success, got %+v (%v)", res, err)
	}
}

func TestConcurrentSubmitIsGuarded(t *testing.T) {
	p := New(Options{})
	defer p.Close()

	entered := make(chan struct{})
	release := make(chan struct{})

	done := make(chan Result)
	go func() {
		res, _ := p.Submit(context.Background(), Steps{
			Persist: func(ctx context.Context) error {
				close(entered)
				<-release
				return nil
			},
		})
		done <- res
	}()

	<-entered
	if _, err := p.Submit(context.Background(), Steps{
		Persist: func(ctx context.Context) error { return nil },
	}); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	close(release)
	if res := <-done; !res.Succeeded() {
		t.Fatalf("expected first submission to succeed, got %+v", res)
	}
}

func TestCloseCancelsPendingReset(t *testing.T) {
	fired := make(chan struct{}, 1)
	p := New(Options{
		ResetDelay: 20 * time.Millisecond,
		OnReset:    func() { fired <- struct{}{} },
	})

	if res, _ := p.Submit(context.Background(), Steps{
		Persist: func(ctx context.Context) error { return nil },
	}); !res.Succeeded() {
		t.Fatalf("expected success, got %+v", res)
	}
	p.Close()

	select {
	case <-fired:
		t.Fatal("reset fired after Close")
	case <-time.After(80 * time.Millisecond):
	}

	if _, err := p.Submit(context.Background(), Steps{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestRunIsOneShot(t *testing.T) {
	res := Run(context.Background(), Steps{
		Validate: func() Errors { return Errors{"mealType": "Please select at least one meal"} },
		Persist:  func(ctx context.Context) error { return nil },
	})
	if res.Kind != KindRejected {
		t.Fatalf("expected rejected, got %s", res.Kind)
	}

	res = Run(context.Background(), Steps{
		Persist: func(ctx context.Context) error { return nil },
	})
	if !res.Succeeded() {
		t.Fatalf("expected success, got %+v", res)
	}
}
