package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"mealdesk/internal/submission"
)

func waitForPhase(t *testing.T, s *Session, want submission.Phase) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.View("").Phase == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("session never reached %s", want)
}

func fillDropOff(t *testing.T, s *Session) {
	t.Helper()
	for _, a := range []Action{
		{Type: ActionSetUserName, Value: "Ravi"},
		{Type: ActionSetTransportDate, Value: "2024-01-10"},
		{Type: ActionSetWantDropOff, Value: "yes"},
		{Type: ActionSetShiftEndTime, Value: "10:00 PM"},
		{Type: ActionSetGender, Value: "male"},
		{Type: ActionSetRoute, Value: "Office-Patia-Cuttack"},
		{Type: ActionSetAcknowledgement, Value: "true"},
	} {
		if err := s.Apply(a); err != nil {
			t.Fatalf("apply %+v: %v", a, err)
		}
	}
}

func TestSessionSuccessResetsAfterDelay(t *testing.T) {
	s := NewSession(newTestService(NewInMemoryRepository()), 200*time.Millisecond)
	defer s.Close()

	fillDropOff(t, s)

	res, err := s.Submit(context.Background())
	if err != nil || !res.Succeeded() {
		t.Fatalf("expected success, got %+v / %v", res, err)
	}

	v := s.View("")
	if v.Phase != submission.PhaseSucceeded || len(v.Bookings) != 1 {
		t.Fatalf("unexpected view after success %+v", v)
	}
	if v.Availability == nil || !v.Availability.Open {
		t.Fatalf("expected open availability for the 10th, got %+v", v.Availability)
	}

	if _, err := s.Submit(context.Background()); !errors.Is(err, submission.ErrBusy) {
		t.Fatalf("expected ErrBusy while success is shown, got %v", err)
	}

	waitForPhase(t, s, submission.PhaseIdle)

	v = s.View("")
	if v.Form.UserName != "" || v.Form.TransportDate != "" || v.Bookings != nil {
		t.Fatalf("form not reset: %+v", v)
	}
}

func TestSessionCloseCancelsReset(t *testing.T) {
	s := NewSession(newTestService(NewInMemoryRepository()), 20*time.Millisecond)

	fillDropOff(t, s)
	if res, err := s.Submit(context.Background()); err != nil || !res.Succeeded() {
		t.Fatalf("expected success, got %+v / %v", res, err)
	}

	s.Close()
	time.Sleep(60 * time.Millisecond)

	if s.View("").Form.UserName != "Ravi" {
		t.Fatal("form must not change after the session is closed")
	}
	if _, err := s.Submit(context.Background()); !errors.Is(err, submission.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestSessionResetAction(t *testing.T) {
	s := NewSession(newTestService(NewInMemoryRepository()), 0)
	defer s.Close()

	fillDropOff(t, s)
	if _, err := s.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.Apply(Action{Type: ActionReset}); err != nil {
		t.Fatal(err)
	}

	v := s.View("")
	if v.Form != (Form{}) || len(v.Errors) != 0 || v.Availability != nil {
		t.Fatalf("expected blank form, got %+v", v)
	}
}

func TestSessionStoreFailureClearsStaleErrors(t *testing.T) {
	s := NewSession(newTestService(&failingRepository{}), time.Minute)
	defer s.Close()

	if err := s.Apply(Action{Type: ActionSetWantDropOff, Value: "yes"}); err != nil {
		t.Fatal(err)
	}
	res, err := s.Submit(context.Background())
	if err != nil || res.Kind != submission.KindRejected {
		t.Fatalf("expected rejection, got %+v / %v", res, err)
	}
	if s.View("").Errors["route"] == "" {
		t.Fatal("expected route error after rejection")
	}

	fillDropOff(t, s)
	res, err = s.Submit(context.Background())
	if err != nil || res.Kind != submission.KindFailed {
		t.Fatalf("expected store failure, got %+v / %v", res, err)
	}

	v := s.View("")
	if len(v.Errors) != 0 {
		t.Fatalf("errors from the earlier rejection still shown: %v", v.Errors)
	}
	if v.Phase != submission.PhaseIdle || v.Form.Route != "Office-Patia-Cuttack" {
		t.Fatalf("failed submit must keep the form, got %+v", v)
	}
}
