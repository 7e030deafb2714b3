package submission

import (
	"context"
	"testing"
	"time"
)

func TestStoreContextDetachedIgnoresCallerCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	cancel()

	ctx, done := StoreContext(parent, time.Second, true)
	defer done()

	if err := ctx.Err(); err != nil {
		t.Fatalf("detached store context inherited cancellation: %v", err)
	}
	if _, ok := ctx.Deadline(); !ok {
		t.Fatal("detached store context must still carry the timeout")
	}
}

func TestStoreContextAttachedFollowsCaller(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	cancel()

	ctx, done := StoreContext(parent, 0, false)
	defer done()

	if ctx.Err() == nil {
		t.Fatal("attached store context should be cancelled with its caller")
	}
	if _, ok := ctx.Deadline(); ok {
		t.Fatal("zero timeout must not set a deadline")
	}
}
