package submission

import (
	"context"
	"time"
)

// StoreContext bounds one store call by timeout. With detached set, the
// caller's cancellation is dropped so a write that reached the store is not
// cut off when the client disconnects. A timeout <= 0 means no bound.
func StoreContext(ctx context.Context, timeout time.Duration, detached bool) (context.Context, context.CancelFunc) {
	if detached {
		ctx = context.WithoutCancel(ctx)
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
