package resilience

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

// WithTimeout runs fn under a deadline of d. A non-positive d leaves ctx
// untouched. Errors returned after the deadline fired are tagged so callers
// can tell a timeout from a remote failure.
func WithTimeout[T any](ctx context.Context, d time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if d <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	val, err := fn(ctx)
	if err != nil && eris.Is(ctx.Err(), context.DeadlineExceeded) {
		return val, eris.Wrapf(err, "resilience: deadline %s exceeded", d)
	}
	return val, err
}

// IsTimeout reports whether err came from an expired deadline.
func IsTimeout(err error) bool {
	return eris.Is(err, context.DeadlineExceeded)
}
