package middleware

import (
	"context"
	"errors"

	"hotelops/internal/app/commands"
	"hotelops/internal/app/uow"
	"hotelops/internal/domain/shared/apperr"
)

// DefaultTxAttempts bounds the optimistic-concurrency retry loop.
const DefaultTxAttempts = 3

// Do runs fn up to maxAttempts times, retrying only on the store's
// optimistic version-check failure. Domain conflicts such as an occupied
// room are deterministic answers, not stale reads, so they abort
// immediately like any other error. When every attempt hits a stale
// write the last error is surfaced as a conflict.
func Do(ctx context.Context, maxAttempts int, fn func(ctx context.Context) error) error {
	if maxAttempts <= 0 {
		maxAttempts = DefaultTxAttempts
	}
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = fn(ctx)
		if err == nil || !errors.Is(err, uow.ErrConcurrentUpdate) {
			return err
		}
	}
	return apperr.Wrap(apperr.KindConflict, "middleware: conflict after retries", err)
}

// Retry re-dispatches a command whose transaction aborted with a write
// conflict. It sits outside Transaction in the chain so each attempt gets
// a fresh unit of work.
func Retry(maxAttempts int) CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			var res any
			err := Do(ctx, maxAttempts, func(ctx context.Context) error {
				var dispatchErr error
				res, dispatchErr = nextFn(ctx, cmd)
				return dispatchErr
			})
			if err != nil {
				return nil, err
			}
			return res, nil
		})
	}
}
