package middleware

import (
	"context"

	"hotelops/internal/app/commands"
	"hotelops/internal/app/queries"
)

// SelfValidating is implemented by commands and queries that can check
// their own fields before any transaction is opened.
type SelfValidating interface {
	Validate() error
}

// Validation rejects commands failing their own validation before the
// transaction middleware spends a round trip on them.
func Validation() CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if v, ok := cmd.(SelfValidating); ok {
				if err := v.Validate(); err != nil {
					return nil, err
				}
			}
			return nextFn(ctx, cmd)
		})
	}
}

// QueryValidation is the query-side counterpart.
func QueryValidation() QueryMiddleware {
	return func(next queries.Bus) queries.Bus {
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if v, ok := q.(SelfValidating); ok {
				if err := v.Validate(); err != nil {
					return nil, err
				}
			}
			return nextFn(ctx, q)
		})
	}
}
