package middleware

import (
	"context"

	"roamvan/internal/app/commands"
	"roamvan/internal/app/queries"
)

// Validatable messages check their own shape before a handler runs.
type Validatable interface {
	Validate() error
}

// Validation rejects commands that fail their own Validate method.
func Validation() CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if v, ok := cmd.(Validatable); ok {
				if err := v.Validate(); err != nil {
					return nil, err
				}
			}
			return nextFn(ctx, cmd)
		})
	}
}

// QueryValidation rejects queries that fail their own Validate method.
func QueryValidation() QueryMiddleware {
	return func(next queries.Bus) queries.Bus {
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if v, ok := q.(Validatable); ok {
				if err := v.Validate(); err != nil {
					return nil, err
				}
			}
			return nextFn(ctx, q)
		})
	}
}
