package lock

import (
	"context"

	"go.uber.org/zap"
)

// AccountLocker is implemented by every request that mutates an account balance
type AccountLocker interface {
	AccountNumber() string
}

// Operation is any request handler guarded by an account lock
type Operation[Req any, Resp any] func(ctx context.Context, req Req) (Resp, error)

// WithAccountLock wraps op so it only runs while the lock for
// req.AccountNumber() is held. Acquire errors are returned unchanged and op is
// not called. The lock is released on every exit path, panics included, and
// op's own result is returned untouched.
func WithAccountLock[Req AccountLocker, Resp any](locker Locker, op Operation[Req, Resp]) Operation[Req, Resp] {
	return func(ctx context.Context, req Req) (Resp, error) {
		handle, err := locker.Acquire(ctx, req.AccountNumber())
		if err != nil {
			var zero Resp
			return zero, err
		}

		defer func() {
			// the request context may already be cancelled; release must still go out
			if err := locker.Release(context.WithoutCancel(ctx), handle); err != nil {
				zap.L().Error("Failed to release account lock",
					zap.String("account_number", handle.Key),
					zap.Error(err))
			}
		}()

		return op(ctx, req)
	}
}
