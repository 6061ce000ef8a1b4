package pipe

import (
	"context"
	"errors"
)

// Token is the tree-wide cancellation signal. It is created once at the
// pipeline root and shared, as the same instance, with every node spawned
// under that root. Triggering is idempotent: the first cause wins and any
// number of observers may check or await the token with consistent results.
type Token struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
}

// NewToken creates a token derived from ctx. Cancelling ctx cancels the
// token as well.
func NewToken(ctx context.Context) *Token {
	ctx, cancel := context.WithCancelCause(ctx)
	return &Token{ctx: ctx, cancel: cancel}
}

// Cancel triggers the token with the given cause. Subsequent calls are
// no-ops. A nil cause is recorded as ErrDone.
func (t *Token) Cancel(cause error) {
	if cause == nil {
		cause = ErrDone
	}
	t.cancel(cause)
}

// Done returns the channel closed when the token is triggered.
func (t *Token) Done() <-chan struct{} {
	return t.ctx.Done()
}

// Cancelled reports whether the token has been triggered.
func (t *Token) Cancelled() bool {
	select {
	case <-t.ctx.Done():
		return true
	default:
		return false
	}
}

// Cause returns the error the token was triggered with, or nil for a clean
// shutdown or an untriggered token.
func (t *Token) Cause() error {
	cause := context.Cause(t.ctx)
	if cause == nil || errors.Is(cause, ErrDone) || errors.Is(cause, context.Canceled) {
		return nil
	}
	return cause
}
