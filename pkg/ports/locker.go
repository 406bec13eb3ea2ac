package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock obtained from a SessionLocker.
type UnlockFunc func(ctx context.Context) error

// SessionLocker serializes turns on one session id across processes that
// share a StateStore. The in-process Manager lock still applies on top.
type SessionLocker interface {
	// Lock blocks until the key is held or ctx is done. The lock expires
	// after ttl if the holder never releases it.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
