package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
)

// ErrLockBusy signals that another request holds the per-user lock.
var ErrLockBusy = errors.New("operation already in progress")

// LockUser obtains a short per-user advisory lock so concurrent duplicate
// requests (double-click check-in, retried claim) serialize before reaching
// the database guard. The conditional UPDATE remains the authoritative guard;
// when redis is unreachable the lock degrades to a no-op rather than failing
// the request.
func LockUser(ctx context.Context, scope string, userID uint) (release func(), err error) {
	rc := GetRedis()
	if rc == nil {
		return func() {}, nil
	}

	locker := redislock.New(rc)
	key := fmt.Sprintf("lock:%s:%d", scope, userID)
	lock, err := locker.Obtain(ctx, key, 5*time.Second, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 3),
	})
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, ErrLockBusy
		}
		// redis down: let the DB guard carry the invariant alone
		if Sugar != nil {
			Sugar.Warnf("user lock unavailable scope=%s user=%d err=%v", scope, userID, err)
		}
		return func() {}, nil
	}

	return func() {
		_ = lock.Release(context.Background())
	}, nil
}
