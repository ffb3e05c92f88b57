package lock

import (
	"context"
	"errors"
)

// 待ち時間内に取れなかった
var ErrNotAcquired = errors.New("lock not acquired")

// キーごとの排他。releaseは何回呼んでもよい。
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
