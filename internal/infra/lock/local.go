package lock

import (
	"context"
	"sync"
	"time"
)

// プロセス内だけで効くロック（REDIS_ADDR未設定時）
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]chan struct{}
	wait time.Duration
}

func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{
		held: make(map[string]chan struct{}),
		wait: wait,
	}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	for {
		l.mu.Lock()
		done, busy := l.held[key]
		if !busy {
			done = make(chan struct{})
			l.held[key] = done
			l.mu.Unlock()

			var once sync.Once
			return func() {
				once.Do(func() {
					l.mu.Lock()
					delete(l.held, key)
					l.mu.Unlock()
					close(done)
				})
			}, nil
		}
		l.mu.Unlock()

		//持ち主が離すまで待つ
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ErrNotAcquired
		}
	}
}
