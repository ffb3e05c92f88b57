package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// 自分のトークンの時だけ消す
var releaseScript = goredis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// 複数プロセスで効くロック。SET NX PX で取り、TTLで必ず外れる。
type RedisLocker struct {
	rdb       goredis.UniversalClient
	prefix    string
	ttl       time.Duration
	wait      time.Duration
	retryStep time.Duration
	onRelease func(key string, err error)
}

type RedisOption func(*RedisLocker)

func WithKeyPrefix(p string) RedisOption {
	return func(l *RedisLocker) { l.prefix = p }
}

func WithRetryInterval(d time.Duration) RedisOption {
	return func(l *RedisLocker) { l.retryStep = d }
}

// 解放失敗の通知先（ログ用）
func WithReleaseHook(fn func(key string, err error)) RedisOption {
	return func(l *RedisLocker) { l.onRelease = fn }
}

func NewRedisLocker(rdb goredis.UniversalClient, ttl time.Duration, wait time.Duration, opts ...RedisOption) *RedisLocker {
	l := &RedisLocker{
		rdb:       rdb,
		prefix:    "marketplace:lock:",
		ttl:       ttl,
		wait:      wait,
		retryStep: 50 * time.Millisecond,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	fullKey := l.prefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.rdb.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			return l.releaser(fullKey, token), nil
		}

		if !time.Now().Before(deadline) {
			return nil, ErrNotAcquired
		}
		t := time.NewTimer(l.retryStep)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ErrNotAcquired
		case <-t.C:
		}
	}
}

func (l *RedisLocker) releaser(fullKey string, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			//リクエストのctxが切れていても解放する
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			err := releaseScript.Run(ctx, l.rdb, []string{fullKey}, token).Err()
			if err != nil && l.onRelease != nil {
				l.onRelease(fullKey, err)
			}
		})
	}
}
