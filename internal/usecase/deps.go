package usecase

import (
	"context"
	"time"

	"marketplace/internal/infra/events"
)

// 現在の時間
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

// DBの時刻はUTCで揃える
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// 注文イベントの送り先
type EventPublisher interface {
	Publish(ctx context.Context, evt events.OrderEvent) error
}
