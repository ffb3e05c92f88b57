package repository

import (
	"context"
	"time"

	"marketplace/internal/domain/model"
)

// 期間の集計結果
type OrderStats struct {
	Count     int64
	Revenue   int64
	Customers int64
}

// 集計の期間（nilは制限なし）
type StatsRange struct {
	From *time.Time
	To   *time.Time
}

type OrderRepository interface {
	//明細もまとめて作成
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	//新しい順
	ListByCustomerID(ctx context.Context, customerID int64) ([]model.Order, error)
	ListByVendorID(ctx context.Context, vendorID int64, limit int) ([]model.Order, error)

	//fromの時だけtoへ更新する。0件ならErrConflict。
	UpdateStatus(ctx context.Context, orderID int64, vendorID int64, from model.OrderStatus, to model.OrderStatus) error

	//ダッシュボード用
	StatsByVendor(ctx context.Context, vendorID int64, r StatsRange) (OrderStats, error)
}
