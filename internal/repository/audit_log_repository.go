package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

// 監査ログ（注文ステータス変更）の保存と読み出し
type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	//店舗が1注文に対して行ったステータス変更（古い順）
	ListOrderStatusChanges(ctx context.Context, vendorID int64, orderID int64) ([]model.AuditLog, error)
}
