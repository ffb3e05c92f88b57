package repository

import (
	"context"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"gorm.io/gorm"
)

type auditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

func (r *auditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	return r.db.WithContext(ctx).Create(&log).Error
}

// 遷移は一方向なので件数はMaxStatusTransitionsまで
func (r *auditLogGormRepository) ListOrderStatusChanges(ctx context.Context, vendorID int64, orderID int64) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	err := r.db.WithContext(ctx).
		Where("actor_vendor_id = ? AND action = ? AND resource_type = ? AND resource_id = ?",
			vendorID, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, orderID).
		Order("id ASC").
		Limit(model.MaxStatusTransitions).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
