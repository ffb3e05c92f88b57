package repository

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func preloadOrderItems(db *gorm.DB) *gorm.DB {
	return db.Order("order_items.id asc")
}

// 注文と明細を作成
func (r *OrderGormRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items", preloadOrderItems).
		Where("id = ?", orderID).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) ListByCustomerID(ctx context.Context, customerID int64) ([]model.Order, error) {
	var items []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items", preloadOrderItems).
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Order("id desc").
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

// limit<=0は全件
func (r *OrderGormRepository) ListByVendorID(ctx context.Context, vendorID int64, limit int) ([]model.Order, error) {
	q := r.db.WithContext(ctx).
		Preload("Items", preloadOrderItems).
		Where("vendor_id = ?", vendorID).
		Order("created_at desc").
		Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var items []model.Order
	if err := q.Find(&items).Error; err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

// ステータスを書き換える唯一の場所
func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, vendorID int64, from model.OrderStatus, to model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND vendor_id = ? AND status = ?", orderID, vendorID, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrConflict
	}
	return nil
}

func (r *OrderGormRepository) StatsByVendor(ctx context.Context, vendorID int64, rg repo.StatsRange) (repo.OrderStats, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{}).Where("vendor_id = ?", vendorID)

	//期間絞り込み
	if rg.From != nil {
		q = q.Where("created_at >= ?", *rg.From)
	}
	if rg.To != nil {
		q = q.Where("created_at < ?", *rg.To)
	}

	var stats repo.OrderStats
	err := q.Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue, COUNT(DISTINCT customer_id) AS customers").
		Scan(&stats).Error
	if err != nil {
		return repo.OrderStats{}, err
	}
	return stats, nil
}
