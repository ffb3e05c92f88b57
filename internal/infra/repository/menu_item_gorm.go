package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"gorm.io/gorm"
)

type MenuItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewMenuItemGormRepository(db *gorm.DB) *MenuItemGormRepository {
	return &MenuItemGormRepository{db: db}
}

func (r *MenuItemGormRepository) Create(ctx context.Context, item *model.MenuItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// IDでメニューを取得
func (r *MenuItemGormRepository) FindByID(ctx context.Context, id int64) (model.MenuItem, error) {
	var item model.MenuItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.MenuItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.MenuItem{}, err
	}
	return item, nil
}

// カート表示用にまとめて取得
func (r *MenuItemGormRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]model.MenuItem, error) {
	out := make(map[int64]model.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []model.MenuItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, it := range rows {
		out[it.ID] = it
	}
	return out, nil
}

func (r *MenuItemGormRepository) ListByVendorID(ctx context.Context, vendorID int64, onlyAvailable bool) ([]model.MenuItem, error) {
	q := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID)
	if onlyAvailable {
		q = q.Where("available = ?", true)
	}

	var rows []model.MenuItem
	if err := q.Order("id asc").Find(&rows).Error; err != nil {
		return []model.MenuItem{}, err
	}
	return rows, nil
}

func (r *MenuItemGormRepository) Update(ctx context.Context, item model.MenuItem) error {
	//falseや0も書き込むためSelectで列を指定
	res := r.db.WithContext(ctx).
		Model(&model.MenuItem{ID: item.ID}).
		Select("name", "description", "price", "category", "available", "image").
		Updates(&item)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *MenuItemGormRepository) DeleteOwned(ctx context.Context, vendorID int64, itemID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND vendor_id = ?", itemID, vendorID).
		Delete(&model.MenuItem{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
